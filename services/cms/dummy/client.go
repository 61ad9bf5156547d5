// Package dummycms provides an in-memory CMS client for tests.
package dummycms

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core/schedule"
)

type Client struct {
	// Docs maps course paths to canned documents.
	Docs map[string]*schedule.Document
	// FetchErr, when set, fails every fetch.
	FetchErr error
	// SaveErr, when set, fails every save.
	SaveErr error
	// Token is returned as the fresh CSRF token on successful saves.
	Token string

	// SavedForms records every form posted via Save.
	SavedForms []url.Values
	// Unlocked records every path passed to Unlock.
	Unlocked []string
}

var _ schedule.CMSClient = (*Client)(nil)

func (c *Client) FetchSchedule(_ context.Context, path string, _ schedule.FetchMode) (*schedule.Document, error) {
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	doc, ok := c.Docs[path]
	if !ok {
		return nil, errors.Errorf("dummycms: no document for %s", path)
	}
	return doc, nil
}

func (c *Client) Save(_ context.Context, _ string, form url.Values) (schedule.SaveResult, error) {
	if c.SaveErr != nil {
		return schedule.SaveResult{}, c.SaveErr
	}
	c.SavedForms = append(c.SavedForms, form)
	return schedule.SaveResult{OK: true, StatusCode: 200, CSRFToken: c.Token}, nil
}

func (c *Client) Unlock(_ context.Context, path string) error {
	c.Unlocked = append(c.Unlocked, path)
	return nil
}
