// Package cmssvc implements the HTTP client for the content-management
// server that owns the course-schedule documents. The CMS is a trusted
// internal collaborator; its JSON is decoded as-is and its HTML responses
// are only inspected for status and CSRF token.
package cmssvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core"
	"github.com/campusweb/courseplan/core/schedule"
)

// csrfTokenRegex pulls the fresh prevention token out of opaque form HTML.
var csrfTokenRegex = regexp.MustCompile(`name=["']csrf-prevention-token["']\s+value=["']([^"']+)["']`)

type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

var _ schedule.CMSClient = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: conf.CMS.BaseURL,
		http:    &http.Client{Timeout: conf.CMS.Timeout},
		logger:  logger,
	}
}

// FetchSchedule GETs `<base><path>?action=course-schedule`, adding
// `mode=edit` for the editor. Edit fetches are always cache-busted with a
// timestamp parameter; view fetches rely on the service-side TTL cache.
func (c *Client) FetchSchedule(ctx context.Context, path string, mode schedule.FetchMode) (*schedule.Document, error) {
	q := url.Values{}
	q.Set("action", "course-schedule")
	if mode == schedule.ModeEdit {
		q.Set("mode", "edit")
		q.Set("t", fmt.Sprintf("%d", time.Now().UnixNano()/int64(time.Millisecond)))
	}
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building schedule request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s: %s", path, resp.Status)
	}

	var doc schedule.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "decoding schedule for %s", path)
	}
	return &doc, nil
}

// Save posts the serialized editor form (CSRF token included) to the
// CMS-provided action URL. The response HTML is opaque; only its status and
// a fresh CSRF token are read. Failures are retryable: callers keep their
// dirty state and may post again.
func (c *Client) Save(ctx context.Context, actionURL string, form url.Values) (schedule.SaveResult, error) {
	if !strings.HasPrefix(actionURL, "http") {
		actionURL = c.baseURL + actionURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, actionURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return schedule.SaveResult{}, errors.Wrap(err, "building save request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return schedule.SaveResult{}, core.NewRetryableError(errors.Wrap(err, "posting save form"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return schedule.SaveResult{}, core.NewRetryableError(errors.Wrap(err, "reading save response"))
	}

	result := schedule.SaveResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
	}
	if m := csrfTokenRegex.FindSubmatch(body); m != nil {
		result.CSRFToken = string(m[1])
	}
	if !result.OK {
		return result, core.NewRetryableError(errors.Errorf("save rejected: %s", resp.Status))
	}
	return result, nil
}

// Unlock releases the CMS edit lock for a path; called when the editor is
// closed without saving.
func (c *Client) Unlock(ctx context.Context, path string) error {
	reqURL := c.baseURL + path + "?vrtx=admin&action=unlock"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "building unlock request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "unlocking %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.Errorf("unlocking %s: %s", path, resp.Status)
	}
	return nil
}
