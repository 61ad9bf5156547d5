package schedule

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core"
)

// stubClient counts fetches so cache behavior is observable.
type stubClient struct {
	doc     *Document
	err     error
	fetches int
	mode    FetchMode
}

func (c *stubClient) FetchSchedule(_ context.Context, _ string, mode FetchMode) (*Document, error) {
	c.fetches++
	c.mode = mode
	if c.err != nil {
		return nil, c.err
	}
	return c.doc, nil
}

func (c *stubClient) Save(context.Context, string, url.Values) (SaveResult, error) {
	return SaveResult{}, nil
}

func (c *stubClient) Unlock(context.Context, string) error { return nil }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func testServiceConf() *core.Config {
	return &core.Config{
		Schedule: core.ScheduleConfig{
			Timezone: "Europe/Oslo",
			Locale:   "no",
			CacheTTL: time.Minute,
		},
		CMS: core.CMSConfig{Timeout: time.Second},
	}
}

func TestServiceDocumentCaching(t *testing.T) {
	client := &stubClient{doc: dispatchTestDoc()}
	svc := NewService(testServiceConf(), client, nopLogger{})
	ctx := context.Background()

	if _, err := svc.Document(ctx, "/x", ModeView); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if _, err := svc.Document(ctx, "/x", ModeView); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if client.fetches != 1 {
		t.Errorf("fetches = %d, want 1 (second view served from cache)", client.fetches)
	}

	// edit mode always hits the CMS
	if _, err := svc.Document(ctx, "/x", ModeEdit); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if client.fetches != 2 || client.mode != ModeEdit {
		t.Errorf("fetches = %d, mode = %v; edit fetch must bypass the cache", client.fetches, client.mode)
	}

	// invalidation forces a refetch
	svc.Invalidate("/x")
	if _, err := svc.Document(ctx, "/x", ModeView); err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if client.fetches != 3 {
		t.Errorf("fetches = %d, want 3 after Invalidate()", client.fetches)
	}
}

func TestServiceDocumentNoData(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	svc := NewService(testServiceConf(), client, nopLogger{})

	_, err := svc.Document(context.Background(), "/x", ModeView)
	if err == nil {
		t.Fatal("Document() expected error")
	}
	if !core.IsNoData(err) {
		t.Errorf("Document() error not a no-data error: %v", err)
	}
}

func TestServiceRenderPage(t *testing.T) {
	client := &stubClient{doc: dispatchTestDoc()}
	svc := NewService(testServiceConf(), client, nopLogger{})

	res, err := svc.RenderPage(context.Background(), "/x", false)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if res.TocHTML == "" || res.TablesHTML == "" {
		t.Error("RenderPage() returned empty fragments")
	}
}

func TestServiceCalendar(t *testing.T) {
	client := &stubClient{doc: dispatchTestDoc()}
	svc := NewService(testServiceConf(), client, nopLogger{})

	out, err := svc.Calendar(context.Background(), "/x")
	if err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	if out == "" {
		t.Error("Calendar() returned empty output")
	}
}
