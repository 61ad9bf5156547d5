package schedule

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/campusweb/courseplan/core"
	"github.com/campusweb/courseplan/core/locale"
)

// FetchMode selects the CMS endpoint variant for a schedule fetch.
type FetchMode int

const (
	// ModeView fetches the published schedule; responses may be cached.
	ModeView FetchMode = iota
	// ModeEdit fetches the editable schedule; always cache-busted.
	ModeEdit
)

type (
	// CMSClient is the external content-management server owning the
	// course-schedule documents. Save/Unlock responses are opaque HTML; only
	// the CSRF token and status are inspected.
	CMSClient interface {
		FetchSchedule(ctx context.Context, path string, mode FetchMode) (*Document, error)
		Save(ctx context.Context, actionURL string, form url.Values) (SaveResult, error)
		Unlock(ctx context.Context, path string) error
	}

	SaveResult struct {
		OK         bool
		StatusCode int
		// CSRFToken is the fresh token parsed out of the response HTML, to be
		// used by the next save.
		CSRFToken string
	}

	Service struct {
		cfg        *core.Config
		client     CMSClient
		logger     core.Logger
		dispatcher *Dispatcher

		mu    sync.RWMutex
		cache map[string]*cachedDoc

		cron *cron.Cron
	}

	cachedDoc struct {
		doc       *Document
		updatedAt time.Time
	}
)

func NewService(cfg *core.Config, client CMSClient, logger core.Logger) *Service {
	return &Service{
		cfg:        cfg,
		client:     client,
		logger:     logger,
		dispatcher: &Dispatcher{Logger: logger},
		cache:      make(map[string]*cachedDoc),
	}
}

// Document fetches the course-schedule document for a path. View-mode
// responses are served from a small TTL cache; edit mode always goes to the
// CMS so the editor never works on stale data.
func (svc *Service) Document(ctx context.Context, path string, mode FetchMode) (*Document, error) {
	if mode == ModeView {
		svc.mu.RLock()
		cd := svc.cache[path]
		svc.mu.RUnlock()
		if cd != nil && time.Since(cd.updatedAt) < svc.cfg.Schedule.CacheTTL {
			return cd.doc, nil
		}
	}

	doc, err := svc.client.FetchSchedule(ctx, path, mode)
	if err != nil {
		return nil, core.NewNoDataError(errors.Wrapf(err, "fetching schedule for %s", path))
	}

	if mode == ModeView {
		svc.mu.Lock()
		svc.cache[path] = &cachedDoc{doc: doc, updatedAt: time.Now()}
		svc.mu.Unlock()
	}
	return doc, nil
}

// RenderPage fetches and renders the full schedule page fragments for a path.
func (svc *Service) RenderPage(ctx context.Context, path string, canEdit bool) (Result, error) {
	doc, err := svc.Document(ctx, path, ModeView)
	if err != nil {
		return Result{}, err
	}
	return svc.RenderDocument(doc, path, canEdit), nil
}

// RenderDocument renders an already-fetched document, e.g. the edit-mode
// variant the editor holds on to.
func (svc *Service) RenderDocument(doc *Document, path string, canEdit bool) Result {
	return svc.dispatcher.Render(doc, svc.NewRenderer(path, canEdit))
}

// NewRenderer builds a renderer with "now" captured once, per render.
func (svc *Service) NewRenderer(path string, canEdit bool) *Renderer {
	return &Renderer{
		Loc:      svc.cfg.DisplayLocation(),
		Table:    locale.Get(svc.cfg.Schedule.Locale),
		Now:      time.Now(),
		PagePath: path,
		CanEdit:  canEdit,
	}
}

// Calendar exports a path's schedule as iCalendar text.
func (svc *Service) Calendar(ctx context.Context, path string) (string, error) {
	doc, err := svc.Document(ctx, path, ModeView)
	if err != nil {
		return "", err
	}
	cal, err := BuildCalendar(doc, path)
	if err != nil {
		return "", errors.Wrapf(err, "building calendar for %s", path)
	}
	return cal.Serialize(), nil
}

// Invalidate drops a path's cached document, e.g. after a successful save.
func (svc *Service) Invalidate(path string) {
	svc.mu.Lock()
	delete(svc.cache, path)
	svc.mu.Unlock()
}

// StartRefresh begins the cron-driven warm refresh of the configured paths.
func (svc *Service) StartRefresh() error {
	if len(svc.cfg.Schedule.WarmPaths) == 0 || svc.cfg.Schedule.RefreshCron == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(svc.cfg.Schedule.RefreshCron, svc.refreshWarmPaths); err != nil {
		return errors.Wrap(err, "adding refresh cron entry")
	}
	c.Start()
	svc.cron = c
	return nil
}

// StopRefresh stops the refresh loop and waits for a running job to finish.
func (svc *Service) StopRefresh() {
	if svc.cron != nil {
		<-svc.cron.Stop().Done()
	}
}

func (svc *Service) refreshWarmPaths() {
	ctx, cancel := context.WithTimeout(context.Background(), svc.cfg.CMS.Timeout)
	defer cancel()

	for _, path := range svc.cfg.Schedule.WarmPaths {
		doc, err := svc.client.FetchSchedule(ctx, path, ModeView)
		if err != nil {
			svc.logger.Error("warm refresh failed", err, map[string]interface{}{"path": path})
			continue
		}
		svc.mu.Lock()
		svc.cache[path] = &cachedDoc{doc: doc, updatedAt: time.Now()}
		svc.mu.Unlock()
	}
}
