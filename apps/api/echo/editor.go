package echoapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core"
	"github.com/campusweb/courseplan/core/schedule"
	"github.com/campusweb/courseplan/core/schedule/editor"
)

const csrfTokenField = "csrf-prevention-token"

type (
	editorApi struct {
		svc      *schedule.Service
		cms      schedule.CMSClient
		validate *validator.Validate

		mu   sync.Mutex
		open map[string]*editSession
	}

	// editSession is one principal's open editor on one course path. The
	// store lives and dies with it, so concurrent editors stay isolated.
	editSession struct {
		path  string
		store *editor.Store

		mu        sync.Mutex
		csrfToken string
	}
)

// token returns the CSRF token parsed from the last save response.
func (es *editSession) token() string {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.csrfToken
}

func (es *editSession) setToken(token string) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.csrfToken = token
}

func registerEditorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := &editorApi{
		svc:      deps.ScheduleSvc,
		cms:      deps.CMSClient,
		validate: deps.Validate,
		open:     make(map[string]*editSession),
	}

	eg := g.Group("/editor", jwt, editorMiddleware())
	eg.GET("/schedule", api.openSchedule)
	eg.GET("/session", api.getSession)
	eg.GET("/dirty", api.dirty)
	eg.PUT("/sessions", api.updateSession)
	eg.POST("/save", api.save)
	eg.POST("/unlock", api.unlock)
}

func (api *editorApi) sessionKey(ctx echo.Context, path string) (string, error) {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return "", err
	}
	return principal.ID + "|" + path, nil
}

func (api *editorApi) session(ctx echo.Context, path string) (*editSession, error) {
	key, err := api.sessionKey(ctx, path)
	if err != nil {
		return nil, err
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	es, ok := api.open[key]
	if !ok {
		return nil, errHttpNotFound
	}
	return es, nil
}

// Handlers

// openSchedule fetches the editable document, loads the edit store from it
// and returns the rendered page with edit affordances.
func (api *editorApi) openSchedule(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	doc, err := api.svc.Document(ctx.Request().Context(), data.Path, schedule.ModeEdit)
	if err != nil {
		return errors.Wrap(err, "fetching editable schedule")
	}

	store := editor.NewStore()
	if err := store.Load(doc); err != nil {
		return errors.Wrap(err, "loading edit store")
	}

	key, err := api.sessionKey(ctx, data.Path)
	if err != nil {
		return err
	}
	api.mu.Lock()
	api.open[key] = &editSession{path: data.Path, store: store}
	api.mu.Unlock()

	// the field schemas the editor renders its forms from, passed through
	// untouched
	descs := make(map[string]json.RawMessage)
	for _, typ := range []string{schedule.TypePlenary, schedule.TypeGroup} {
		if td := doc.ForType(typ); td != nil && len(td.VrtxEditableDescription) > 0 {
			descs[typ] = td.VrtxEditableDescription
		}
	}

	res := api.svc.RenderDocument(doc, data.Path, true)
	return ctx.JSON(http.StatusOK, EditorScheduleResponse{
		Toc:          res.TocHTML,
		Tables:       res.TablesHTML,
		Descriptions: descs,
	})
}

// getSession resolves a session by the composite id an edit URL carries and
// returns its live field values plus the form schema to build its panel from.
func (api *editorApi) getSession(ctx echo.Context) error {
	var data SessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	es, err := api.session(ctx, data.Path)
	if err != nil {
		return err
	}
	entry, ok := es.store.Lookup(data.SessionID)
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		Fields:       entry.Raw,
		Descriptions: entry.Descs,
		HasChanges:   entry.HasChanges,
	})
}

// dirty reports whether the open editor carries unsaved changes.
func (api *editorApi) dirty(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	es, err := api.session(ctx, data.Path)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, DirtyResponse{Dirty: es.store.Dirty()})
}

// updateSession writes edited form fields back into one session's edit state
// and returns its recomputed dirty flags.
func (api *editorApi) updateSession(ctx echo.Context) error {
	var data UpdateSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSessionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	es, err := api.session(ctx, data.Path)
	if err != nil {
		return err
	}

	entry, err := es.store.Update(data.GroupID, data.SessionID, data.Fields, data.RichTextDirty)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "not found").SetInternal(err)
	}
	return ctx.JSON(http.StatusOK, UpdateSessionResponse{
		HasChanges: entry.HasChanges,
		Dirty:      es.store.Dirty(),
	})
}

// save serializes every dirty session into the CMS save form and posts it.
// On success the store commits and the view cache is invalidated; on a
// retryable failure the dirty state is kept so the client may post again.
func (api *editorApi) save(ctx echo.Context) error {
	var data SaveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	es, err := api.session(ctx, data.Path)
	if err != nil {
		return err
	}

	// the token from the last save response doubles as a fallback
	token := data.CSRFToken
	if token == "" {
		token = es.token()
	}
	if token == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "csrfToken", Error: "this field is required"})
	}

	changed := es.store.Changed()
	if len(changed) == 0 {
		return ctx.JSON(http.StatusOK, SaveResponse{OK: true, CSRFToken: token})
	}

	form := url.Values{}
	form.Set(csrfTokenField, token)
	for id, raw := range changed {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return errors.Wrapf(err, "encoding session %s", id)
		}
		form.Set(id, string(encoded))
	}

	result, err := api.cms.Save(ctx.Request().Context(), data.ActionURL, form)
	if err != nil {
		return errors.Wrap(err, "posting save form")
	}

	es.store.Commit()
	es.setToken(result.CSRFToken)
	api.svc.Invalidate(data.Path)

	return ctx.JSON(http.StatusOK, SaveResponse{OK: true, CSRFToken: result.CSRFToken})
}

// unlock releases the CMS edit lock and discards the edit session.
func (api *editorApi) unlock(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.cms.Unlock(ctx.Request().Context(), data.Path); err != nil {
		return errors.Wrap(err, "unlocking schedule")
	}

	key, err := api.sessionKey(ctx, data.Path)
	if err != nil {
		return err
	}
	api.mu.Lock()
	delete(api.open, key)
	api.mu.Unlock()

	return ctx.NoContent(http.StatusNoContent)
}

type (
	EditorScheduleResponse struct {
		Toc    string `json:"toc"`
		Tables string `json:"tables"`
		// Descriptions carries the opaque per-type form schemas.
		Descriptions map[string]json.RawMessage `json:"descriptions,omitempty"`
	}

	SessionRequest struct {
		Path      string `query:"path" json:"path" validate:"required,coursepath"`
		SessionID string `query:"sessionId" json:"sessionId" validate:"required"`
	}

	SessionResponse struct {
		Fields       map[string]interface{} `json:"fields"`
		Descriptions json.RawMessage        `json:"descriptions,omitempty"`
		HasChanges   bool                   `json:"hasChanges"`
	}

	DirtyResponse struct {
		Dirty bool `json:"dirty"`
	}

	UpdateSessionRequest struct {
		Path          string                 `json:"path" validate:"required,coursepath"`
		GroupID       string                 `json:"groupId" validate:"required"`
		SessionID     string                 `json:"sessionId" validate:"required"`
		Fields        map[string]interface{} `json:"fields" validate:"required"`
		RichTextDirty bool                   `json:"richtextDirty"`
	}

	UpdateSessionResponse struct {
		HasChanges bool `json:"hasChanges"`
		Dirty      bool `json:"dirty"`
	}

	SaveRequest struct {
		Path      string `json:"path" validate:"required,coursepath"`
		ActionURL string `json:"actionUrl" validate:"required"`
		// CSRFToken may be omitted after the first save; the token parsed
		// from the previous save response is used instead.
		CSRFToken string `json:"csrfToken"`
	}

	SaveResponse struct {
		OK        bool   `json:"ok"`
		CSRFToken string `json:"csrfToken"`
	}
)

func (sr *SessionRequest) Validate(validate *validator.Validate) error {
	sr.Path = core.CleanString(sr.Path)
	return validate.Struct(sr)
}

func (ur *UpdateSessionRequest) Validate(validate *validator.Validate) error {
	ur.Path = core.CleanString(ur.Path)
	return validate.Struct(ur)
}

func (sr *SaveRequest) Validate(validate *validator.Validate) error {
	sr.Path = core.CleanString(sr.Path)
	return validate.Struct(sr)
}
