package echoapi

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core"
	"github.com/campusweb/courseplan/core/schedule"
)

type scheduleApi struct {
	svc      *schedule.Service
	validate *validator.Validate
}

func registerScheduleAPI(g *echo.Group, deps ServerDeps) {
	api := scheduleApi{
		svc:      deps.ScheduleSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/schedule")
	sg.GET("", api.page)
	sg.GET("/toc", api.toc)
	sg.GET("/calendar.ics", api.calendar)
}

// Handlers

// page renders the full schedule page for a course path and streams it out
// through the incremental committer: flushed in one write for small pages,
// node by node for large ones so the ToC is usable early.
func (api *scheduleApi) page(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.RenderPage(ctx.Request().Context(), data.Path, false)
	if err != nil {
		if core.IsNoData(err) {
			// the page renders a localized placeholder, not an error
			return ctx.HTML(http.StatusOK, api.svc.NewRenderer(data.Path, false).RenderNoData())
		}
		return err
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	resp.WriteHeader(http.StatusOK)

	committer := &schedule.Committer{Sink: responseSink{resp: resp}}
	return errors.Wrap(committer.Commit(res.TocHTML+res.TablesHTML), "committing schedule page")
}

// toc renders only the table-of-contents fragment.
func (api *scheduleApi) toc(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.RenderPage(ctx.Request().Context(), data.Path, false)
	if err != nil {
		return errors.Wrap(err, "rendering schedule")
	}
	return ctx.HTML(http.StatusOK, res.TocHTML)
}

// calendar exports the schedule as an iCalendar feed.
func (api *scheduleApi) calendar(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScheduleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cal, err := api.svc.Calendar(ctx.Request().Context(), data.Path)
	if err != nil {
		return errors.Wrap(err, "building calendar")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=course-schedule.ics")
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal))
}

// responseSink streams committed HTML chunks straight to the client.
type responseSink struct {
	resp *echo.Response
}

var _ schedule.Sink = responseSink{}

func (s responseSink) Append(html string) error {
	if _, err := io.WriteString(s.resp, html); err != nil {
		return err
	}
	s.resp.Flush()
	return nil
}

type ScheduleRequest struct {
	Path string `query:"path" json:"path" validate:"required,coursepath"`
}

func (sr *ScheduleRequest) Validate(validate *validator.Validate) error {
	sr.Path = core.CleanString(sr.Path)
	return validate.Struct(sr)
}
