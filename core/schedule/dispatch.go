package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/campusweb/courseplan/core"
)

// Dispatcher fans the two activity types out to independent pipelines and
// reassembles their output in a fixed order. Each pipeline gets its own copy
// of the work and its own failure domain: a crash in one type degrades to an
// inline error fragment without touching the other.
type Dispatcher struct {
	Logger core.Logger

	// Inline forces both pipelines onto the calling goroutine. Output is
	// identical either way; only latency differs.
	Inline bool
}

// Result is the merged render output: plenary ToC before group ToC, then
// plenary tables before group tables. The order is fixed and significant.
type Result struct {
	TocHTML    string
	TablesHTML string
}

// Render runs both activity-type pipelines over the document and merges
// their results behind an all-of barrier.
func (d *Dispatcher) Render(doc *Document, r *Renderer) Result {
	jobID := uuid.New().String()

	if d.Inline {
		plenary := d.runType(doc, r, TypePlenary, jobID)
		group := d.runType(doc, r, TypeGroup, jobID)
		return merge(plenary, group)
	}

	plenaryCh := make(chan TypeResult, 1)
	groupCh := make(chan TypeResult, 1)
	go func() { plenaryCh <- d.runType(doc, r, TypePlenary, jobID) }()
	go func() { groupCh <- d.runType(doc, r, TypeGroup, jobID) }()

	plenary := <-plenaryCh
	group := <-groupCh
	return merge(plenary, group)
}

// runType resolves one activity type. A type with no sessions resolves
// immediately with empty fragments; an error or panic becomes an inline
// error fragment appended to this type's table output only.
func (d *Dispatcher) runType(doc *Document, r *Renderer, typ, jobID string) (res TypeResult) {
	defer func() {
		if rec := recover(); rec != nil {
			if d.Logger != nil {
				d.Logger.Error(fmt.Sprintf("schedule render panic (%s)", typ),
					fmt.Errorf("%v", rec), map[string]interface{}{"job": jobID, "type": typ})
			}
			res.TablesHTML += r.renderError(typ)
		}
	}()

	if !doc.HasSessions(typ) {
		return TypeResult{}
	}

	res, err := r.RenderActivityType(doc.ForType(typ), typ)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Error(fmt.Sprintf("schedule render failed (%s)", typ), err,
				map[string]interface{}{"job": jobID, "type": typ})
		}
		res.TablesHTML += r.renderError(typ)
	}
	return res
}

func merge(plenary, group TypeResult) Result {
	return Result{
		TocHTML:    plenary.TocHTML + group.TocHTML,
		TablesHTML: plenary.TablesHTML + group.TablesHTML,
	}
}
