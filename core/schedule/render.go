package schedule

import (
	"net/url"
	"strings"
	"time"

	"github.com/campusweb/courseplan/core/locale"
)

// Renderer turns grouped sessions into the ToC and table HTML fragments.
// Now is captured once at construction so a long render cannot drift rows
// across the passed/upcoming boundary mid-table.
type Renderer struct {
	Loc      *time.Location
	Table    locale.Table
	Now      time.Time
	PagePath string
	CanEdit  bool
}

// TypeResult is the output of one activity-type pipeline.
type TypeResult struct {
	TocHTML    string
	TablesHTML string
}

// SessionID composes the id that keys a session in edit URLs and editor
// lookups. Render and edit paths must agree on it, so this is the only place
// it is computed.
func SessionID(teachingMethod, activityID string, s *Session) string {
	sessionPart := s.ID
	if sessionPart == "" {
		sessionPart = s.DtStart
	}
	return strings.ToLower(teachingMethod) + "/" + activityID + "/" + sessionPart
}

// EditURL builds the CMS admin navigation target for one session.
func (r *Renderer) EditURL(id string) string {
	return r.PagePath + "?vrtx=admin&mode=editor&action=edit&embed&sessionid=" + url.QueryEscape(id)
}

// RenderActivityType runs the full pipeline for one activity type: group,
// sort, format and emit ToC + tables. An empty type yields empty fragments.
func (r *Renderer) RenderActivityType(td *TypeData, typ string) (TypeResult, error) {
	groups, err := BuildGroups(td, typ)
	if err != nil {
		return TypeResult{}, err
	}

	kept := groups[:0]
	for _, grp := range groups {
		if len(grp.Sessions) > 0 {
			kept = append(kept, grp)
		}
	}
	if len(kept) == 0 {
		return TypeResult{}, nil
	}

	return TypeResult{
		TocHTML:    r.renderToc(kept),
		TablesHTML: r.renderTables(kept),
	}, nil
}

// RenderNoData is the fragment shown when the document cannot be fetched or
// decoded.
func (r *Renderer) RenderNoData() string {
	return "<p class='course-schedule-no-data'>" + r.Table.Labels["noData"] + "</p>"
}

// renderError is the inline fragment one activity type degrades to when its
// pipeline fails; the other type's output is unaffected.
func (r *Renderer) renderError(typ string) string {
	return "<div class='course-schedule-error' data-type='" + typ + "'>" +
		r.Table.Labels["renderError"] + "</div>"
}

func (r *Renderer) renderToc(groups []*ActivityGroup) string {
	entries := make([]string, 0, len(groups))
	for _, grp := range groups {
		entries = append(entries,
			"<li><a href='#"+grp.AnchorID()+"'>"+grp.Caption()+"</a></li>")
	}

	var b strings.Builder
	b.WriteString("<div class='course-schedule-toc'>")
	b.WriteString("<h2>" + r.Table.Labels["toc"] + "</h2>")
	if ShouldSplitToc(groups) {
		sizes := SplitThirds(len(entries))
		cols := []string{"thirds-left", "thirds-middle", "thirds-right"}
		offset := 0
		for i, size := range sizes {
			if size == 0 {
				continue
			}
			b.WriteString("<ul class='" + cols[i] + "'>")
			for _, entry := range entries[offset : offset+size] {
				b.WriteString(entry)
			}
			b.WriteString("</ul>")
			offset += size
		}
	} else {
		b.WriteString("<ul>")
		for _, entry := range entries {
			b.WriteString(entry)
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</div>")
	return b.String()
}

func (r *Renderer) renderTables(groups []*ActivityGroup) string {
	var b strings.Builder
	for _, grp := range groups {
		b.WriteString(r.renderGroupTable(grp))
	}
	return b.String()
}

func (r *Renderer) renderGroupTable(grp *ActivityGroup) string {
	hasStaff, hasResources := false, false
	allPassed := true
	for _, entry := range grp.Sessions {
		s := entry.Session
		if len(s.VrtxStaff)+len(s.Staff)+len(s.VrtxStaffExternal) > 0 {
			hasStaff = true
		}
		if len(s.VrtxResources) > 0 || s.VrtxResourcesText != "" ||
			(entry.Fixed != nil && len(entry.Fixed.Resources) > 0) {
			hasResources = true
		}
		if !entry.Times.EndedBy(r.Now) {
			allPassed = false
		}
	}

	lbl := r.Table.Labels
	var b strings.Builder
	b.WriteString("<div class='course-schedule-activity' id='" + grp.AnchorID() + "'>")
	b.WriteString("<h3>" + grp.Caption() + "</h3>")
	b.WriteString("<table class='course-schedule-table")
	if allPassed {
		b.WriteString(" all-passed")
	}
	b.WriteString("'><thead><tr>")
	b.WriteString("<th>" + lbl["date"] + "</th>")
	b.WriteString("<th>" + lbl["time"] + "</th>")
	b.WriteString("<th>" + lbl["title"] + "</th>")
	b.WriteString("<th>" + lbl["place"] + "</th>")
	if hasStaff {
		b.WriteString("<th>" + lbl["staff"] + "</th>")
	}
	if hasResources {
		b.WriteString("<th>" + lbl["resources"] + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	// The zebra counter skips orphans so the visible banding stays regular
	// when orphan rows are filtered out client-side.
	zebra := 0
	for _, entry := range grp.Sessions {
		b.WriteString(r.renderRow(grp, entry, zebra, hasStaff, hasResources))
		if !entry.Session.VrtxOrphan {
			zebra++
		}
	}

	b.WriteString("</tbody></table></div>")
	return b.String()
}

func (r *Renderer) renderRow(grp *ActivityGroup, entry SessionEntry, zebra int, withStaff, withResources bool) string {
	s := entry.Session
	classes := make([]string, 0, 3)
	if zebra%2 == 0 {
		classes = append(classes, "even")
	} else {
		classes = append(classes, "odd")
	}
	if s.VrtxOrphan {
		classes = append(classes, "orphan")
	}
	if entry.Times.EndedBy(r.Now) {
		classes = append(classes, "passed")
	}

	var b strings.Builder
	b.WriteString("<tr class='" + strings.Join(classes, " ") + "'>")
	b.WriteString("<td>" + entry.Times.DayFormatted(r.Loc, r.Table) + " " + entry.Times.DateFormatted() + "</td>")
	b.WriteString("<td>" + entry.Times.TimeFormatted() + "</td>")

	title := FormatTitle(s, r.Table)
	if s.VrtxOrphan {
		title += " <span class='course-schedule-orphan'>" + r.Table.Labels["orphan"] + "</span>"
	}
	if r.CanEdit && !s.VrtxOrphan {
		id := SessionID(grp.TeachingMethod, grp.ActivityID, s)
		title += " <a class='course-schedule-edit' href='" + r.EditURL(id) + "'>" +
			r.Table.Labels["editText"] + "</a>"
	}
	b.WriteString("<td>" + title + "</td>")

	b.WriteString("<td>" + FormatPlace(s) + "</td>")
	if withStaff {
		b.WriteString("<td>" + FormatStaff(s) + "</td>")
	}
	if withResources {
		main, more := FormatResources(s, entry.Fixed)
		cell := main
		if more != "" {
			cell += "<span class='course-schedule-more'><a href='#'>" + r.Table.Labels["showMore"] +
				"</a><span class='course-schedule-more-content'>" + more + "</span></span>"
		}
		b.WriteString("<td>" + cell + "</td>")
	}
	b.WriteString("</tr>")
	return b.String()
}
