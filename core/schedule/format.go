package schedule

import (
	"strings"

	"github.com/campusweb/courseplan/core/locale"
)

// resourcesTextBudget is the visible-character budget for the resources cell;
// anything beyond it moves into the collapsible "show more" fragment so table
// rows stay visually uniform.
const resourcesTextBudget = 70

// FormatTitle renders the session title fragment, prefixing a localized
// cancelled badge when the session is cancelled but still scheduled. The
// title text passes through verbatim.
func FormatTitle(s *Session, tbl locale.Table) string {
	title := s.DisplayTitle()
	if s.Cancelled() {
		return "<span class='course-schedule-cancelled'>" + tbl.Labels["cancelled"] + "</span> " + title
	}
	return title
}

// FormatPlace renders the rooms of a session. A single room renders inline;
// multiple rooms become a list.
func FormatPlace(s *Session) string {
	if len(s.Rooms) == 0 {
		return ""
	}
	if len(s.Rooms) == 1 {
		return formatRoom(s.Rooms[0])
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, room := range s.Rooms {
		b.WriteString("<li>")
		b.WriteString(formatRoom(room))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func formatRoom(r Room) string {
	building := abbrOrLink(firstNonEmpty(r.BuildingAcronym, r.BuildingID), r.BuildingName, r.BuildingURL)
	room := abbrOrLink(r.RoomID, r.RoomName, r.RoomURL)
	if building == "" {
		return room
	}
	if room == "" {
		return building
	}
	return building + " " + room
}

// abbrOrLink renders `short` as a link when a URL exists, as an <abbr> when
// only a long name exists, and as plain text otherwise.
func abbrOrLink(short, long, url string) string {
	if short == "" {
		return ""
	}
	if url != "" {
		if long != "" {
			return "<a title='" + long + "' href='" + url + "'>" + short + "</a>"
		}
		return "<a href='" + url + "'>" + short + "</a>"
	}
	if long != "" {
		return "<abbr title='" + long + "'>" + short + "</abbr>"
	}
	return short
}

// FormatStaff renders internal staff (bare id/name) followed by external
// staff (linked when a URL exists). Multi-token names are abbreviated to
// "F. Last" form.
func FormatStaff(s *Session) string {
	items := make([]string, 0, len(s.VrtxStaff)+len(s.Staff)+len(s.VrtxStaffExternal))
	for _, st := range s.VrtxStaff {
		items = append(items, staffDisplay(st))
	}
	for _, st := range s.Staff {
		items = append(items, staffDisplay(st))
	}
	for _, st := range s.VrtxStaffExternal {
		name := staffDisplay(st)
		if st.URL != "" {
			name = "<a href='" + st.URL + "'>" + name + "</a>"
		}
		items = append(items, name)
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, it := range items {
		b.WriteString("<li>")
		b.WriteString(it)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func staffDisplay(st Staff) string {
	if st.Name != "" {
		return AbbreviateName(st.Name)
	}
	return st.ID
}

// AbbreviateName reduces all but the last name token to an initial and a
// period: "Gunnar Flaksnes" -> "G. Flaksnes". Single tokens pass through.
func AbbreviateName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return name
	}
	for i := 0; i < len(tokens)-1; i++ {
		runes := []rune(tokens[i])
		tokens[i] = string(runes[0]) + "."
	}
	return strings.Join(tokens, " ")
}

// FormatResources merges a session's own resources with the sequence's
// shared-folder resources and the free-text tail, then splits the rendered
// fragment at the visible-character budget. The returned `more` fragment is
// empty when everything fits; the split never lands inside an HTML tag.
func FormatResources(s *Session, fixed *FixedResources) (main, more string) {
	parts := make([]string, 0, len(s.VrtxResources)+1)
	for _, r := range s.VrtxResources {
		parts = append(parts, formatResource(firstNonEmpty(r.Title, r.Name), r.URL))
	}
	if fixed != nil {
		for _, fr := range fixed.Resources {
			url := strings.TrimRight(fixed.FolderURL, "/") + "/" + fr.Name
			parts = append(parts, formatResource(firstNonEmpty(fr.Title, fr.Name), url))
		}
	}
	joined := strings.Join(parts, ", ")
	if s.VrtxResourcesText != "" {
		if joined != "" {
			joined += " "
		}
		joined += s.VrtxResourcesText
	}
	return splitHTMLAtTextBudget(joined, resourcesTextBudget)
}

func formatResource(title, url string) string {
	if url != "" {
		return "<a href='" + url + "'>" + title + "</a>"
	}
	return title
}

// splitHTMLAtTextBudget splits an HTML fragment once its visible text length
// exceeds budget. The cut point is only taken outside tags and outside open
// elements, so both halves stay valid fragments.
func splitHTMLAtTextBudget(html string, budget int) (main, more string) {
	visible := 0
	depth := 0
	inTag := false
	closing := false
	splitAt := -1

	for i, c := range html {
		switch {
		case c == '<':
			inTag = true
			closing = i+1 < len(html) && html[i+1] == '/'
		case c == '>' && inTag:
			inTag = false
			if closing {
				if depth > 0 {
					depth--
				}
			} else if !strings.HasSuffix(html[:i], "/") {
				depth++
			}
		case !inTag:
			visible++
		}
		if visible >= budget && !inTag && depth == 0 {
			splitAt = i + len(string(c))
			break
		}
	}
	if splitAt < 0 || splitAt >= len(html) {
		return html, ""
	}
	return html[:splitAt], html[splitAt:]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
