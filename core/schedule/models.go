package schedule

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Activity type keys as they appear in the course-schedule document.
const (
	TypePlenary = "plenary"
	TypeGroup   = "group"
)

// plenaryMethod is the teaching-method code whose activities are treated as
// one plenary unit ("forelesning"); every other code is a group type.
const plenaryMethod = "for"

type (
	// Document is the top-level course-schedule JSON fetched from the CMS.
	Document struct {
		Plenary *TypeData `json:"plenary,omitempty"`
		Group   *TypeData `json:"group,omitempty"`

		// VrtxResourcesFixedURL is the base URL for shared resource folders.
		VrtxResourcesFixedURL string `json:"vrtxResourcesFixedUrl,omitempty"`
	}

	// TypeData carries the activities of one activity type plus the
	// field-schema metadata the editor renders its forms from. The schema is
	// opaque to us and is passed through untouched.
	TypeData struct {
		Activities              []Activity      `json:"activities"`
		VrtxEditableDescription json.RawMessage `json:"vrtxEditableDescription,omitempty"`
	}

	Activity struct {
		ID                 string     `json:"id"`
		TeachingMethod     string     `json:"teachingMethod"`
		TeachingMethodName string     `json:"teachingMethodName"`
		Party              *Party     `json:"party,omitempty"`
		Sequences          []Sequence `json:"sequences"`
	}

	Party struct {
		Name string `json:"name"`
	}

	Sequence struct {
		ID                 string          `json:"id"`
		Sessions           []Session       `json:"sessions"`
		VrtxResourcesFixed *FixedResources `json:"vrtxResourcesFixed,omitempty"`
	}

	// FixedResources describes a shared resource folder bound to a sequence.
	FixedResources struct {
		FolderURL string          `json:"folderUrl"`
		Resources []FixedResource `json:"resources"`
	}

	FixedResource struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	}

	// Session is one concrete scheduled occurrence.
	Session struct {
		ID      string `json:"id"`
		DtStart string `json:"dtStart"`
		DtEnd   string `json:"dtEnd"`

		Title     string `json:"title,omitempty"`
		VrtxTitle string `json:"vrtxTitle,omitempty"`

		Status     string `json:"status,omitempty"`
		VrtxStatus string `json:"vrtxStatus,omitempty"`

		// VrtxOrphan marks a session deleted upstream but still present in
		// cached data. Rendered distinctly, always sorted last.
		VrtxOrphan bool `json:"vrtxOrphan,omitempty"`

		Rooms []Room `json:"rooms,omitempty"`

		VrtxStaff         []Staff `json:"vrtxStaff,omitempty"`
		Staff             []Staff `json:"staff,omitempty"`
		VrtxStaffExternal []Staff `json:"vrtxStaffExternal,omitempty"`

		VrtxResources     []Resource `json:"vrtxResources,omitempty"`
		VrtxResourcesText string     `json:"vrtxResourcesText,omitempty"`
	}

	Room struct {
		BuildingID      string `json:"buildingId"`
		BuildingAcronym string `json:"buildingAcronym,omitempty"`
		BuildingName    string `json:"buildingName,omitempty"`
		BuildingURL     string `json:"buildingUrl,omitempty"`
		RoomID          string `json:"roomId"`
		RoomName        string `json:"roomName,omitempty"`
		RoomURL         string `json:"roomUrl,omitempty"`
	}

	Staff struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
		URL  string `json:"url,omitempty"`
	}

	Resource struct {
		Title string `json:"title,omitempty"`
		Name  string `json:"name,omitempty"`
		URL   string `json:"url,omitempty"`
	}
)

const statusCancelled = "cancelled"

// Cancelled reports whether the session is cancelled but still scheduled.
func (s *Session) Cancelled() bool {
	return s.VrtxStatus == statusCancelled || s.Status == statusCancelled
}

// DisplayTitle prefers the editor-set title, then the upstream title, then the id.
func (s *Session) DisplayTitle() string {
	if s.VrtxTitle != "" {
		return s.VrtxTitle
	}
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// Number parses the party name as a group number; unparseable names sort last.
func (p *Party) Number() int {
	if p == nil {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.Name))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// IsPlenaryMethod reports whether a teaching-method code belongs to the
// plenary activity type.
func IsPlenaryMethod(method string) bool {
	return strings.ToLower(method) == plenaryMethod
}

// ForType returns the activity data for the given type key, or nil.
func (d *Document) ForType(typ string) *TypeData {
	switch typ {
	case TypePlenary:
		return d.Plenary
	case TypeGroup:
		return d.Group
	}
	return nil
}

// HasSessions reports whether any activity of the given type carries sessions.
func (d *Document) HasSessions(typ string) bool {
	td := d.ForType(typ)
	if td == nil {
		return false
	}
	for _, act := range td.Activities {
		for _, seq := range act.Sequences {
			if len(seq.Sessions) > 0 {
				return true
			}
		}
	}
	return false
}
