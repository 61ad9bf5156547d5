package schedule

import (
	"strings"
	"testing"

	"github.com/campusweb/courseplan/core/locale"
)

func TestFormatTitle(t *testing.T) {
	tbl := locale.Get("no")
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{
			name: "editor title wins",
			s:    Session{ID: "1", Title: "Forelesning", VrtxTitle: "Intro"},
			want: "Intro",
		},
		{
			name: "falls back to id",
			s:    Session{ID: "1-1-1"},
			want: "1-1-1",
		},
		{
			name: "cancelled badge",
			s:    Session{ID: "1", Title: "Forelesning", VrtxStatus: "cancelled"},
			want: "<span class='course-schedule-cancelled'>AVLYST</span> Forelesning",
		},
		{
			name: "upstream cancelled",
			s:    Session{ID: "1", Title: "Forelesning", Status: "cancelled"},
			want: "<span class='course-schedule-cancelled'>AVLYST</span> Forelesning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTitle(&tt.s, tbl); got != tt.want {
				t.Errorf("FormatTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPlace(t *testing.T) {
	gm := Room{
		BuildingAcronym: "GM",
		BuildingName:    "Georg Morgenstiernes hus",
		RoomID:          "205",
		RoomName:        "Seminarrom 205",
		RoomURL:         "http://www.uio.no/rom/GM205",
	}
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{name: "no rooms", s: Session{}, want: ""},
		{
			name: "single room",
			s:    Session{Rooms: []Room{gm}},
			want: "<abbr title='Georg Morgenstiernes hus'>GM</abbr> " +
				"<a title='Seminarrom 205' href='http://www.uio.no/rom/GM205'>205</a>",
		},
		{
			name: "plain ids only",
			s:    Session{Rooms: []Room{{BuildingID: "BL16", RoomID: "B101"}}},
			want: "BL16 B101",
		},
		{
			name: "multiple rooms listed",
			s: Session{Rooms: []Room{
				{BuildingID: "BL16", RoomID: "B101"},
				{BuildingID: "BL16", RoomID: "B102"},
			}},
			want: "<ul><li>BL16 B101</li><li>BL16 B102</li></ul>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPlace(&tt.s); got != tt.want {
				t.Errorf("FormatPlace() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatStaff(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{name: "none", s: Session{}, want: ""},
		{
			name: "single internal id",
			s:    Session{VrtxStaff: []Staff{{ID: "rezam"}}},
			want: "rezam",
		},
		{
			name: "internal and external mixed",
			s: Session{
				VrtxStaff: []Staff{{ID: "rezam"}, {ID: "oyvihatl"}},
				VrtxStaffExternal: []Staff{
					{Name: "Gunnar Flaksnes", URL: "http://www.nrk.no/"},
					{Name: "Roger Rabbit", URL: "http://www.aftenposten.no/"},
				},
			},
			want: "<ul><li>rezam</li><li>oyvihatl</li>" +
				"<li><a href='http://www.nrk.no/'>G. Flaksnes</a></li>" +
				"<li><a href='http://www.aftenposten.no/'>R. Rabbit</a></li></ul>",
		},
		{
			name: "external without url stays bare",
			s:    Session{VrtxStaffExternal: []Staff{{Name: "Gunnar Flaksnes"}}},
			want: "G. Flaksnes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatStaff(&tt.s); got != tt.want {
				t.Errorf("FormatStaff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gunnar Flaksnes", "G. Flaksnes"},
		{"Anne Britt Flaksnes", "A. B. Flaksnes"},
		{"rezam", "rezam"},
		{"", ""},
		{"Åse Berg", "Å. Berg"},
	}
	for _, tt := range tests {
		if got := AbbreviateName(tt.in); got != tt.want {
			t.Errorf("AbbreviateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatResources(t *testing.T) {
	t.Run("short text stays in main", func(t *testing.T) {
		s := Session{VrtxResources: []Resource{{Title: "Kompendium", URL: "http://x/k.pdf"}}}
		main, more := FormatResources(&s, nil)
		if want := "<a href='http://x/k.pdf'>Kompendium</a>"; main != want {
			t.Errorf("main = %q, want %q", main, want)
		}
		if more != "" {
			t.Errorf("more = %q, want empty", more)
		}
	})

	t.Run("fixed folder resources join in", func(t *testing.T) {
		s := Session{VrtxResourcesText: "se også pensumlisten"}
		fixed := &FixedResources{
			FolderURL: "http://x/felles/",
			Resources: []FixedResource{{Name: "plan.pdf", Title: "Plan"}},
		}
		main, _ := FormatResources(&s, fixed)
		if want := "<a href='http://x/felles/plan.pdf'>Plan</a> se også pensumlisten"; main != want {
			t.Errorf("main = %q, want %q", main, want)
		}
	})

	t.Run("long plain text splits at the budget", func(t *testing.T) {
		s := Session{VrtxResourcesText: strings.Repeat("a", 100)}
		main, more := FormatResources(&s, nil)
		if len(main) != resourcesTextBudget {
			t.Errorf("len(main) = %d, want %d", len(main), resourcesTextBudget)
		}
		if main+more != strings.Repeat("a", 100) {
			t.Error("split lost characters")
		}
	})

	t.Run("split never lands inside a tag", func(t *testing.T) {
		s := Session{
			VrtxResources:     []Resource{{Title: strings.Repeat("b", 80), URL: "http://x/long"}},
			VrtxResourcesText: "og en hale",
		}
		main, more := FormatResources(&s, nil)
		if !strings.HasSuffix(main, "</a>") {
			t.Errorf("main = %q, want cut after the closing tag", main)
		}
		if want := " og en hale"; more != want {
			t.Errorf("more = %q, want %q", more, want)
		}
	})
}
