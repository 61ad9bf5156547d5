package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/campusweb/courseplan/core/locale"
)

func testRenderer(canEdit bool) *Renderer {
	return &Renderer{
		Loc:      time.FixedZone("CET", 3600),
		Table:    locale.Get("no"),
		Now:      time.Date(2014, 8, 20, 12, 0, 0, 0, time.UTC),
		PagePath: "/studier/emner/INF1000/h14/timeplan",
		CanEdit:  canEdit,
	}
}

func TestSessionID(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{
			name: "with id",
			s:    Session{ID: "1-1-1", DtStart: "2014-08-18T12:15:00.000+02:00"},
			want: "for/1-1/1-1-1",
		},
		{
			name: "falls back to start timestamp",
			s:    Session{DtStart: "2014-08-18T12:15:00.000+02:00"},
			want: "for/1-1/2014-08-18T12:15:00.000+02:00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionID("FOR", "1-1", &tt.s); got != tt.want {
				t.Errorf("SessionID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditURL(t *testing.T) {
	r := testRenderer(true)
	got := r.EditURL("for/1-1/1-1-1")
	want := "/studier/emner/INF1000/h14/timeplan" +
		"?vrtx=admin&mode=editor&action=edit&embed&sessionid=for%2F1-1%2F1-1-1"
	if got != want {
		t.Errorf("EditURL() = %q, want %q", got, want)
	}
}

func TestRenderNoData(t *testing.T) {
	got := testRenderer(false).RenderNoData()
	want := "<p class='course-schedule-no-data'>Ingen timeplandata tilgjengelig.</p>"
	if got != want {
		t.Errorf("RenderNoData() = %q, want %q", got, want)
	}
}

func renderTestTypeData() *TypeData {
	return &TypeData{Activities: []Activity{{
		ID: "1-1", TeachingMethod: "FOR", TeachingMethodName: "Forelesninger",
		Sequences: []Sequence{{ID: "seq-1", Sessions: []Session{
			testSession("s1", "2014-08-18T12:15:00.000+02:00", "2014-08-18T14:00:00.000+02:00", false),
			testSession("s2", "2014-08-25T12:15:00.000+02:00", "2014-08-25T14:00:00.000+02:00", false),
			testSession("s3", "2014-09-01T12:15:00.000+02:00", "2014-09-01T14:00:00.000+02:00", true),
		}}},
	}}}
}

func TestRenderActivityType(t *testing.T) {
	r := testRenderer(false)
	res, err := r.RenderActivityType(renderTestTypeData(), TypePlenary)
	if err != nil {
		t.Fatalf("RenderActivityType() error = %v", err)
	}

	if want := "<a href='#course-schedule-for-1-1'>Forelesninger</a>"; !strings.Contains(res.TocHTML, want) {
		t.Errorf("TocHTML = %q, missing %q", res.TocHTML, want)
	}
	if !strings.Contains(res.TablesHTML, "id='course-schedule-for-1-1'") {
		t.Error("TablesHTML missing the anchor target")
	}

	// zebra banding skips the orphan, row classes track passed/upcoming
	rows := strings.Split(res.TablesHTML, "<tr class='")
	if len(rows) != 4 { // header split + 3 rows
		t.Fatalf("row count = %d, want 3", len(rows)-1)
	}
	wantPrefixes := []string{"even passed", "odd", "even orphan"}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(rows[i+1], want+"'") {
			t.Errorf("row %d classes = %q..., want %q", i, rows[i+1][:20], want)
		}
	}

	if strings.Contains(res.TablesHTML, "course-schedule-edit") {
		t.Error("TablesHTML has edit affordances without CanEdit")
	}
	if want := "<span class='course-schedule-orphan'>utgått</span>"; !strings.Contains(res.TablesHTML, want) {
		t.Errorf("TablesHTML missing orphan marker %q", want)
	}
}

func TestRenderActivityTypeEditAffordance(t *testing.T) {
	r := testRenderer(true)
	res, err := r.RenderActivityType(renderTestTypeData(), TypePlenary)
	if err != nil {
		t.Fatalf("RenderActivityType() error = %v", err)
	}

	if got := strings.Count(res.TablesHTML, "course-schedule-edit"); got != 2 {
		t.Errorf("edit link count = %d, want 2 (orphans are not editable)", got)
	}
	if !strings.Contains(res.TablesHTML, "sessionid=for%2F1-1%2Fs1") {
		t.Error("TablesHTML missing the session edit URL")
	}
}

func TestRenderActivityTypeConditionalColumns(t *testing.T) {
	r := testRenderer(false)

	td := renderTestTypeData()
	res, err := r.RenderActivityType(td, TypePlenary)
	if err != nil {
		t.Fatalf("RenderActivityType() error = %v", err)
	}
	if strings.Contains(res.TablesHTML, "<th>Ansvarlig</th>") {
		t.Error("staff column rendered without staff data")
	}
	if strings.Contains(res.TablesHTML, "<th>Ressurser</th>") {
		t.Error("resources column rendered without resource data")
	}

	td.Activities[0].Sequences[0].Sessions[0].VrtxStaff = []Staff{{ID: "rezam"}}
	td.Activities[0].Sequences[0].Sessions[1].VrtxResourcesText = "pensum"
	res, err = r.RenderActivityType(td, TypePlenary)
	if err != nil {
		t.Fatalf("RenderActivityType() error = %v", err)
	}
	if !strings.Contains(res.TablesHTML, "<th>Ansvarlig</th>") {
		t.Error("staff column missing")
	}
	if !strings.Contains(res.TablesHTML, "<th>Ressurser</th>") {
		t.Error("resources column missing")
	}
}

func TestRenderActivityTypeAllPassed(t *testing.T) {
	r := testRenderer(false)
	r.Now = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := r.RenderActivityType(renderTestTypeData(), TypePlenary)
	if err != nil {
		t.Fatalf("RenderActivityType() error = %v", err)
	}
	if !strings.Contains(res.TablesHTML, "class='course-schedule-table all-passed'") {
		t.Error("TablesHTML missing all-passed table class")
	}
}

func TestRenderTocThreeColumns(t *testing.T) {
	td := &TypeData{}
	for i := 0; i < 31; i++ {
		td.Activities = append(td.Activities, Activity{
			ID: string(rune('a'+i%26)) + "-act", TeachingMethod: "GR", TeachingMethodName: "Grupper",
			Party: &Party{Name: strings.Repeat("1", i%5+1)},
			Sequences: []Sequence{{ID: "seq", Sessions: []Session{
				testSession("s", "2014-08-18T12:15:00.000+02:00", "2014-08-18T14:00:00.000+02:00", false),
			}}},
		})
	}

	r := testRenderer(false)
	res, err := r.RenderActivityType(td, TypeGroup)
	if err != nil {
		t.Fatalf("RenderActivityType() error = %v", err)
	}
	for _, col := range []string{"thirds-left", "thirds-middle", "thirds-right"} {
		if !strings.Contains(res.TocHTML, "<ul class='"+col+"'>") {
			t.Errorf("TocHTML missing column %q", col)
		}
	}
	if got, want := strings.Count(res.TocHTML, "<li>"), 31; got != want {
		t.Errorf("ToC entry count = %d, want %d", got, want)
	}
}
