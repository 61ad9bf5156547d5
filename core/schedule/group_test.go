package schedule

import (
	"fmt"
	"testing"
)

func testSession(id, dtStart, dtEnd string, orphan bool) Session {
	return Session{ID: id, DtStart: dtStart, DtEnd: dtEnd, VrtxOrphan: orphan}
}

func TestBuildGroupsPlenaryMergesByMethod(t *testing.T) {
	td := &TypeData{Activities: []Activity{
		{
			ID: "1-1", TeachingMethod: "FOR", TeachingMethodName: "Forelesninger",
			Sequences: []Sequence{{ID: "seq-1", Sessions: []Session{
				testSession("b", "2014-08-25T12:15:00.000+02:00", "2014-08-25T14:00:00.000+02:00", false),
			}}},
		},
		{
			ID: "1-2", TeachingMethod: "for", TeachingMethodName: "Forelesninger",
			Sequences: []Sequence{{ID: "seq-2", Sessions: []Session{
				testSession("a", "2014-08-18T12:15:00.000+02:00", "2014-08-18T14:00:00.000+02:00", false),
			}}},
		},
	}}

	groups, err := BuildGroups(td, TypePlenary)
	if err != nil {
		t.Fatalf("BuildGroups() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(groups))
	}
	grp := groups[0]
	if grp.TeachingMethod != "for" {
		t.Errorf("TeachingMethod = %q, want %q", grp.TeachingMethod, "for")
	}
	if len(grp.Sessions) != 2 {
		t.Fatalf("len(Sessions) = %d, want 2", len(grp.Sessions))
	}
	// merged sessions sort chronologically across activities
	if grp.Sessions[0].Session.ID != "a" || grp.Sessions[1].Session.ID != "b" {
		t.Errorf("session order = %q, %q; want a, b",
			grp.Sessions[0].Session.ID, grp.Sessions[1].Session.ID)
	}
}

func TestBuildGroupsPlenaryMergesForMethodOnly(t *testing.T) {
	mkAct := func(id, method string) Activity {
		return Activity{
			ID: id, TeachingMethod: method, TeachingMethodName: method,
			Sequences: []Sequence{{ID: id + "-seq", Sessions: []Session{
				testSession(id+"-s", "2014-08-18T12:15:00.000+02:00", "2014-08-18T14:00:00.000+02:00", false),
			}}},
		}
	}
	td := &TypeData{Activities: []Activity{
		mkAct("1-1", "FOR"),
		mkAct("1-2", "FOR"),
		mkAct("1-3", "SEM"),
		mkAct("1-4", "SEM"),
	}}

	groups, err := BuildGroups(td, TypePlenary)
	if err != nil {
		t.Fatalf("BuildGroups() error = %v", err)
	}
	// FOR collapses into one group, the SEM activities stay separate
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	if len(groups[0].Sessions) != 2 {
		t.Errorf("len(for group sessions) = %d, want 2", len(groups[0].Sessions))
	}
	if groups[1].ActivityID != "1-3" || groups[2].ActivityID != "1-4" {
		t.Errorf("sem activities merged: got %q, %q", groups[1].ActivityID, groups[2].ActivityID)
	}
}

func TestBuildGroupsOrphansSortLast(t *testing.T) {
	td := &TypeData{Activities: []Activity{{
		ID: "1-1", TeachingMethod: "FOR", TeachingMethodName: "Forelesninger",
		Sequences: []Sequence{{ID: "seq-1", Sessions: []Session{
			testSession("orphan-early", "2014-08-11T12:15:00.000+02:00", "2014-08-11T14:00:00.000+02:00", true),
			testSession("late", "2014-08-25T12:15:00.000+02:00", "2014-08-25T14:00:00.000+02:00", false),
			testSession("early", "2014-08-18T12:15:00.000+02:00", "2014-08-18T14:00:00.000+02:00", false),
		}}},
	}}}

	groups, err := BuildGroups(td, TypePlenary)
	if err != nil {
		t.Fatalf("BuildGroups() error = %v", err)
	}
	want := []string{"early", "late", "orphan-early"}
	for i, id := range want {
		if got := groups[0].Sessions[i].Session.ID; got != id {
			t.Errorf("Sessions[%d] = %q, want %q", i, got, id)
		}
	}
}

func TestBuildGroupsGroupOrdering(t *testing.T) {
	mkAct := func(id, method, party string) Activity {
		return Activity{
			ID: id, TeachingMethod: method, TeachingMethodName: method,
			Party: &Party{Name: party},
			Sequences: []Sequence{{ID: id + "-seq", Sessions: []Session{
				testSession(id+"-s", "2014-08-18T12:15:00.000+02:00", "2014-08-18T14:00:00.000+02:00", false),
			}}},
		}
	}
	td := &TypeData{Activities: []Activity{
		mkAct("3", "GR", "10"),
		mkAct("1", "KOL", "1"),
		mkAct("2", "GR", "2"),
		mkAct("4", "GR", "uten nummer"),
	}}

	groups, err := BuildGroups(td, TypeGroup)
	if err != nil {
		t.Fatalf("BuildGroups() error = %v", err)
	}
	want := []string{"2", "3", "4", "1"} // gr/2, gr/10, gr/<unparseable>, kol/1
	if len(groups) != len(want) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(want))
	}
	for i, id := range want {
		if groups[i].ActivityID != id {
			t.Errorf("groups[%d].ActivityID = %q, want %q", i, groups[i].ActivityID, id)
		}
	}
}

func TestBuildGroupsFailsOnMalformedTimestamp(t *testing.T) {
	td := &TypeData{Activities: []Activity{{
		ID: "1-1", TeachingMethod: "FOR",
		Sequences: []Sequence{{ID: "seq-1", Sessions: []Session{
			testSession("bad", "2014-08-18", "2014-08-18T14:00:00.000+02:00", false),
		}}},
	}}}
	if _, err := BuildGroups(td, TypePlenary); err == nil {
		t.Error("BuildGroups() expected error on malformed timestamp")
	}
}

func TestShouldSplitToc(t *testing.T) {
	mkGroup := func(n int, times ...string) []*ActivityGroup {
		groups := make([]*ActivityGroup, n)
		for i := range groups {
			grp := &ActivityGroup{}
			for _, tm := range times {
				st, err := GetDateTime(tm, tm)
				if err != nil {
					t.Fatalf("GetDateTime() error = %v", err)
				}
				grp.Sessions = append(grp.Sessions, SessionEntry{Times: st})
			}
			groups[i] = grp
		}
		return groups
	}

	slots := []string{
		"2014-08-18T08:15:00.000+02:00",
		"2014-08-18T10:15:00.000+02:00",
		"2014-08-18T12:15:00.000+02:00",
		"2014-08-18T14:15:00.000+02:00",
	}

	if ShouldSplitToc(mkGroup(5, slots[:2]...)) {
		t.Error("ShouldSplitToc() = true for few groups and few time slots")
	}
	if !ShouldSplitToc(mkGroup(31, slots[0])) {
		t.Error("ShouldSplitToc() = false above the entry threshold")
	}
	if !ShouldSplitToc(mkGroup(2, slots...)) {
		t.Error("ShouldSplitToc() = false with more distinct time slots than the cap")
	}
}

func TestSplitThirds(t *testing.T) {
	tests := []struct {
		n    int
		want [3]int
	}{
		{0, [3]int{0, 0, 0}},
		{1, [3]int{1, 0, 0}},
		{3, [3]int{1, 1, 1}},
		{4, [3]int{2, 1, 1}},
		{5, [3]int{2, 2, 1}},
		{10, [3]int{4, 3, 3}},
		{31, [3]int{11, 10, 10}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			if got := SplitThirds(tt.n); got != tt.want {
				t.Errorf("SplitThirds(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}
