package testutil

import (
	"encoding/json"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/campusweb/courseplan/core"
	"github.com/campusweb/courseplan/core/schedule"
)

// Logger is a no-op core.Logger for tests.
type Logger struct{}

var _ core.Logger = Logger{}

func (Logger) Debug(msg string, args ...interface{}) {}
func (Logger) Info(msg string, args ...interface{})  {}
func (Logger) Warn(msg string, args ...interface{})  {}
func (Logger) Error(msg string, args ...interface{}) {}
func (Logger) Fatal(msg string, args ...interface{}) {}

// AssertHTMLEqual fails with a unified diff when two HTML fragments differ.
func AssertHTMLEqual(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("diffing failed: %v", err)
	}
	t.Errorf("HTML mismatch:\n%s", diff)
}

// ScheduleDoc is the canonical course-schedule fixture: one plenary lecture
// series (with a cancelled session) and two exercise groups.
func ScheduleDoc() *schedule.Document {
	return &schedule.Document{
		Plenary: &schedule.TypeData{
			VrtxEditableDescription: json.RawMessage(`[{"name":"vrtxTitle","type":"string"}]`),
			Activities: []schedule.Activity{{
				ID: "1-1", TeachingMethod: "FOR", TeachingMethodName: "Forelesninger",
				Sequences: []schedule.Sequence{{ID: "seq-1", Sessions: []schedule.Session{
					{
						ID:      "p1",
						DtStart: "2014-08-18T12:15:00.000+02:00",
						DtEnd:   "2014-08-18T14:00:00.000+02:00",
						Title:   "Introduksjon",
						Rooms:   []schedule.Room{{BuildingAcronym: "GM", BuildingID: "GM", RoomID: "205"}},
					},
					{
						ID:         "p2",
						DtStart:    "2014-08-25T12:15:00.000+02:00",
						DtEnd:      "2014-08-25T14:00:00.000+02:00",
						Title:      "Funksjoner",
						VrtxStatus: "cancelled",
					},
				}}},
			}},
		},
		Group: &schedule.TypeData{Activities: []schedule.Activity{
			{
				ID: "2-1", TeachingMethod: "GR", TeachingMethodName: "Grupper",
				Party: &schedule.Party{Name: "1"},
				Sequences: []schedule.Sequence{{ID: "seq-2", Sessions: []schedule.Session{
					{
						ID:      "g1",
						DtStart: "2014-08-19T10:15:00.000+02:00",
						DtEnd:   "2014-08-19T12:00:00.000+02:00",
					},
				}}},
			},
			{
				ID: "2-2", TeachingMethod: "GR", TeachingMethodName: "Grupper",
				Party: &schedule.Party{Name: "2"},
				Sequences: []schedule.Sequence{{ID: "seq-3", Sessions: []schedule.Session{
					{
						ID:      "g2",
						DtStart: "2014-08-19T14:15:00.000+02:00",
						DtEnd:   "2014-08-19T16:00:00.000+02:00",
					},
				}}},
			},
		}},
	}
}
