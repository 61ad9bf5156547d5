package schedule

import (
	"sort"
	"strings"
)

// ToC entries beyond this count always split into three columns.
const tocSplitThreshold = 30

// Counting distinct session time slots stops once this many are seen; going
// past it also triggers the three-column ToC split.
const maxDistinctTimeSlots = 3

type (
	// SessionEntry pairs a session with its memoized normalized times and
	// the shared resource folder of its sequence, so sorting and rendering
	// never re-parse timestamps.
	SessionEntry struct {
		Session    *Session
		SequenceID string
		Times      SessionTimes
		Fixed      *FixedResources
	}

	// ActivityGroup is one render unit: for the plenary type all activities
	// sharing a teaching method collapse into one group; for the group type
	// every party stays separate.
	ActivityGroup struct {
		Type               string
		TeachingMethod     string
		TeachingMethodName string
		ActivityID         string
		PartyName          string
		GroupNumber        int
		Sessions           []SessionEntry
	}
)

// Caption is the human-readable heading for the group's table and ToC entry.
func (g *ActivityGroup) Caption() string {
	if g.Type == TypeGroup && g.PartyName != "" {
		return g.TeachingMethodName + " - " + g.PartyName
	}
	return g.TeachingMethodName
}

// AnchorID keys the group's table for ToC links.
func (g *ActivityGroup) AnchorID() string {
	id := strings.ToLower(g.TeachingMethod) + "-" + g.ActivityID
	if g.Type == TypeGroup && g.PartyName != "" {
		id += "-" + strings.ReplaceAll(strings.ToLower(g.PartyName), " ", "-")
	}
	return "course-schedule-" + id
}

// BuildGroups flattens an activity type's sequences into sorted render units.
// Sessions with malformed timestamps fail the whole type (trusted upstream,
// fail fast); the dispatcher scopes that failure to this type's output.
func BuildGroups(td *TypeData, typ string) ([]*ActivityGroup, error) {
	if td == nil {
		return nil, nil
	}

	groups := make([]*ActivityGroup, 0, len(td.Activities))
	byMethod := make(map[string]*ActivityGroup) // plenary accumulation

	for i := range td.Activities {
		act := &td.Activities[i]
		method := strings.ToLower(act.TeachingMethod)

		// only the plenary "for" method collapses across activities; any
		// other method stays one group per activity
		merge := typ == TypePlenary && IsPlenaryMethod(method)

		var grp *ActivityGroup
		if merge {
			if g, ok := byMethod[method]; ok {
				grp = g
			}
		}
		if grp == nil {
			grp = &ActivityGroup{
				Type:               typ,
				TeachingMethod:     method,
				TeachingMethodName: act.TeachingMethodName,
				ActivityID:         act.ID,
			}
			if act.Party != nil {
				grp.PartyName = act.Party.Name
			}
			grp.GroupNumber = act.Party.Number()
			groups = append(groups, grp)
			if merge {
				byMethod[method] = grp
			}
		}

		for j := range act.Sequences {
			seq := &act.Sequences[j]
			for k := range seq.Sessions {
				sess := &seq.Sessions[k]
				times, err := GetDateTime(sess.DtStart, sess.DtEnd)
				if err != nil {
					return nil, err
				}
				grp.Sessions = append(grp.Sessions, SessionEntry{
					Session:    sess,
					SequenceID: seq.ID,
					Times:      times,
					Fixed:      seq.VrtxResourcesFixed,
				})
			}
		}
	}

	for _, grp := range groups {
		sortSessions(grp.Sessions)
	}

	if typ == TypeGroup {
		sort.SliceStable(groups, func(i, j int) bool {
			if groups[i].TeachingMethod != groups[j].TeachingMethod {
				return groups[i].TeachingMethod < groups[j].TeachingMethod
			}
			return groups[i].GroupNumber < groups[j].GroupNumber
		})
	}

	return groups, nil
}

// sortSessions orders non-orphans before orphans, then by the fixed-width
// start/end key. The sort is stable, so equal keys keep document order.
func sortSessions(entries []SessionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		oi, oj := entries[i].Session.VrtxOrphan, entries[j].Session.VrtxOrphan
		if oi != oj {
			return !oi
		}
		return entries[i].Times.SortKey() < entries[j].Times.SortKey()
	})
}

// ShouldSplitToc reports whether the table of contents needs the balanced
// three-column layout: either too many entries, or more distinct time slots
// than the counter cap.
func ShouldSplitToc(groups []*ActivityGroup) bool {
	if len(groups) > tocSplitThreshold {
		return true
	}
	return countDistinctTimeSlots(groups, maxDistinctTimeSlots) > maxDistinctTimeSlots
}

// countDistinctTimeSlots counts distinct start/end time-of-day combinations,
// giving up as soon as the cap is exceeded.
func countDistinctTimeSlots(groups []*ActivityGroup, limit int) int {
	seen := make(map[string]struct{}, limit+1)
	for _, grp := range groups {
		for _, entry := range grp.Sessions {
			seen[entry.Times.TimeFormatted()] = struct{}{}
			if len(seen) > limit {
				return len(seen)
			}
		}
	}
	return len(seen)
}

// SplitThirds partitions n items into three balanced column sizes: the first
// column takes ceil(n/3) and the remainder is split in half.
func SplitThirds(n int) [3]int {
	first := (n + 2) / 3
	rest := n - first
	second := (rest + 1) / 2
	return [3]int{first, second, rest - second}
}
