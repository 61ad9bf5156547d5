// Package editor tracks per-session edit state for the schedule editor.
// The store replaces the upstream global lookup table: it is scoped to one
// editor instance, passed by reference, and torn down with it, so composed
// editors can never leak state into each other.
package editor

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/campusweb/courseplan/core/schedule"
)

// RichTextField is the one field whose widget reports its own dirty state;
// it only counts as changed when the widget says so AND content is non-empty.
const RichTextField = "vrtxResourcesText"

type (
	// Entry is the edit state of a single session: the live raw JSON value
	// the form serializes into, and a deep-copied original to compare against.
	Entry struct {
		Raw   map[string]interface{}
		orig  map[string]interface{}
		Descs json.RawMessage

		// Enhanced marks sessions whose accordion panel has been built out.
		Enhanced bool
		// HasChanges must be exact: a false negative silently loses edits, a
		// false positive nags the user with unsaved-changes prompts.
		HasChanges bool
	}

	// Store is the per-editor session lookup, keyed by group id then
	// composite session id.
	Store struct {
		mu      sync.RWMutex
		entries map[string]map[string]*Entry
	}
)

func NewStore() *Store {
	return &Store{entries: make(map[string]map[string]*Entry)}
}

// GroupID keys a render unit's sessions in the store.
func GroupID(grp *schedule.ActivityGroup) string {
	return grp.TeachingMethod + "/" + grp.ActivityID
}

// Load populates the store from an edit-mode document. Each session's raw
// JSON value becomes the live pointer; a deep copy becomes the original.
func (st *Store) Load(doc *schedule.Document) error {
	for _, typ := range []string{schedule.TypePlenary, schedule.TypeGroup} {
		td := doc.ForType(typ)
		groups, err := schedule.BuildGroups(td, typ)
		if err != nil {
			return err
		}
		for _, grp := range groups {
			for _, entry := range grp.Sessions {
				raw, err := sessionToRaw(entry.Session)
				if err != nil {
					return err
				}
				var descs json.RawMessage
				if td != nil {
					descs = td.VrtxEditableDescription
				}
				st.Put(GroupID(grp),
					schedule.SessionID(grp.TeachingMethod, grp.ActivityID, entry.Session),
					raw, descs)
			}
		}
	}
	return nil
}

func (st *Store) Put(groupID, sessionID string, raw map[string]interface{}, descs json.RawMessage) {
	st.mu.Lock()
	defer st.mu.Unlock()
	group, ok := st.entries[groupID]
	if !ok {
		group = make(map[string]*Entry)
		st.entries[groupID] = group
	}
	group[sessionID] = &Entry{
		Raw:   raw,
		orig:  deepCopy(raw).(map[string]interface{}),
		Descs: descs,
	}
}

func (st *Store) Get(groupID, sessionID string) (*Entry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	entry, ok := st.entries[groupID][sessionID]
	return entry, ok
}

// Lookup finds a session by composite id alone, as edit URLs carry no group
// part. It returns a snapshot with a deep-copied raw value, safe to read
// outside the store lock.
func (st *Store) Lookup(sessionID string) (Entry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, group := range st.entries {
		if entry, ok := group[sessionID]; ok {
			snap := *entry
			snap.Raw = deepCopy(entry.Raw).(map[string]interface{})
			return snap, true
		}
	}
	return Entry{}, false
}

// Update serializes form fields back into the session's live raw value and
// recomputes its dirty state. richTextDirty carries the widget's own flag.
func (st *Store) Update(groupID, sessionID string, fields map[string]interface{}, richTextDirty bool) (*Entry, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	entry, ok := st.entries[groupID][sessionID]
	if !ok {
		return nil, errors.Errorf("editor: unknown session %s in group %s", sessionID, groupID)
	}
	for name, value := range fields {
		if value == nil {
			delete(entry.Raw, name)
			continue
		}
		entry.Raw[name] = value
	}
	entry.Enhanced = true
	entry.HasChanges = !Equal(entry.Raw, entry.orig, richTextDirty)
	return entry, nil
}

// Dirty reports whether any session carries unsaved changes.
func (st *Store) Dirty() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, group := range st.entries {
		for _, entry := range group {
			if entry.HasChanges {
				return true
			}
		}
	}
	return false
}

// Changed returns deep copies of every dirty session's raw value, keyed by
// composite session id. Copies, not the live maps: the save serializer reads
// them outside the store lock while updates may still come in.
func (st *Store) Changed() map[string]map[string]interface{} {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make(map[string]map[string]interface{})
	for _, group := range st.entries {
		for id, entry := range group {
			if entry.HasChanges {
				out[id] = deepCopy(entry.Raw).(map[string]interface{})
			}
		}
	}
	return out
}

// Commit is the post-save point: every changed session's original is
// replaced by its live value, clearing dirty state.
func (st *Store) Commit() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, group := range st.entries {
		for _, entry := range group {
			if entry.HasChanges {
				entry.orig = deepCopy(entry.Raw).(map[string]interface{})
				entry.HasChanges = false
			}
		}
	}
}

// Equal is the structural deep comparison driving dirty detection: arrays by
// length and element, objects by key set and element, scalars by value.
// The rich-text field is excluded from the structural walk and compares via
// its widget flag instead of content.
func Equal(live, orig map[string]interface{}, richTextDirty bool) bool {
	if richTextDirty && !isEmptyValue(live[RichTextField]) {
		return false
	}
	for key, lv := range live {
		if key == RichTextField {
			continue
		}
		ov, ok := orig[key]
		if !ok || !valueEqual(lv, ov) {
			return false
		}
	}
	for key := range orig {
		if key == RichTextField {
			continue
		}
		if _, ok := live[key]; !ok {
			return false
		}
	}
	return true
}

func valueEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			ov, ok := bv[k]
			if !ok || !valueEqual(v, ov) {
				return false
			}
		}
		return true
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func isEmptyValue(v interface{}) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return tv == ""
	case []interface{}:
		return len(tv) == 0
	case map[string]interface{}:
		return len(tv) == 0
	}
	return false
}

func deepCopy(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(tv))
		for k, val := range tv {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, val := range tv {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// sessionToRaw converts a typed session into the generic JSON value the form
// serializer operates on.
func sessionToRaw(s *schedule.Session) (map[string]interface{}, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling session")
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshaling session")
	}
	return raw, nil
}
