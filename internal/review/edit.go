package review

import (
	"strings"

	"github.com/asrecorded/asrec/internal/api"
)

// EditState is the per-field state of the intervention edit controller.
type EditState int

const (
	Idle EditState = iota
	Editing
	Submitting
)

func (e EditState) String() string {
	switch e {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	}
	return "idle"
}

// Tone is the row colouring derived from displayed data.
type Tone int

const (
	ToneDefault Tone = iota
	TonePendingMatch
	ToneComplete
)

// RowTone colours a row: complete wins, then a pending row whose character
// matches the search term.
func RowTone(iv api.Intervention, term string) Tone {
	if iv.Completed {
		return ToneComplete
	}
	if MatchesCharacter(iv.Character, term) {
		return TonePendingMatch
	}
	return ToneDefault
}

// State reports the edit state of one field.
func (s *Session) State(id int64, f Field) EditState {
	key := Key{id, f}
	if s.tracker.InFlight(key) {
		return Submitting
	}
	if _, ok := s.drafts[key]; ok {
		return Editing
	}
	return Idle
}

// Busy is true while any field of the intervention is submitting.
func (s *Session) Busy(id int64) bool {
	for _, f := range []Field{FieldStatus, FieldDialogue, FieldTimecode} {
		if s.tracker.InFlight(Key{id, f}) {
			return true
		}
	}
	return false
}

// Error returns the failure text attached to a field, if any.
func (s *Session) Error(id int64, f Field) string {
	if p, ok := s.tracker.Get(Key{id, f}); ok && p.State == StateFailed {
		return p.Err
	}
	return ""
}

// BeginEdit opens the dialogue or timecode editor seeded with the displayed
// value. It refuses the status field, unknown interventions and fields
// already submitting.
func (s *Session) BeginEdit(id int64, f Field) (string, bool) {
	if f == FieldStatus {
		return "", false
	}
	iv, ok := s.Intervention(id)
	if !ok || s.tracker.InFlight(Key{id, f}) {
		return "", false
	}
	seed := iv.Dialogue
	if f == FieldTimecode {
		seed = ""
		if iv.TCIn != nil {
			seed = *iv.TCIn
		}
	}
	s.drafts[Key{id, f}] = seed
	return seed, true
}

// Draft returns the in-progress value of an open editor.
func (s *Session) Draft(id int64, f Field) (string, bool) {
	v, ok := s.drafts[Key{id, f}]
	return v, ok
}

// Cancel closes an editor without submitting.
func (s *Session) Cancel(id int64, f Field) {
	delete(s.drafts, Key{id, f})
}

// CommitDialogue closes the dialogue editor. A trimmed value equal to the
// authoritative dialogue ends the edit without a request.
func (s *Session) CommitDialogue(id int64, text string) (Mutation, bool) {
	key := Key{id, FieldDialogue}
	delete(s.drafts, key)
	auth := s.find(id, s.authoritative)
	if auth == nil || s.tracker.InFlight(key) {
		return Mutation{}, false
	}
	text = strings.TrimSpace(text)
	if text == strings.TrimSpace(auth.Dialogue) {
		s.dropFailed(key)
		return Mutation{}, false
	}
	m := s.tracker.Start(key, Value{Dialogue: text})
	s.refresh()
	return m, true
}

// CommitTimecode closes the timecode editor. An empty value (invalid or
// cleared input) or one equal to the authoritative in-timecode is a no-op.
func (s *Session) CommitTimecode(id int64, tc string) (Mutation, bool) {
	key := Key{id, FieldTimecode}
	delete(s.drafts, key)
	auth := s.find(id, s.authoritative)
	if auth == nil || tc == "" || s.tracker.InFlight(key) {
		return Mutation{}, false
	}
	if auth.TCIn != nil && *auth.TCIn == tc {
		s.dropFailed(key)
		return Mutation{}, false
	}
	v := tc
	m := s.tracker.Start(key, Value{TCIn: &v})
	s.refresh()
	return m, true
}

// ToggleStatus submits the inverse of the displayed completion flag. It is
// refused while any field of the row is submitting.
func (s *Session) ToggleStatus(id int64) (Mutation, bool) {
	iv, ok := s.Intervention(id)
	if !ok || s.Busy(id) {
		return Mutation{}, false
	}
	m := s.tracker.Start(Key{id, FieldStatus}, Value{Completed: !iv.Completed})
	s.refresh()
	return m, true
}

// dropFailed forgets a failed optimistic value once the operator has put
// the field back to its authoritative value.
func (s *Session) dropFailed(key Key) {
	if p, ok := s.tracker.Get(key); ok && p.State == StateFailed {
		delete(s.tracker.entries, key)
		s.refresh()
	}
}
