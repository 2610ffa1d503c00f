package review

import (
	"errors"
	"testing"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/api/apitest"
)

func loaded(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	d := apitest.SampleChapter()
	s.Load(&d)
	return s
}

func TestTracker_SupersedeIgnoresStaleResult(t *testing.T) {
	tr := NewTracker()
	key := Key{702, FieldDialogue}
	first := tr.Start(key, Value{Dialogue: "a"})
	second := tr.Start(key, Value{Dialogue: "b"})

	if tr.Resolve(Result{Mutation: first}, "") {
		t.Error("stale result should be ignored")
	}
	if !tr.InFlight(key) {
		t.Error("second mutation should still be in flight")
	}
	if !tr.Resolve(Result{Mutation: second}, "") {
		t.Error("current result should resolve")
	}
	if tr.Len() != 0 {
		t.Errorf("entries = %d, want 0", tr.Len())
	}
}

func TestTracker_FailureKeepsValue(t *testing.T) {
	tr := NewTracker()
	key := Key{1, FieldStatus}
	m := tr.Start(key, Value{Completed: true})
	tr.Resolve(Result{Mutation: m, Err: errors.New("boom")}, "boom")

	p, ok := tr.Get(key)
	if !ok || p.State != StateFailed || p.Err != "boom" || !p.Value.Completed {
		t.Errorf("entry = %+v, ok = %v", p, ok)
	}
	if tr.InFlight(key) {
		t.Error("failed entry is not in flight")
	}
}

func TestAggregate_DoesNotMutateAuthoritative(t *testing.T) {
	auth := apitest.SampleChapter().Takes
	tr := NewTracker()
	tc := "00:00:04:00"
	tr.Start(Key{702, FieldStatus}, Value{Completed: true})
	tr.Start(Key{702, FieldDialogue}, Value{Dialogue: "¿Dónde?"})
	tr.Start(Key{702, FieldTimecode}, Value{TCIn: &tc})

	view := Aggregate(auth, tr)
	got := view[0].Interventions[1]
	if !got.Completed || got.Dialogue != "¿Dónde?" || *got.TCIn != tc {
		t.Errorf("view = %+v", got)
	}
	orig := auth[0].Interventions[1]
	if orig.Completed || orig.Dialogue != "¿Dónde estabas?" || *orig.TCIn != "00:00:03:10" {
		t.Errorf("authoritative modified: %+v", orig)
	}
	if view[1].Interventions[0].Dialogue != "Nadie me avisó." {
		t.Error("untouched intervention changed")
	}
}

func TestToggleStatus_NoFlickerOnConfirm(t *testing.T) {
	s := loaded(t)
	m, ok := s.ToggleStatus(702)
	if !ok || !m.Value.Completed {
		t.Fatalf("toggle = %+v, %v", m, ok)
	}
	iv, _ := s.Intervention(702)
	if !iv.Completed {
		t.Error("optimistic value not displayed")
	}
	if !s.Busy(702) || s.State(702, FieldStatus) != Submitting {
		t.Error("row should be busy while submitting")
	}

	s.Resolve(Result{Mutation: m, Confirmed: Value{Completed: true}})
	iv, _ = s.Intervention(702)
	if !iv.Completed {
		t.Error("confirmed value not displayed")
	}
	if s.Busy(702) || s.Pending() != 0 {
		t.Error("row should be idle after confirm")
	}
	if !s.Authoritative()[0].Interventions[1].Completed {
		t.Error("authoritative not updated from confirmed payload")
	}
}

func TestToggleStatus_RefusedWhileBusy(t *testing.T) {
	s := loaded(t)
	if _, ok := s.CommitDialogue(702, "Otra cosa"); !ok {
		t.Fatal("dialogue commit should start a mutation")
	}
	if _, ok := s.ToggleStatus(702); ok {
		t.Error("toggle should be refused while the row is busy")
	}
	if _, ok := s.ToggleStatus(711); !ok {
		t.Error("other rows stay interactive")
	}
}

func TestCommitDialogue_Unchanged(t *testing.T) {
	s := loaded(t)
	seed, ok := s.BeginEdit(702, FieldDialogue)
	if !ok || seed != "¿Dónde estabas?" {
		t.Fatalf("seed = %q, %v", seed, ok)
	}
	if s.State(702, FieldDialogue) != Editing {
		t.Error("state should be editing")
	}
	if _, ok := s.CommitDialogue(702, "  ¿Dónde estabas?\n"); ok {
		t.Error("unchanged dialogue must not send a mutation")
	}
	if s.State(702, FieldDialogue) != Idle || s.Pending() != 0 {
		t.Error("editor should close without a request")
	}
}

func TestCommitDialogue_SendsTrimmed(t *testing.T) {
	s := loaded(t)
	m, ok := s.CommitDialogue(702, "  ¿Y tú?  ")
	if !ok || m.Value.Dialogue != "¿Y tú?" {
		t.Fatalf("mutation = %+v, %v", m, ok)
	}
	if _, ok := s.BeginEdit(702, FieldDialogue); ok {
		t.Error("editing a submitting field should be refused")
	}
}

func TestBeginEdit_StatusIsNotEditable(t *testing.T) {
	s := loaded(t)
	if _, ok := s.BeginEdit(702, FieldStatus); ok {
		t.Error("status has no editor")
	}
	if _, ok := s.BeginEdit(999, FieldDialogue); ok {
		t.Error("unknown intervention")
	}
}

func TestCommitTimecode(t *testing.T) {
	s := loaded(t)

	seed, _ := s.BeginEdit(711, FieldTimecode)
	if seed != "" {
		t.Errorf("seed = %q, want empty for missing timecode", seed)
	}
	if _, ok := s.CommitTimecode(711, ""); ok {
		t.Error("empty timecode is a no-op")
	}
	if _, ok := s.CommitTimecode(702, "00:00:03:10"); ok {
		t.Error("unchanged timecode is a no-op")
	}
	m, ok := s.CommitTimecode(702, "00:00:03:11")
	if !ok || m.Value.TCIn == nil || *m.Value.TCIn != "00:00:03:11" {
		t.Fatalf("mutation = %+v, %v", m, ok)
	}
}

func TestFailedMutationKeepsOptimisticValue(t *testing.T) {
	s := loaded(t)
	m, _ := s.CommitDialogue(711, "Nadie.")
	s.Resolve(Result{Mutation: m, Err: &api.APIError{Status: 500, Message: "Database error"}})

	iv, _ := s.Intervention(711)
	if iv.Dialogue != "Nadie." {
		t.Errorf("dialogue = %q, want optimistic value kept", iv.Dialogue)
	}
	if got := s.Error(711, FieldDialogue); got != "Database error" {
		t.Errorf("error = %q", got)
	}
	if s.State(711, FieldDialogue) != Idle {
		t.Error("failed field should accept a new edit")
	}

	// Typing the original value back clears the failure.
	if _, ok := s.CommitDialogue(711, "Nadie me avisó."); ok {
		t.Error("reverting to the authoritative value sends nothing")
	}
	iv, _ = s.Intervention(711)
	if iv.Dialogue != "Nadie me avisó." || s.Error(711, FieldDialogue) != "" {
		t.Errorf("after revert: %q / %q", iv.Dialogue, s.Error(711, FieldDialogue))
	}
}

func TestRowTone(t *testing.T) {
	pending := api.Intervention{Character: "Marta"}
	done := api.Intervention{Character: "Marta", Completed: true}
	if RowTone(pending, "mar") != TonePendingMatch {
		t.Error("pending match")
	}
	if RowTone(done, "mar") != ToneComplete {
		t.Error("complete wins over match")
	}
	if RowTone(pending, "") != ToneDefault {
		t.Error("no search")
	}
}

func TestLoadFailure(t *testing.T) {
	s := NewSession()
	s.Fail("Chapter not found")
	if !s.Loaded() || s.LoadError() != "Chapter not found" {
		t.Error("load error not recorded")
	}
	if s.Empty() || s.CurrentTake() != nil {
		t.Error("failed load is not an empty chapter")
	}
}

func TestEmptyChapter(t *testing.T) {
	s := NewSession()
	s.Load(&api.ChapterDetails{Chapter: api.Chapter{ID: 1}})
	if !s.Empty() || s.CurrentTake() != nil {
		t.Error("chapter without takes should be empty")
	}
}

// Search for Marta, complete her line, then step on.
func TestReviewScenario(t *testing.T) {
	s := loaded(t)
	s.SetSearchTerm("marta")
	if cur := s.CurrentTake(); cur == nil || cur.ID != 70 {
		t.Fatalf("current = %+v", cur)
	}
	if s.Navigator().CanNext() {
		t.Error("no later pending Marta")
	}

	m, _ := s.ToggleStatus(702)
	s.Resolve(Result{Mutation: m, Confirmed: Value{Completed: true}})

	s.Next()
	if s.CurrentTake().ID != 70 {
		t.Error("next should stay put")
	}
	want := "no more pending interventions for marta after this take."
	if s.Navigator().Message() != want {
		t.Errorf("message = %q", s.Navigator().Message())
	}

	s.SetSearchTerm("")
	s.Next()
	if s.CurrentTake().ID != 71 {
		t.Error("plain next should advance")
	}
}
