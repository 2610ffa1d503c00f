// Package review implements the take review session: navigation across a
// chapter's takes, per-field edits of interventions and the optimistic
// view layered over the last state confirmed by the backend.
package review

// Field is an editable attribute of an intervention.
type Field int

const (
	FieldStatus Field = iota
	FieldDialogue
	FieldTimecode
)

func (f Field) String() string {
	switch f {
	case FieldStatus:
		return "status"
	case FieldDialogue:
		return "dialogue"
	case FieldTimecode:
		return "timecode"
	}
	return "unknown"
}

// Key identifies one mutable field of one intervention.
type Key struct {
	InterventionID int64
	Field          Field
}

// Value carries the payload of a mutation. Only the member matching the
// key's field is meaningful.
type Value struct {
	Completed bool
	Dialogue  string
	TCIn      *string
}

// Mutation is an edit handed to the caller for sending.
type Mutation struct {
	Key
	Seq   uint64
	Value Value
}

// Result reports how a mutation settled. Confirmed holds the value the
// server accepted when Err is nil.
type Result struct {
	Mutation  Mutation
	Confirmed Value
	Err       error
}

type PendingState int

const (
	StatePending PendingState = iota
	StateFailed
)

// Pending is the tracked optimistic value for a key.
type Pending struct {
	Seq   uint64
	State PendingState
	Value Value
	Err   string
}

// Tracker maps (intervention, field) to at most one optimistic value.
type Tracker struct {
	seq     uint64
	entries map[Key]Pending
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[Key]Pending)}
}

// Start records a new optimistic value for key, superseding any previous
// entry, and returns the mutation to send.
func (t *Tracker) Start(key Key, v Value) Mutation {
	t.seq++
	t.entries[key] = Pending{Seq: t.seq, State: StatePending, Value: v}
	return Mutation{Key: key, Seq: t.seq, Value: v}
}

// Resolve settles a mutation. Results for superseded sequence numbers are
// ignored and reported as false. Success drops the entry; failure keeps
// the optimistic value and records the error text.
func (t *Tracker) Resolve(r Result, errText string) bool {
	cur, ok := t.entries[r.Mutation.Key]
	if !ok || cur.Seq != r.Mutation.Seq {
		return false
	}
	if r.Err == nil {
		delete(t.entries, r.Mutation.Key)
		return true
	}
	cur.State = StateFailed
	cur.Err = errText
	t.entries[r.Mutation.Key] = cur
	return true
}

func (t *Tracker) Get(key Key) (Pending, bool) {
	p, ok := t.entries[key]
	return p, ok
}

// InFlight reports whether key has a request that has not settled yet.
func (t *Tracker) InFlight(key Key) bool {
	p, ok := t.entries[key]
	return ok && p.State == StatePending
}

// Len returns the number of tracked keys, failed ones included.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Clear forgets every entry. Used when a chapter is (re)loaded.
func (t *Tracker) Clear() {
	t.entries = make(map[Key]Pending)
}
