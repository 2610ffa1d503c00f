package review

import (
	"github.com/asrecorded/asrec/internal/api"
)

// Session is the state of one chapter under review: the authoritative data
// loaded from the backend, the tracked optimistic mutations, the edit
// drafts and the navigator over the aggregated view.
type Session struct {
	chapter       *api.Chapter
	authoritative []api.Take
	view          []api.Take
	tracker       *Tracker
	nav           *Navigator
	drafts        map[Key]string
	loadErr       string
	loaded        bool
}

func NewSession() *Session {
	return &Session{
		tracker: NewTracker(),
		nav:     NewNavigator(),
		drafts:  make(map[Key]string),
	}
}

// Load installs freshly fetched chapter details. Tracked mutations and
// drafts from a previous load are discarded.
func (s *Session) Load(d *api.ChapterDetails) {
	ch := d.Chapter
	s.chapter = &ch
	s.authoritative = cloneTakes(d.Takes)
	s.tracker.Clear()
	s.drafts = make(map[Key]string)
	s.loadErr = ""
	s.loaded = true
	s.refresh()
}

// Fail records a chapter load failure. No takes are shown afterwards.
func (s *Session) Fail(msg string) {
	s.loadErr = msg
	s.loaded = true
	s.authoritative = nil
	s.refresh()
}

func (s *Session) refresh() {
	s.view = Aggregate(s.authoritative, s.tracker)
	s.nav.SetTakes(s.view)
}

func (s *Session) Loaded() bool          { return s.loaded }
func (s *Session) LoadError() string     { return s.loadErr }
func (s *Session) Chapter() *api.Chapter { return s.chapter }
func (s *Session) Navigator() *Navigator { return s.nav }

// Empty reports a successfully loaded chapter without takes.
func (s *Session) Empty() bool {
	return s.loaded && s.loadErr == "" && len(s.view) == 0
}

// Takes returns the aggregated takes as rendered.
func (s *Session) Takes() []api.Take { return s.view }

// Authoritative returns the last server-confirmed takes.
func (s *Session) Authoritative() []api.Take { return s.authoritative }

func (s *Session) CurrentTake() *api.Take { return s.nav.Current() }

func (s *Session) SetSearchTerm(term string) { s.nav.SetSearchTerm(term) }
func (s *Session) Next()                     { s.nav.Next() }
func (s *Session) Previous()                 { s.nav.Previous() }
func (s *Session) SelectTake(i int) bool     { return s.nav.SelectTake(i) }

// Resolve settles a mutation. A success is adopted as authoritative before
// the tracker entry is dropped so the rendered value does not change.
func (s *Session) Resolve(r Result) bool {
	cur, ok := s.tracker.Get(r.Mutation.Key)
	if !ok || cur.Seq != r.Mutation.Seq {
		return false
	}
	if r.Err == nil {
		applyConfirmed(s.authoritative, r.Mutation.Key, r.Confirmed)
	}
	s.tracker.Resolve(r, api.Message(r.Err))
	s.refresh()
	return true
}

func (s *Session) find(id int64, takes []api.Take) *api.Intervention {
	for i := range takes {
		for j := range takes[i].Interventions {
			if takes[i].Interventions[j].ID == id {
				return &takes[i].Interventions[j]
			}
		}
	}
	return nil
}

// Intervention returns the displayed (optimistic) state of an intervention.
func (s *Session) Intervention(id int64) (api.Intervention, bool) {
	if iv := s.find(id, s.view); iv != nil {
		return *iv, true
	}
	return api.Intervention{}, false
}

// Pending returns the number of tracked mutations that have not settled.
func (s *Session) Pending() int {
	n := 0
	for _, p := range s.tracker.entries {
		if p.State == StatePending {
			n++
		}
	}
	return n
}
