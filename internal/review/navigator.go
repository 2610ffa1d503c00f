package review

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/asrecorded/asrec/internal/api"
)

// Navigator owns the current take index and search-aware stepping.
type Navigator struct {
	takes       []api.Take
	index       int
	term        string
	message     string
	jumpPending bool
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// MatchesCharacter reports whether term is a case-insensitive substring of
// the character name. An empty term matches nothing.
func MatchesCharacter(character, term string) bool {
	t := fold(term)
	if t == "" {
		return false
	}
	return strings.Contains(cases.Fold().String(character), t)
}

// SetTakes replaces the take list (typically the aggregated view) and keeps
// the index within bounds. A search jump requested before any takes were
// available runs now.
func (n *Navigator) SetTakes(takes []api.Take) {
	n.takes = takes
	switch {
	case len(takes) == 0:
		n.index = 0
	case n.index >= len(takes):
		n.index = len(takes) - 1
	case n.index < 0:
		n.index = 0
	}
	if n.jumpPending && len(takes) > 0 {
		n.jump()
	}
}

// Index returns the current take index, or -1 when there is no take.
func (n *Navigator) Index() int {
	if len(n.takes) == 0 {
		return -1
	}
	return n.index
}

// Current returns the current take, or nil for an empty chapter.
func (n *Navigator) Current() *api.Take {
	if len(n.takes) == 0 {
		return nil
	}
	return &n.takes[n.index]
}

func (n *Navigator) Len() int        { return len(n.takes) }
func (n *Navigator) Term() string    { return n.term }
func (n *Navigator) Message() string { return n.message }

func (n *Navigator) searching() bool {
	return strings.TrimSpace(n.term) != ""
}

func (n *Navigator) hasPendingMatch(i int) bool {
	for _, iv := range n.takes[i].Interventions {
		if !iv.Completed && MatchesCharacter(iv.Character, n.term) {
			return true
		}
	}
	return false
}

func (n *Navigator) hasAnyMatch(i int) bool {
	for _, iv := range n.takes[i].Interventions {
		if MatchesCharacter(iv.Character, n.term) {
			return true
		}
	}
	return false
}

// findForward returns the first take at or after start with a pending
// match, or -1.
func (n *Navigator) findForward(start int) int {
	if !n.searching() {
		return -1
	}
	for i := max(start, 0); i < len(n.takes); i++ {
		if n.hasPendingMatch(i) {
			return i
		}
	}
	return -1
}

// findBackward returns the first take at or before start with a pending
// match, or -1.
func (n *Navigator) findBackward(start int) int {
	if !n.searching() {
		return -1
	}
	for i := min(start, len(n.takes)-1); i >= 0; i-- {
		if n.hasPendingMatch(i) {
			return i
		}
	}
	return -1
}

// SetSearchTerm updates the character filter. A new non-empty term jumps
// to the first take with a pending match for it.
func (n *Navigator) SetSearchTerm(term string) {
	prev := n.term
	n.term = term
	if !n.searching() {
		n.message = ""
		n.jumpPending = false
		return
	}
	if fold(term) == fold(prev) {
		return
	}
	n.jumpPending = true
	if len(n.takes) > 0 {
		n.jump()
	}
}

func (n *Navigator) jump() {
	n.jumpPending = false
	term := strings.TrimSpace(n.term)
	if i := n.findForward(0); i >= 0 {
		n.index = i
		n.message = ""
		return
	}
	for i := range n.takes {
		if n.hasAnyMatch(i) {
			n.index = i
			n.message = fmt.Sprintf("no pending interventions for %s, showing first occurrence.", term)
			return
		}
	}
	n.message = fmt.Sprintf("%s has no interventions in this chapter.", term)
}

// Next advances one take, or to the next take with a pending match while
// a search is active.
func (n *Navigator) Next() {
	if len(n.takes) == 0 {
		return
	}
	last := len(n.takes) - 1
	if !n.searching() {
		n.index = min(n.index+1, last)
		return
	}
	if i := n.findForward(min(last, n.index+1)); i >= 0 {
		n.index = i
		n.message = ""
		return
	}
	n.message = fmt.Sprintf("no more pending interventions for %s after this take.", strings.TrimSpace(n.term))
}

// Previous is the backward counterpart of Next.
func (n *Navigator) Previous() {
	if len(n.takes) == 0 {
		return
	}
	if !n.searching() {
		n.index = max(n.index-1, 0)
		return
	}
	if i := n.findBackward(max(0, n.index-1)); i >= 0 {
		n.index = i
		n.message = ""
		return
	}
	n.message = fmt.Sprintf("no more pending interventions for %s before this take.", strings.TrimSpace(n.term))
}

// SelectTake jumps to an explicit index. Out-of-range indexes are ignored.
// The search term stays active but any deferred search jump is dropped.
func (n *Navigator) SelectTake(i int) bool {
	if i < 0 || i >= len(n.takes) {
		return false
	}
	n.index = i
	n.jumpPending = false
	return true
}

func (n *Navigator) CanPrevious() bool {
	if len(n.takes) == 0 {
		return false
	}
	if !n.searching() {
		return n.index > 0
	}
	return n.findBackward(n.index-1) >= 0
}

func (n *Navigator) CanNext() bool {
	if len(n.takes) == 0 {
		return false
	}
	if !n.searching() {
		return n.index < len(n.takes)-1
	}
	return n.findForward(n.index+1) >= 0
}

// Characters returns the distinct character names of the chapter in
// Spanish collation order.
func (n *Navigator) Characters() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range n.takes {
		for _, iv := range t.Interventions {
			if iv.Character == "" || seen[iv.Character] {
				continue
			}
			seen[iv.Character] = true
			names = append(names, iv.Character)
		}
	}
	c := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
	return names
}
