package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asrecorded/asrec/internal/review"
)

// SearchBox edits the character search term. Tab cycles through the
// chapter's character names that match what has been typed.
type SearchBox struct {
	input      textinput.Model
	active     bool
	width      int
	characters []string
	matches    []string
	matchIdx   int
	typed      string // text the completion cycle started from
}

func NewSearchBox() SearchBox {
	ti := textinput.New()
	ti.Placeholder = "character... (Tab: complete, Enter: search, Esc: cancel)"
	ti.CharLimit = 64
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorCyan)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorWhite)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(ColorDim)
	return SearchBox{input: ti}
}

func (s *SearchBox) SetWidth(w int) {
	s.width = w
	s.input.Width = max(w-8, 10)
}

// SetCharacters sets the names offered for completion.
func (s *SearchBox) SetCharacters(names []string) {
	s.characters = names
}

// Open starts editing, seeded with the active term.
func (s *SearchBox) Open(term string) tea.Cmd {
	s.active = true
	s.input.SetValue(term)
	s.input.CursorEnd()
	s.resetCompletion()
	return s.input.Focus()
}

func (s *SearchBox) Close() {
	s.active = false
	s.input.Blur()
	s.resetCompletion()
}

func (s *SearchBox) IsActive() bool {
	return s.active
}

func (s *SearchBox) Value() string {
	return s.input.Value()
}

func (s *SearchBox) resetCompletion() {
	s.matches = nil
	s.matchIdx = -1
	s.typed = ""
}

// Complete replaces the input with the next character name matching the
// text typed before the first Tab.
func (s *SearchBox) Complete() {
	if s.matches == nil {
		s.typed = s.input.Value()
		s.matches = s.suggestions(s.typed)
		s.matchIdx = -1
	}
	if len(s.matches) == 0 {
		return
	}
	s.matchIdx = (s.matchIdx + 1) % len(s.matches)
	s.input.SetValue(s.matches[s.matchIdx])
	s.input.CursorEnd()
}

func (s *SearchBox) suggestions(term string) []string {
	if strings.TrimSpace(term) == "" {
		return append([]string{}, s.characters...)
	}
	out := []string{}
	for _, name := range s.characters {
		if review.MatchesCharacter(name, term) {
			out = append(out, name)
		}
	}
	return out
}

// UpdateInput forwards a key message to the underlying textinput.
func (s *SearchBox) UpdateInput(msg tea.Msg) tea.Cmd {
	prev := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != prev {
		s.resetCompletion()
	}
	return cmd
}

func (s *SearchBox) View() string {
	if !s.active {
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorCyan).
		Padding(0, 1).
		Width(max(s.width-4, 20))

	lines := []string{s.input.View()}

	sugg := s.matches
	if sugg == nil {
		sugg = s.suggestions(s.input.Value())
	}
	if len(sugg) > 0 {
		const maxShow = 6
		var names []string
		for i, name := range sugg {
			if i == maxShow {
				names = append(names, DimStyle.Render(fmt.Sprintf("+%d", len(sugg)-maxShow)))
				break
			}
			if i == s.matchIdx {
				names = append(names, SelectedStyle.Render(name))
			} else {
				names = append(names, NormalStyle.Render(name))
			}
		}
		lines = append(lines, DimStyle.Render("  ")+strings.Join(names, DimStyle.Render(" · ")))
	}
	return box.Render(strings.Join(lines, "\n"))
}
