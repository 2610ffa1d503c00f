package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asrecorded/asrec/internal/review"
	"github.com/asrecorded/asrec/internal/timecode"
)

// openEditor is the field editor currently open, if any. At most one is
// open at a time; it belongs to the focused row.
type openEditor struct {
	id    int64
	field review.Field
	tc    *timecode.Editor
}

func newDialogueArea() textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = "│ "
	// No caps on length or line count: a truncated value would be saved.
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(3)
	// Enter commits; newlines need a modifier.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(ColorBarText)
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(ColorAccent)
	ta.BlurredStyle.Text = lipgloss.NewStyle().Foreground(ColorWhite)
	return ta
}

// renderTimecodeEditor shows HH:MM:SS:FF with the next digit slot
// highlighted and the frame rate the value is checked against.
func renderTimecodeEditor(e *timecode.Editor) string {
	display := e.Display()
	// Buffer index i sits at display column i + i/2 (one colon every two digits).
	col := e.Cursor() + e.Cursor()/2

	var b strings.Builder
	for i, r := range display {
		s := string(r)
		switch {
		case i == col:
			b.WriteString(lipgloss.NewStyle().Foreground(ColorBg).Background(ColorAccent).Render(s))
		case r == ':':
			b.WriteString(DimStyle.Render(s))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(ColorBarText).Bold(true).Render(s))
		}
	}
	hint := DimStyle.Render("  Enter save  Esc cancel")
	if !e.Valid() {
		hint = ErrorStyle.Render("  invalid") + hint
	}
	return b.String() + hint
}
