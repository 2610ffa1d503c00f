package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/review"
)

const (
	characterWidth = 14
	timecodeWidth  = 11
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// rowView carries what renderRow needs beyond the intervention itself.
type rowView struct {
	focused  bool
	tone     review.Tone
	busy     bool
	frame    int
	errors   []string // fields with a failed edit
	editor   *openEditor
	dialogue string // rendered textarea when the dialogue editor is open
}

// renderRow returns the lines of one intervention: a summary line with
// mark, character, in-timecode and the first line of dialogue, then the
// wrapped remainder of the dialogue.
func renderRow(iv api.Intervention, v rowView, width int) []string {
	textStyle := NormalStyle
	charStyle := CharacterStyle
	switch v.tone {
	case review.ToneComplete:
		textStyle = CompleteStyle
		charStyle = CompleteStyle.Bold(true)
	case review.TonePendingMatch:
		textStyle = PendingMatchStyle.Bold(false)
		charStyle = PendingMatchStyle
	}

	marker := "  "
	if v.focused {
		marker = SelectedStyle.Render("▸ ")
	}

	mark := DimStyle.Render("○")
	if iv.Completed {
		mark = CompleteStyle.Render("●")
	}
	if v.busy {
		mark = BusyStyle.Render(spinnerFrames[v.frame%len(spinnerFrames)])
	}

	badge := " "
	if len(v.errors) > 0 {
		badge = ErrorStyle.Bold(true).Render("!")
	}

	name := runewidth.FillRight(ellipsize(iv.Character, characterWidth), characterWidth)

	var tc string
	if v.editor != nil && v.editor.field == review.FieldTimecode && v.editor.tc != nil {
		tc = renderTimecodeEditor(v.editor.tc)
	} else {
		tc = DimStyle.Render(orDash(iv.TCIn))
	}

	prefix := fmt.Sprintf("%s%s%s %s  %s  ", marker, mark, badge, charStyle.Render(name), tc)
	indent := strings.Repeat(" ", 2+1+1+1+characterWidth+2+timecodeWidth+2)

	if v.editor != nil && v.editor.field == review.FieldTimecode {
		// The editor hint takes the dialogue column; dialogue goes below.
		lines := []string{prefix}
		for _, l := range wrapText(iv.Dialogue, max(width-len(indent), 10)) {
			lines = append(lines, indent+textStyle.Render(l))
		}
		return lines
	}

	if v.editor != nil && v.editor.field == review.FieldDialogue {
		lines := []string{prefix + DimStyle.Render("editing · Enter save · Alt+Enter newline · Esc cancel")}
		for _, l := range strings.Split(v.dialogue, "\n") {
			lines = append(lines, indent+l)
		}
		return lines
	}

	wrapped := wrapText(iv.Dialogue, max(width-len(indent), 10))
	if len(wrapped) == 0 {
		wrapped = []string{""}
	}
	lines := []string{prefix + textStyle.Render(wrapped[0])}
	for _, l := range wrapped[1:] {
		lines = append(lines, indent+textStyle.Render(l))
	}
	if v.focused {
		sel := lipgloss.NewStyle().Background(ColorSelectBg)
		for i, l := range lines {
			lines[i] = l + sel.Render(strings.Repeat(" ", max(width-visibleLen(l), 0)))
		}
	}
	return lines
}

// wrapText breaks text into lines of at most width columns, preferring
// spaces. Explicit newlines are kept.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}
		for runewidth.StringWidth(paragraph) > width {
			runes := []rune(paragraph)
			cut, col := 0, 0
			for i, r := range runes {
				w := runewidth.RuneWidth(r)
				if col+w > width {
					cut = i
					break
				}
				col += w
			}
			if cut == 0 {
				cut = 1
			}
			for i := cut; i > cut/2; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			lines = append(lines, string(runes[:cut]))
			paragraph = strings.TrimLeft(string(runes[cut:]), " ")
		}
		if paragraph != "" {
			lines = append(lines, paragraph)
		}
	}
	return lines
}
