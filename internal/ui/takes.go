package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/asrecorded/asrec/internal/api"
)

// TakePicker is the modal list opened with `t` to jump to any take.
type TakePicker struct {
	takes   []api.Take
	cursor  int
	visible bool
	width   int
	height  int
}

func NewTakePicker() TakePicker {
	return TakePicker{}
}

// Show opens the picker on the current take.
func (p *TakePicker) Show(takes []api.Take, current int) {
	p.takes = takes
	p.cursor = max(current, 0)
	if p.cursor >= len(takes) {
		p.cursor = max(len(takes)-1, 0)
	}
	p.visible = true
}

func (p *TakePicker) Close() {
	p.visible = false
}

func (p *TakePicker) IsVisible() bool {
	return p.visible
}

func (p *TakePicker) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *TakePicker) Up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *TakePicker) Down() {
	if p.cursor < len(p.takes)-1 {
		p.cursor++
	}
}

func (p *TakePicker) PageUp(n int) {
	p.cursor = max(p.cursor-n, 0)
}

func (p *TakePicker) PageDown(n int) {
	p.cursor = max(min(p.cursor+n, len(p.takes)-1), 0)
}

func (p *TakePicker) Cursor() int {
	return p.cursor
}

// TakeLabel is the picker text for a take: "Take N (in - out)".
func TakeLabel(t api.Take) string {
	return fmt.Sprintf("Take %d (%s - %s)", t.Number, orDash(t.TCIn), orDash(t.TCOut))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "--:--:--:--"
	}
	return *s
}

// takeProgress returns completed and total interventions of a take.
func takeProgress(t api.Take) (done, total int) {
	for _, iv := range t.Interventions {
		if iv.Completed {
			done++
		}
	}
	return done, len(t.Interventions)
}

// progressGlyph returns a bar character for the completed share of a take.
func progressGlyph(done, total int) string {
	bars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇'}
	if total == 0 {
		return DimStyle.Render("·")
	}
	idx := done * (len(bars) - 1) / total
	color := ColorDim
	switch {
	case done == total:
		color = ColorGreen
	case done > 0:
		color = ColorCyanDim
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(bars[idx]))
}

func (p *TakePicker) listHeight() int {
	return max(min(p.height-8, len(p.takes)), 1)
}

func (p *TakePicker) View() string {
	innerW := max(min(p.width*60/100, 60), 30)

	if len(p.takes) == 0 {
		return RenderPanel("TAKES", "\n"+DimStyle.Render("  No takes"), innerW+2, 3, true)
	}

	available := p.listHeight()
	start := 0
	if p.cursor >= available {
		start = p.cursor - available + 1
	}
	scrollbar := RenderScrollbar(available, len(p.takes), start)

	var lines []string
	for idx := 0; idx < available; idx++ {
		i := start + idx
		sb := scrollbar[idx]
		if i >= len(p.takes) {
			lines = append(lines, strings.Repeat(" ", innerW-1)+sb)
			continue
		}

		t := p.takes[i]
		done, total := takeProgress(t)
		glyph := progressGlyph(done, total)
		label := TakeLabel(t)
		count := fmt.Sprintf("%d/%d", done, total)

		var line string
		if i == p.cursor {
			sel := lipgloss.NewStyle().Background(ColorSelectBg)
			marker := sel.Foreground(ColorSelect).Render("▸")
			labelStr := sel.Foreground(ColorSelect).Bold(true).Render(label)
			countStr := sel.Foreground(ColorSelect).Render(count)
			line = fmt.Sprintf(" %s %s %s  %s", marker, sel.Render(glyph), labelStr, countStr)
			pad := max(innerW-1-visibleLen(line), 0)
			lines = append(lines, line+sel.Render(strings.Repeat(" ", pad))+sb)
		} else {
			line = fmt.Sprintf("   %s %s  %s", glyph, NormalStyle.Render(label), DimStyle.Render(count))
			pad := max(innerW-1-visibleLen(line), 0)
			lines = append(lines, line+strings.Repeat(" ", pad)+sb)
		}
	}
	lines = append(lines, "", DimStyle.Render("  ↑/↓ move  Enter jump  Esc close"))

	return RenderPanel("TAKES", strings.Join(lines, "\n"), innerW+2, len(lines), true)
}
