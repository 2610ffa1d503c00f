package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// overlayCenter composites a small modal on top of a rendered background,
// replacing lines in the center while keeping the review screen visible around it.
func overlayCenter(bg, modal string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	modalLines := strings.Split(modal, "\n")

	// Pad background to full height
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	modalH := len(modalLines)
	modalW := 0
	for _, ml := range modalLines {
		if w := visibleLen(ml); w > modalW {
			modalW = w
		}
	}

	topOff := (height - modalH) / 2
	leftOff := (width - modalW) / 2
	if topOff < 0 {
		topOff = 0
	}
	if leftOff < 0 {
		leftOff = 0
	}

	for i, ml := range modalLines {
		row := topOff + i
		if row < len(bgLines) {
			bgLines[row] = spliceAnsiLine(bgLines[row], ml, leftOff, width)
		}
	}

	return strings.Join(bgLines, "\n")
}

// ansiSegments splits a string into segments: each segment is either an ANSI
// escape sequence (visible=false) or a single visible rune (visible=true).
type ansiSeg struct {
	text    string
	visible bool
}

func splitAnsiSegments(s string) []ansiSeg {
	var segs []ansiSeg
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' {
			// Scan to end of escape sequence (letter terminates)
			j := i + 1
			for j < len(s) && !((s[j] >= 'a' && s[j] <= 'z') || (s[j] >= 'A' && s[j] <= 'Z')) {
				j++
			}
			if j < len(s) {
				j++ // include the terminating letter
			}
			segs = append(segs, ansiSeg{s[i:j], false})
			i = j
		} else {
			// Decode one UTF-8 rune
			_, size := utf8.DecodeRuneInString(s[i:])
			segs = append(segs, ansiSeg{s[i : i+size], true})
			i += size
		}
	}
	return segs
}

// spliceAnsiLine composites modalLine on top of bgLine starting at visible
// column leftOff. Preserves background on both sides of the modal.
func spliceAnsiLine(bgLine, modalLine string, leftOff, totalWidth int) string {
	modalVisW := visibleLen(modalLine)
	segs := splitAnsiSegments(bgLine)

	var out strings.Builder
	col := 0

	// 1. Write background up to leftOff visible columns
	for _, seg := range segs {
		if col >= leftOff {
			break
		}
		if !seg.visible {
			out.WriteString(seg.text)
		} else {
			out.WriteString(seg.text)
			col++
		}
	}
	// Pad if background was shorter than leftOff
	for col < leftOff {
		out.WriteByte(' ')
		col++
	}

	// 2. Reset styling, write modal
	out.WriteString("\x1b[0m")
	out.WriteString(modalLine)

	// 3. Skip background segments covered by the modal, then write the rest
	rightStart := leftOff + modalVisW
	bgCol := 0
	writing := false
	for _, seg := range segs {
		if !seg.visible {
			if writing {
				out.WriteString(seg.text)
			}
			continue
		}
		bgCol++
		if bgCol <= rightStart {
			continue
		}
		if !writing {
			writing = true
		}
		out.WriteString(seg.text)
	}

	return out.String()
}

func visibleLen(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

func stripAnsi(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
