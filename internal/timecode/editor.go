package timecode

// Editor is a fixed-width shift register for typing timecodes from the
// right: each digit lands in the last position and earlier digits scroll
// left.
type Editor struct {
	buf    [width]byte
	cursor int
	fps    int
}

// NewEditor seeds the buffer from initial (nil means 00:00:00:00).
func NewEditor(initial *string, fps int) *Editor {
	if fps <= 0 {
		fps = DefaultFPS
	}
	e := &Editor{cursor: width - 1, fps: fps}
	seed := "00000000"
	if initial != nil {
		seed = Digits(*initial)
	}
	copy(e.buf[:], seed)
	return e
}

// Digit feeds one keystroke. Non-digits are ignored.
func (e *Editor) Digit(r rune) {
	if r < '0' || r > '9' {
		return
	}
	copy(e.buf[0:width-1], e.buf[1:width])
	e.buf[width-1] = byte(r)
	if e.cursor > 0 {
		e.cursor--
	}
}

// Backspace undoes the most recent digit: digits right of the cursor move
// back one place and the cursor slot becomes zero. At the rightmost
// position only the last digit is cleared.
func (e *Editor) Backspace() {
	if e.cursor >= width-1 {
		e.buf[width-1] = '0'
		return
	}
	copy(e.buf[e.cursor+1:width], e.buf[e.cursor:width-1])
	e.buf[e.cursor] = '0'
	e.cursor++
}

// Commit resets the cursor and returns the formatted value, or "" when
// the buffer is not a valid timecode.
func (e *Editor) Commit() string {
	e.cursor = width - 1
	tc := Format(string(e.buf[:]))
	if Validate(tc, e.fps) != nil {
		return ""
	}
	return tc
}

// Cancel resets the cursor without producing a value.
func (e *Editor) Cancel() {
	e.cursor = width - 1
}

func (e *Editor) Buffer() string { return string(e.buf[:]) }
func (e *Editor) Display() string { return Format(string(e.buf[:])) }
func (e *Editor) Cursor() int     { return e.cursor }
func (e *Editor) FPS() int        { return e.fps }

// Valid reports whether the current buffer would commit to a value.
func (e *Editor) Valid() bool {
	return Validate(e.Display(), e.fps) == nil
}
