package timecode

import "testing"

func strp(s string) *string { return &s }

func TestNewEditor_Defaults(t *testing.T) {
	e := NewEditor(nil, 0)
	if e.Buffer() != "00000000" {
		t.Errorf("buffer = %q, want 00000000", e.Buffer())
	}
	if e.Cursor() != 7 {
		t.Errorf("cursor = %d, want 7", e.Cursor())
	}
	if e.FPS() != DefaultFPS {
		t.Errorf("fps = %d, want %d", e.FPS(), DefaultFPS)
	}
}

func TestNewEditor_SeedsFromValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01:02:03:04", "01020304"},
		{"1:2", "00000012"},
		{"123456789", "23456789"},
		{"", "00000000"},
	}
	for _, tt := range tests {
		e := NewEditor(strp(tt.in), 25)
		if e.Buffer() != tt.want {
			t.Errorf("NewEditor(%q) buffer = %q, want %q", tt.in, e.Buffer(), tt.want)
		}
	}
}

func TestDigit_TypesFromTheRight(t *testing.T) {
	e := NewEditor(nil, 25)
	for _, r := range "123" {
		e.Digit(r)
	}
	if e.Buffer() != "00000123" {
		t.Fatalf("buffer = %q, want 00000123", e.Buffer())
	}
	if e.Display() != "00:00:01:23" {
		t.Errorf("display = %q", e.Display())
	}
	if e.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4", e.Cursor())
	}
}

func TestDigit_PriorDigitsScrollLeft(t *testing.T) {
	e := NewEditor(strp("10:20:30:14"), 25)
	e.Digit('5')
	e.Digit('6')
	// 10203014 shifted twice, then 5 and 6
	if e.Buffer() != "20301456" {
		t.Errorf("buffer = %q, want 20301456", e.Buffer())
	}
}

func TestDigit_CursorFloorsAtZero(t *testing.T) {
	e := NewEditor(nil, 25)
	for _, r := range "1234567890" {
		e.Digit(r)
	}
	if e.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", e.Cursor())
	}
	if e.Buffer() != "34567890" {
		t.Errorf("buffer = %q, want 34567890", e.Buffer())
	}
}

func TestDigit_IgnoresNonDigits(t *testing.T) {
	e := NewEditor(nil, 25)
	e.Digit('x')
	if e.Buffer() != "00000000" || e.Cursor() != 7 {
		t.Errorf("non-digit changed state: %q cursor %d", e.Buffer(), e.Cursor())
	}
}

func TestBackspace_AtRightmostZeroesLastDigit(t *testing.T) {
	e := NewEditor(strp("00001234"), 25)
	e.Backspace()
	if e.Buffer() != "00001230" {
		t.Errorf("buffer = %q, want 00001230", e.Buffer())
	}
	if e.Cursor() != 7 {
		t.Errorf("cursor = %d, want 7", e.Cursor())
	}
}

func TestBackspace_UndoesTypedDigit(t *testing.T) {
	e := NewEditor(nil, 25)
	for _, r := range "123" {
		e.Digit(r)
	}
	e.Backspace()
	if e.Buffer() != "00000012" {
		t.Errorf("buffer = %q, want 00000012", e.Buffer())
	}
	if e.Cursor() != 5 {
		t.Errorf("cursor = %d, want 5", e.Cursor())
	}
}

func TestCommit_ValidAndInvalid(t *testing.T) {
	tests := []struct {
		seed string
		fps  int
		want string
	}{
		{"23:59:59:24", 25, "23:59:59:24"},
		{"23:59:59:25", 25, ""},
		{"25:00:00:00", 25, ""},
		{"00:60:00:00", 25, ""},
		{"00:00:00:29", 30, "00:00:00:29"},
	}
	for _, tt := range tests {
		e := NewEditor(strp(tt.seed), tt.fps)
		if got := e.Commit(); got != tt.want {
			t.Errorf("Commit(%q, fps=%d) = %q, want %q", tt.seed, tt.fps, got, tt.want)
		}
	}
}

func TestCommitAndCancel_ResetCursor(t *testing.T) {
	e := NewEditor(nil, 25)
	e.Digit('1')
	e.Digit('2')
	e.Commit()
	if e.Cursor() != 7 {
		t.Errorf("cursor after commit = %d", e.Cursor())
	}
	e.Digit('3')
	e.Cancel()
	if e.Cursor() != 7 {
		t.Errorf("cursor after cancel = %d", e.Cursor())
	}
}
