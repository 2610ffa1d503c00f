package timecode

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		tc      string
		fps     int
		wantErr bool
	}{
		{"00:00:00:00", 25, false},
		{"23:59:59:24", 25, false},
		{"23:59:59:25", 25, true},
		{"25:00:00:00", 25, true},
		{"24:00:00:00", 25, true},
		{"00:00:60:00", 25, true},
		{"00:00:00", 25, true},
		{"0a:00:00:00", 25, true},
		{"1:00:00:00", 25, true},
		{"00:00:00:29", 30, false},
	}
	for _, tt := range tests {
		err := Validate(tt.tc, tt.fps)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q, %d) err = %v, wantErr %v", tt.tc, tt.fps, err, tt.wantErr)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format("01020304"); got != "01:02:03:04" {
		t.Errorf("Format = %q", got)
	}
	if got := Format("5"); got != "00:00:00:05" {
		t.Errorf("Format short = %q", got)
	}
}

func TestFramesRoundTrip(t *testing.T) {
	n, err := Frames("01:00:00:10", 25)
	if err != nil {
		t.Fatal(err)
	}
	if n != 90010 {
		t.Errorf("frames = %d, want 90010", n)
	}
	if got := FromFrames(n, 25); got != "01:00:00:10" {
		t.Errorf("FromFrames = %q", got)
	}
}

func TestFrames_Invalid(t *testing.T) {
	if _, err := Frames("99:00:00:00", 25); err == nil {
		t.Error("expected error for invalid timecode")
	}
}
