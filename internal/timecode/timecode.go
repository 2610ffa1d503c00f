package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultFPS is the frame ceiling used when none is configured.
const DefaultFPS = 25

const width = 8

// Digits strips punctuation from tc and returns exactly 8 digits,
// left padded with zeros or truncated from the left.
func Digits(tc string) string {
	var b strings.Builder
	for _, r := range tc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) > width {
		return d[len(d)-width:]
	}
	return strings.Repeat("0", width-len(d)) + d
}

// Format renders an 8-digit buffer as HH:MM:SS:FF.
func Format(digits string) string {
	d := Digits(digits)
	return d[0:2] + ":" + d[2:4] + ":" + d[4:6] + ":" + d[6:8]
}

// Validate checks an HH:MM:SS:FF value against the frame ceiling.
func Validate(tc string, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	parts := strings.Split(tc, ":")
	if len(parts) != 4 {
		return fmt.Errorf("timecode %q: want HH:MM:SS:FF", tc)
	}
	limits := [4]int{24, 60, 60, fps}
	names := [4]string{"hours", "minutes", "seconds", "frames"}
	for i, p := range parts {
		if len(p) != 2 {
			return fmt.Errorf("timecode %q: %s must be two digits", tc, names[i])
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return fmt.Errorf("timecode %q: %s not numeric", tc, names[i])
		}
		if n >= limits[i] {
			return fmt.Errorf("timecode %q: %s must be below %d", tc, names[i], limits[i])
		}
	}
	return nil
}

// Frames converts a valid timecode into an absolute frame count.
func Frames(tc string, fps int) (int, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if err := Validate(tc, fps); err != nil {
		return 0, err
	}
	d := Digits(tc)
	hh, _ := strconv.Atoi(d[0:2])
	mm, _ := strconv.Atoi(d[2:4])
	ss, _ := strconv.Atoi(d[4:6])
	ff, _ := strconv.Atoi(d[6:8])
	return ((hh*60+mm)*60+ss)*fps + ff, nil
}

// FromFrames is the inverse of Frames.
func FromFrames(n, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if n < 0 {
		n = 0
	}
	ff := n % fps
	secs := n / fps
	return fmt.Sprintf("%02d:%02d:%02d:%02d", (secs/3600)%24, (secs/60)%60, secs%60, ff)
}
