package utils

import (
	"math"
	"regexp"
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("got %s", got)
	}
	if got := Truncate("стая с изглед", 4); got != "стая..." {
		t.Errorf("expected rune-aware cut, got %s", got)
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxRunes 0 returns as-is")
	}
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"стая", 4},
		{"😀", 2},
	}
	for _, tt := range tests {
		if got := UTF16Len(tt.in); got != tt.want {
			t.Errorf("UTF16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFindWholeWords(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    int
	}{
		{"ascii word", `room`, "the room has wifi and a room view", 2},
		{"no match inside word", `room`, "bedroom and roommate", 0},
		{"cyrillic word", `стая`, "двойна стая, стаята е голяма", 1},
		{"cyrillic phrase", `двойна стая`, "искам двойна стая", 1},
		{"ascii glued to cyrillic", `wifi`, "wifiвкл and wifi", 1},
		{"punctuation edges", `wi\-fi`, "free wi-fi.", 1},
		{"rejected match retried", `ab`, "aab ab", 1},
		{"empty text", `room`, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := regexp.MustCompile(tt.pattern)
			if got := CountWholeWords(re, tt.text); got != tt.want {
				t.Errorf("CountWholeWords(%q, %q) = %d, want %d", tt.pattern, tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("got %v", v)
	}
	zero := []float32{0, 0}
	NormalizeL2(zero)
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector changed: %v", zero)
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-0.5) != 0 || Clamp01(1.5) != 1 || Clamp01(0.25) != 0.25 || Clamp01(math.NaN()) != 0 {
		t.Error("unexpected clamp result")
	}
}
