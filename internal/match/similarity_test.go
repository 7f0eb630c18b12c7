package match

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarity(t *testing.T) {
	tc := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "yellow", b: "yellow", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "left empty", a: "", b: "abc", want: 0.0},
		{name: "right empty", a: "abc", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		{name: "single block", a: "abcd", b: "bcde", want: 2.0 * 3 / 8},
		{name: "classic pearl", a: "pearl", b: "petal", want: 2.0 * 4 / 10},
		{name: "substring", a: "coldplay yellow", b: "yellow", want: 2.0 * 6 / 21},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityIdentityForAllInputs(t *testing.T) {
	for _, s := range []string{"a", "yellow", "the scientist", "日本語タイトル"} {
		if got := Similarity(s, s); !almostEqual(got, 1.0) {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", s, s, got)
		}
	}
}

func TestSimilarityBounded(t *testing.T) {
	pairs := [][2]string{
		{"speed of sound", "speed of sound live"},
		{"clocks", "clocks remix"},
		{"a", "b"},
		{"in my place", "in my place"},
	}

	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}
