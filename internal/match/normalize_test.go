package match

import "testing"

func TestNormalize(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Yellow", want: "yellow"},
		{name: "strips official and video", input: "Yellow (Official Video)", want: "yellow"},
		{name: "drops lyrics and audio tokens", input: "Yellow Lyrics Audio", want: "yellow"},
		{name: "strips brackets and dashes", input: "Coldplay - Yellow [HQ]", want: "coldplay yellow hq"},
		{name: "collapses whitespace", input: "  so   much    space ", want: "so much space"},
		{name: "substring removal is not word bounded", input: "unofficial videos", want: "un s"},
		{name: "empty input", input: "", want: ""},
		{name: "only noise", input: "(Official Video) [Lyrics]", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Official Video LYRICS Song",
		"Coldplay - Yellow (Official Video)",
		"Trouble [Live] (Audio)",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	if Normalize("Official Video LYRICS Song") != Normalize("song") {
		t.Errorf("expected boilerplate-heavy title to normalize to %q, got %q",
			Normalize("song"), Normalize("Official Video LYRICS Song"))
	}
}
