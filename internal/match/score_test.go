package match

import (
	"testing"

	"github.com/tomasvidal/trackseek/internal/models"
)

var yellowDescriptor = models.TrackDescriptor{
	Name:     "Yellow",
	Artists:  []string{"Coldplay"},
	Album:    "Parachutes",
	Duration: 266,
}

func TestDurationScore(t *testing.T) {
	t.Run("exact match scores one", func(t *testing.T) {
		if got := DurationScore(266, 266); !almostEqual(got, 1.0) {
			t.Errorf("expected 1.0, got %v", got)
		}
	})

	t.Run("zero at ten seconds and beyond", func(t *testing.T) {
		for _, delta := range []int{10, 11, 60} {
			if got := DurationScore(266+delta, 266); got != 0 {
				t.Errorf("expected 0 at delta %d, got %v", delta, got)
			}
		}
	})

	t.Run("monotonically non-increasing in delta", func(t *testing.T) {
		prev := 2.0
		for delta := 0; delta <= 12; delta++ {
			got := DurationScore(266+delta, 266)
			if got > prev {
				t.Errorf("score increased at delta %d: %v > %v", delta, got, prev)
			}
			prev = got
		}
	})

	t.Run("symmetric in sign", func(t *testing.T) {
		if DurationScore(260, 266) != DurationScore(272, 266) {
			t.Error("expected equal scores for +/- deltas")
		}
	})
}

func TestWeightedScore(t *testing.T) {
	scorer := NewScorer(ProfileWeighted)

	t.Run("noisy exact candidate passes strict", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Coldplay - Yellow (Official Video)",
			Artists:  []string{"Coldplay"},
			Duration: 266,
			Locator:  "abc123",
		}

		result := scorer.Score(candidate, yellowDescriptor, true)

		if !result.Pass {
			t.Fatalf("expected pass, got total %v", result.Total)
		}
		if !almostEqual(result.DurationScore, 1.0) {
			t.Errorf("expected duration score 1.0, got %v", result.DurationScore)
		}
		if !almostEqual(result.ArtistScore, 1.0) {
			t.Errorf("expected artist score 1.0, got %v", result.ArtistScore)
		}
		if result.Bonus != 0 {
			t.Errorf("strict scoring must not apply the album bonus, got %v", result.Bonus)
		}
	})

	t.Run("album bonus only when non-strict", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Yellow",
			Artists:  []string{"Coldplay"},
			Duration: 268,
			Album:    "Parachutes (Deluxe)",
		}

		strict := scorer.Score(candidate, yellowDescriptor, true)
		loose := scorer.Score(candidate, yellowDescriptor, false)

		if strict.Bonus != 0 {
			t.Errorf("expected no bonus for strict, got %v", strict.Bonus)
		}
		if !almostEqual(loose.Bonus, 0.1) {
			t.Errorf("expected 0.1 album bonus, got %v", loose.Bonus)
		}
		if !almostEqual(loose.Total, strict.Total+0.1) {
			t.Errorf("bonus should add exactly 0.1: strict %v loose %v", strict.Total, loose.Total)
		}
	})

	t.Run("unrelated candidate fails", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Bohemian Rhapsody",
			Artists:  []string{"Queen"},
			Duration: 354,
		}

		result := scorer.Score(candidate, yellowDescriptor, false)
		if result.Pass {
			t.Errorf("expected fail, got total %v", result.Total)
		}
	})

	t.Run("failing result keeps its breakdown", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Yellow Submarine",
			Artists:  []string{"The Beatles"},
			Duration: 160,
		}

		result := scorer.Score(candidate, yellowDescriptor, true)
		if result.Pass {
			t.Fatal("expected fail")
		}
		if result.TitleScore == 0 {
			t.Error("partial title overlap should produce a non-zero title score")
		}
	})

	t.Run("partial artist overlap is fractional", func(t *testing.T) {
		descriptor := models.TrackDescriptor{
			Name:     "Homecoming",
			Artists:  []string{"Kanye West", "Chris Martin"},
			Duration: 203,
		}
		candidate := models.Candidate{
			Title:    "Homecoming",
			Artists:  []string{"Kanye West"},
			Duration: 203,
		}

		result := scorer.Score(candidate, descriptor, true)
		if !almostEqual(result.ArtistScore, 0.5) {
			t.Errorf("expected artist score 0.5, got %v", result.ArtistScore)
		}
	})

	t.Run("thresholds", func(t *testing.T) {
		if scorer.Threshold(true) != 0.7 {
			t.Errorf("expected strict threshold 0.7, got %v", scorer.Threshold(true))
		}
		if scorer.Threshold(false) != 0.6 {
			t.Errorf("expected loose threshold 0.6, got %v", scorer.Threshold(false))
		}
	})
}

func TestGatedScore(t *testing.T) {
	scorer := NewScorer(ProfileGated)

	t.Run("close candidate passes", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Yellow (Official Video)",
			Artists:  []string{"Coldplay"},
			Duration: 268,
		}

		result := scorer.Score(candidate, yellowDescriptor, true)
		if !result.Pass {
			t.Errorf("expected pass: title %v artist %v", result.TitleScore, result.ArtistScore)
		}
	})

	t.Run("duration outside window fails regardless of text", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Yellow",
			Artists:  []string{"Coldplay"},
			Duration: 266 + gatedDurationWindow + 1,
		}

		result := scorer.Score(candidate, yellowDescriptor, true)
		if result.Pass {
			t.Error("expected fail on duration gate")
		}
		if result.TitleScore < 0.99 {
			t.Errorf("title breakdown should still be recorded, got %v", result.TitleScore)
		}
	})

	t.Run("unrelated artist fails", func(t *testing.T) {
		candidate := models.Candidate{
			Title:    "Yellow",
			Artists:  []string{"Scrillman Deluxe"},
			Duration: 266,
		}

		if result := scorer.Score(candidate, yellowDescriptor, true); result.Pass {
			t.Error("expected fail on artist gate")
		}
	})
}

func TestParseProfile(t *testing.T) {
	tc := []struct {
		input string
		want  Profile
	}{
		{input: "weighted", want: ProfileWeighted},
		{input: "gated", want: ProfileGated},
		{input: " GATED ", want: ProfileGated},
		{input: "", want: ProfileWeighted},
		{input: "bogus", want: ProfileWeighted},
	}

	for _, tt := range tc {
		if got := ParseProfile(tt.input); got != tt.want {
			t.Errorf("ParseProfile(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
