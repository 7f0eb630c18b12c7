package match

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/tomasvidal/trackseek/internal/models"
)

// Profile selects the scoring policy applied by a [Scorer].
type Profile string

const (
	// ProfileWeighted is the canonical additive policy.
	ProfileWeighted Profile = "weighted"
	// ProfileGated is the older boolean policy with dynamic thresholds.
	ProfileGated Profile = "gated"
)

// Weighted profile constants.
const (
	durationWeight = 0.3
	artistWeight   = 0.4
	titleWeight    = 0.3
	albumBonus     = 0.1

	// Duration score decays linearly, hitting zero at this delta.
	durationWindow = 10.0

	strictThreshold = 0.7
	looseThreshold  = 0.6
)

// Gated profile constants.
const gatedDurationWindow = 3

// ParseProfile maps a config string to a Profile, defaulting to weighted.
func ParseProfile(s string) Profile {
	if Profile(strings.ToLower(strings.TrimSpace(s))) == ProfileGated {
		return ProfileGated
	}
	return ProfileWeighted
}

// Scorer evaluates candidates against a descriptor under one profile.
type Scorer struct {
	profile Profile
}

// NewScorer creates a Scorer for the given profile.
func NewScorer(profile Profile) *Scorer {
	if profile != ProfileGated {
		profile = ProfileWeighted
	}
	return &Scorer{profile: profile}
}

// Profile returns the active scoring profile.
func (s *Scorer) Profile() Profile { return s.profile }

// Threshold returns the acceptance threshold for the weighted profile.
func (s *Scorer) Threshold(strict bool) float64 {
	if strict {
		return strictThreshold
	}
	return looseThreshold
}

// Score evaluates one candidate. The returned MatchResult always carries
// the full component breakdown, pass or fail, so callers can explain the
// verdict.
func (s *Scorer) Score(candidate models.Candidate, descriptor models.TrackDescriptor, strict bool) models.MatchResult {
	if s.profile == ProfileGated {
		return s.scoreGated(candidate, descriptor)
	}
	return s.scoreWeighted(candidate, descriptor, strict)
}

func (s *Scorer) scoreWeighted(candidate models.Candidate, descriptor models.TrackDescriptor, strict bool) models.MatchResult {
	result := models.MatchResult{Candidate: candidate}

	result.DurationScore = DurationScore(candidate.Duration, descriptor.Duration)
	result.ArtistScore = artistOverlap(descriptor.Artists, candidate.Artists)
	result.TitleScore = Similarity(Normalize(candidate.Title), Normalize(descriptor.Name))

	if !strict && albumMatches(candidate.Album, descriptor.Album) {
		result.Bonus = albumBonus
	}

	result.Total = durationWeight*result.DurationScore +
		artistWeight*result.ArtistScore +
		titleWeight*result.TitleScore +
		result.Bonus
	result.Pass = result.Total >= s.Threshold(strict)

	return result
}

// scoreGated applies the dynamic-threshold boolean policy: title and artist
// thresholds scale with word counts, and the duration must land within a
// hard three second window.
func (s *Scorer) scoreGated(candidate models.Candidate, descriptor models.TrackDescriptor) models.MatchResult {
	result := models.MatchResult{Candidate: candidate}

	titleWords := len(strings.Fields(descriptor.Name))
	titleThreshold := 0.75 - 0.03*float64(titleWords-3)
	if titleThreshold < 0.6 {
		titleThreshold = 0.6
	}

	artistWords := len(strings.Fields(descriptor.PrimaryArtist()))
	artistThreshold := 0.7 + 0.05*float64(artistWords)
	if artistThreshold > 0.85 {
		artistThreshold = 0.85
	}

	result.DurationScore = DurationScore(candidate.Duration, descriptor.Duration)
	result.TitleScore = jaroWinkler(Normalize(candidate.Title), Normalize(descriptor.Name))

	for _, want := range descriptor.Artists {
		for _, have := range candidate.Artists {
			if sim := jaroWinkler(Normalize(have), Normalize(want)); sim > result.ArtistScore {
				result.ArtistScore = sim
			}
		}
	}

	delta := candidate.Duration - descriptor.Duration
	if delta < 0 {
		delta = -delta
	}

	result.Total = (result.TitleScore + result.ArtistScore) / 2
	result.Pass = delta <= gatedDurationWindow &&
		result.TitleScore >= titleThreshold &&
		result.ArtistScore >= artistThreshold

	return result
}

// DurationScore decays linearly from 1 at equal durations to 0 at a ten
// second absolute difference.
func DurationScore(candidate, descriptor int) float64 {
	delta := candidate - descriptor
	if delta < 0 {
		delta = -delta
	}
	score := 1 - float64(delta)/durationWindow
	if score < 0 {
		return 0
	}
	return score
}

// artistOverlap returns the fraction of the descriptor's artists present,
// by normalized name, among the candidate's artists.
func artistOverlap(want, have []string) float64 {
	if len(want) == 0 {
		return 0
	}

	haveSet := make(map[string]bool, len(have))
	for _, artist := range have {
		haveSet[Normalize(artist)] = true
	}

	wantSet := make(map[string]bool, len(want))
	for _, artist := range want {
		wantSet[Normalize(artist)] = true
	}

	matched := 0
	for artist := range wantSet {
		if haveSet[artist] {
			matched++
		}
	}

	return float64(matched) / float64(len(wantSet))
}

// albumMatches reports whether the candidate's album contains the
// descriptor's album name, case-insensitively.
func albumMatches(candidateAlbum, descriptorAlbum string) bool {
	if candidateAlbum == "" || descriptorAlbum == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidateAlbum), strings.ToLower(descriptorAlbum))
}

func jaroWinkler(a, b string) float64 {
	sim, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return Similarity(a, b)
	}
	return float64(sim)
}
