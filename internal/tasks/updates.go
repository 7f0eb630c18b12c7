package tasks

import (
	"fmt"

	"github.com/tomasvidal/trackseek/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	ResolveTracks
	Persist
	Report
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case ResolveTracks:
		return "resolve_tracks"
	case Persist:
		return "persist"
	case Report:
		return "report"
	default:
		return ""
	}
}

func fetchSourceUpdate(kind, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s %s from catalog...", kind, id),
	}
}

func foundSourceUpdate(name string, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %s (%d tracks)", name, total),
	}
}

func resolveTrackUpdate(step, total int, d models.TrackDescriptor) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, d.PrimaryArtist(), d.Name),
	}
}

func trackResolvedUpdate(step, total int, outcome TrackOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, outcome.Descriptor.Name, outcome.Resolution.Locator),
		Data:    outcome,
	}
}

func trackFailedUpdate(step, total int, outcome TrackOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, outcome.Descriptor.Name, outcome.Err),
		Data:    outcome,
	}
}

func persistUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    step,
		Total:   total,
		Message: "Saving resolutions...",
	}
}

func reportUpdate(result *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Report,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolved %d/%d tracks (%.0f%%)", result.Matched, result.Total, result.MatchPercentage),
		Data:    result,
	}
}
