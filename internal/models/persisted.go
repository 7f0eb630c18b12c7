package models

import (
	"fmt"
	"strings"
	"time"
)

// Job status values for [ResolutionJob].
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Source kinds for [ResolutionJob].
const (
	SourceAlbum    = "album"
	SourcePlaylist = "playlist"
)

// PersistedResolution is the database-backed audit record of one successful
// resolution. It is written after the engine resolves a descriptor and is
// never consulted by the engine itself.
type PersistedResolution struct {
	id            string
	sequence      int
	descriptorKey string
	trackName     string
	artist        string
	album         string
	duration      int
	locator       string
	strategy      string
	score         float64
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewPersistedResolution builds an audit record from a descriptor and the
// resolution the engine produced for it.
func NewPersistedResolution(sequence int, d TrackDescriptor, r Resolution) *PersistedResolution {
	now := time.Now()
	return &PersistedResolution{
		sequence:      sequence,
		descriptorKey: d.Key(),
		trackName:     d.Name,
		artist:        d.PrimaryArtist(),
		album:         d.Album,
		duration:      d.Duration,
		locator:       r.Locator,
		strategy:      r.Strategy,
		score:         r.Match.Total,
		createdAt:     now,
		updatedAt:     now,
	}
}

// RehydrateResolution reconstructs a PersistedResolution from stored fields.
// Used by the repository layer when scanning rows.
func RehydrateResolution(id string, sequence int, descriptorKey, trackName, artist, album string, duration int, locator, strategy string, score float64, createdAt, updatedAt time.Time, deletedAt *time.Time) *PersistedResolution {
	return &PersistedResolution{
		id:            id,
		sequence:      sequence,
		descriptorKey: descriptorKey,
		trackName:     trackName,
		artist:        artist,
		album:         album,
		duration:      duration,
		locator:       locator,
		strategy:      strategy,
		score:         score,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
	}
}

func (r *PersistedResolution) ID() string             { return r.id }
func (r *PersistedResolution) Sequence() int          { return r.sequence }
func (r *PersistedResolution) DescriptorKey() string  { return r.descriptorKey }
func (r *PersistedResolution) TrackName() string      { return r.trackName }
func (r *PersistedResolution) Artist() string         { return r.artist }
func (r *PersistedResolution) Album() string          { return r.album }
func (r *PersistedResolution) Duration() int          { return r.duration }
func (r *PersistedResolution) Locator() string        { return r.locator }
func (r *PersistedResolution) Strategy() string       { return r.strategy }
func (r *PersistedResolution) Score() float64         { return r.score }
func (r *PersistedResolution) CreatedAt() time.Time   { return r.createdAt }
func (r *PersistedResolution) UpdatedAt() time.Time   { return r.updatedAt }
func (r *PersistedResolution) DeletedAt() *time.Time  { return r.deletedAt }
func (r *PersistedResolution) SetID(id string)          { r.id = id }
func (r *PersistedResolution) SetSequence(sequence int) { r.sequence = sequence }
func (r *PersistedResolution) SetUpdatedAt(t time.Time) { r.updatedAt = t }

// Validate checks the record is complete enough to persist.
func (r *PersistedResolution) Validate() error {
	if strings.TrimSpace(r.descriptorKey) == "" {
		return fmt.Errorf("persisted resolution missing descriptor key")
	}
	if strings.TrimSpace(r.trackName) == "" {
		return fmt.Errorf("persisted resolution missing track name")
	}
	if strings.TrimSpace(r.locator) == "" {
		return fmt.Errorf("persisted resolution missing locator")
	}
	if strings.TrimSpace(r.strategy) == "" {
		return fmt.Errorf("persisted resolution missing strategy")
	}
	return nil
}

// ResolutionJob tracks one batch resolution run over an album or playlist.
type ResolutionJob struct {
	id         string
	sequence   int
	sourceKind string
	sourceID   string
	sourceName string
	total      int
	matched    int
	missed     int
	transient  int
	status     string
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewResolutionJob creates a pending job for the given source container.
func NewResolutionJob(sequence int, sourceKind, sourceID, sourceName string, total int) *ResolutionJob {
	now := time.Now()
	return &ResolutionJob{
		sequence:   sequence,
		sourceKind: sourceKind,
		sourceID:   sourceID,
		sourceName: sourceName,
		total:      total,
		status:     JobPending,
		createdAt:  now,
		updatedAt:  now,
	}
}

// RehydrateJob reconstructs a ResolutionJob from stored fields.
func RehydrateJob(id string, sequence int, sourceKind, sourceID, sourceName string, total, matched, missed, transient int, status string, createdAt, updatedAt time.Time, deletedAt *time.Time) *ResolutionJob {
	return &ResolutionJob{
		id:         id,
		sequence:   sequence,
		sourceKind: sourceKind,
		sourceID:   sourceID,
		sourceName: sourceName,
		total:      total,
		matched:    matched,
		missed:     missed,
		transient:  transient,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		deletedAt:  deletedAt,
	}
}

func (j *ResolutionJob) ID() string            { return j.id }
func (j *ResolutionJob) Sequence() int         { return j.sequence }
func (j *ResolutionJob) SourceKind() string    { return j.sourceKind }
func (j *ResolutionJob) SourceID() string      { return j.sourceID }
func (j *ResolutionJob) SourceName() string    { return j.sourceName }
func (j *ResolutionJob) Total() int            { return j.total }
func (j *ResolutionJob) Matched() int          { return j.matched }
func (j *ResolutionJob) Missed() int           { return j.missed }
func (j *ResolutionJob) Transient() int        { return j.transient }
func (j *ResolutionJob) Status() string        { return j.status }
func (j *ResolutionJob) CreatedAt() time.Time  { return j.createdAt }
func (j *ResolutionJob) UpdatedAt() time.Time  { return j.updatedAt }
func (j *ResolutionJob) DeletedAt() *time.Time { return j.deletedAt }
func (j *ResolutionJob) SetID(id string)          { j.id = id }
func (j *ResolutionJob) SetSequence(sequence int) { j.sequence = sequence }
func (j *ResolutionJob) SetUpdatedAt(t time.Time) { j.updatedAt = t }

// SetCounts updates the per-outcome counters.
func (j *ResolutionJob) SetCounts(matched, missed, transient int) {
	j.matched = matched
	j.missed = missed
	j.transient = transient
}

// SetStatus transitions the job to the given status.
func (j *ResolutionJob) SetStatus(status string) { j.status = status }

// Validate checks the job is complete enough to persist.
func (j *ResolutionJob) Validate() error {
	switch j.sourceKind {
	case SourceAlbum, SourcePlaylist:
	default:
		return fmt.Errorf("invalid job source kind %q", j.sourceKind)
	}
	if strings.TrimSpace(j.sourceID) == "" {
		return fmt.Errorf("resolution job missing source id")
	}
	switch j.status {
	case JobPending, JobRunning, JobCompleted, JobFailed:
	default:
		return fmt.Errorf("invalid job status %q", j.status)
	}
	return nil
}
