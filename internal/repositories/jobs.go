package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
)

// JobRepository implements models.Repository[*models.ResolutionJob].
//
// Records batch resolution runs and their per-outcome counts.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new JobRepository with the given database connection
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new [models.ResolutionJob] with generated ID and sequence
func (r *JobRepository) Create(job *models.ResolutionJob) error {
	sequence, err := NextSequence(r.db, "jobs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	job.SetID(shared.GenerateID())
	job.SetSequence(sequence)

	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO jobs (id, sequence, source_kind, source_id, source_name, total, matched, missed, transient, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		job.ID(),
		job.Sequence(),
		job.SourceKind(),
		job.SourceID(),
		job.SourceName(),
		job.Total(),
		job.Matched(),
		job.Missed(),
		job.Transient(),
		job.Status(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

const jobColumns = "id, sequence, source_kind, source_id, source_name, total, matched, missed, transient, status, created_at, updated_at, deleted_at"

// Get retrieves a job by ID, excluding soft-deleted rows
func (r *JobRepository) Get(id string) (*models.ResolutionJob, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		WHERE id = ? AND deleted_at IS NULL
	`, jobColumns)

	job, err := scanJob(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	return job, err
}

// Update modifies an existing job, typically to advance status and counts
func (r *JobRepository) Update(job *models.ResolutionJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	job.SetUpdatedAt(now)

	query := `
		UPDATE jobs
		SET total = ?, matched = ?, missed = ?, transient = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		job.Total(),
		job.Matched(),
		job.Missed(),
		job.Transient(),
		job.Status(),
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found or already deleted: %s", job.ID())
	}

	return nil
}

// Delete soft-deletes a job by ID
func (r *JobRepository) Delete(id string) error {
	query := `
		UPDATE jobs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves jobs matching the given criteria, excluding soft-deleted rows
func (r *JobRepository) List(criteria map[string]any) ([]*models.ResolutionJob, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		WHERE deleted_at IS NULL
	`, jobColumns)

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if kind, ok := criteria["source_kind"].(string); ok && kind != "" {
		query += " AND source_kind = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ResolutionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

func scanJob(row rowScanner) (*models.ResolutionJob, error) {
	var (
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
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &sourceKind, &sourceID, &sourceName, &total, &matched, &missed, &transient, &status, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RehydrateJob(id, sequence, sourceKind, sourceID, sourceName, total, matched, missed, transient, status, createdAt, updatedAt, deleted), nil
}
