package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
)

// ResolutionRepository implements models.Repository[*models.PersistedResolution].
//
// Stores the audit trail of successful resolutions. The descriptor key is
// unique, so one logical track keeps a single row across runs.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a new [models.PersistedResolution] with generated ID and sequence
func (r *ResolutionRepository) Create(res *models.PersistedResolution) error {
	sequence, err := NextSequence(r.db, "resolutions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	res.SetID(shared.GenerateID())
	res.SetSequence(sequence)

	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO resolutions (id, sequence, descriptor_key, track_name, artist, album, duration, locator, strategy, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		res.ID(),
		res.Sequence(),
		res.DescriptorKey(),
		res.TrackName(),
		res.Artist(),
		res.Album(),
		res.Duration(),
		res.Locator(),
		res.Strategy(),
		res.Score(),
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

const resolutionColumns = "id, sequence, descriptor_key, track_name, artist, album, duration, locator, strategy, score, created_at, updated_at, deleted_at"

// Get retrieves a resolution by ID, excluding soft-deleted rows
func (r *ResolutionRepository) Get(id string) (*models.PersistedResolution, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM resolutions
		WHERE id = ? AND deleted_at IS NULL
	`, resolutionColumns)

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByKey retrieves a resolution by descriptor key. Lets callers answer
// "was this track already resolved?" across runs.
func (r *ResolutionRepository) GetByKey(key string) (*models.PersistedResolution, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM resolutions
		WHERE descriptor_key = ? AND deleted_at IS NULL
	`, resolutionColumns)

	return r.scanOne(r.db.QueryRow(query, key))
}

// Update modifies an existing resolution row
func (r *ResolutionRepository) Update(res *models.PersistedResolution) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	res.SetUpdatedAt(now)

	query := `
		UPDATE resolutions
		SET track_name = ?, artist = ?, album = ?, duration = ?, locator = ?, strategy = ?, score = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		res.TrackName(),
		res.Artist(),
		res.Album(),
		res.Duration(),
		res.Locator(),
		res.Strategy(),
		res.Score(),
		now,
		res.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found or already deleted: %s", res.ID())
	}

	return nil
}

// Delete soft-deletes a resolution by ID
func (r *ResolutionRepository) Delete(id string) error {
	query := `
		UPDATE resolutions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found or already deleted: %s", id)
	}

	return nil
}

// DeleteAll soft-deletes every resolution and returns the affected count.
// Backs the `cache clear` command.
func (r *ResolutionRepository) DeleteAll() (int, error) {
	result, err := r.db.Exec(`UPDATE resolutions SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear resolutions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// List retrieves resolutions matching the given criteria, excluding soft-deleted rows
func (r *ResolutionRepository) List(criteria map[string]any) ([]*models.PersistedResolution, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM resolutions
		WHERE deleted_at IS NULL
	`, resolutionColumns)

	args := []any{}

	if strategy, ok := criteria["strategy"].(string); ok && strategy != "" {
		query += " AND strategy = ?"
		args = append(args, strategy)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.PersistedResolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return resolutions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ResolutionRepository) scanOne(row *sql.Row) (*models.PersistedResolution, error) {
	res, err := scanResolution(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolution not found")
	}
	return res, err
}

func scanResolution(row rowScanner) (*models.PersistedResolution, error) {
	var (
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
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &descriptorKey, &trackName, &artist, &album, &duration, &locator, &strategy, &score, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RehydrateResolution(id, sequence, descriptorKey, trackName, artist, album, duration, locator, strategy, score, createdAt, updatedAt, deleted), nil
}
