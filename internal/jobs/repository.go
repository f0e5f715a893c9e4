package jobs

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"imagequest/internal/database"
	"imagequest/internal/models"
)

// Repository handles database operations for generation jobs
type Repository struct {
	db *database.DB
}

// NewRepository creates a new job repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateJob records a pending job with one pending item per prompt and
// returns it. Item indices are 1-based, matching generated filenames.
func (r *Repository) CreateJob(characterID, total int) (*models.GenerationJob, error) {
	job := &models.GenerationJob{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Status:      models.JobPending,
		Total:       total,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	query := "INSERT INTO generation_jobs (id, character_id, status, total, completed, failed) VALUES (?, ?, ?, ?, 0, 0)"
	if _, err := r.db.Exec(query, job.ID, job.CharacterID, job.Status, job.Total); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	for idx := 1; idx <= total; idx++ {
		itemQuery := "INSERT INTO generation_items (job_id, idx, status, filename, error) VALUES (?, ?, ?, '', '')"
		if _, err := r.db.Exec(itemQuery, job.ID, idx, models.ItemPending); err != nil {
			return nil, fmt.Errorf("failed to create job item %d: %w", idx, err)
		}
	}

	return job, nil
}

// SetStatus updates a job's status.
func (r *Repository) SetStatus(jobID, status string) error {
	query := "UPDATE generation_jobs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, status, jobID); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

// MarkItemDone records a finished item and bumps the job's completed count.
func (r *Repository) MarkItemDone(jobID string, idx int, filename string) error {
	query := "UPDATE generation_items SET status = ?, filename = ? WHERE job_id = ? AND idx = ?"
	if _, err := r.db.Exec(query, models.ItemDone, filename, jobID, idx); err != nil {
		return fmt.Errorf("failed to update job item: %w", err)
	}

	query = "UPDATE generation_jobs SET completed = completed + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, jobID); err != nil {
		return fmt.Errorf("failed to update job counters: %w", err)
	}
	return nil
}

// MarkItemFailed records a failed item and bumps the job's failed count.
func (r *Repository) MarkItemFailed(jobID string, idx int, cause string) error {
	query := "UPDATE generation_items SET status = ?, error = ? WHERE job_id = ? AND idx = ?"
	if _, err := r.db.Exec(query, models.ItemFailed, cause, jobID, idx); err != nil {
		return fmt.Errorf("failed to update job item: %w", err)
	}

	query = "UPDATE generation_jobs SET failed = failed + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, jobID); err != nil {
		return fmt.Errorf("failed to update job counters: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID, or nil if absent.
func (r *Repository) GetJob(jobID string) (*models.GenerationJob, error) {
	query := "SELECT id, character_id, status, total, completed, failed, created_at, updated_at FROM generation_jobs WHERE id = ?"
	job := &models.GenerationJob{}
	err := r.db.QueryRow(query, jobID).Scan(
		&job.ID,
		&job.CharacterID,
		&job.Status,
		&job.Total,
		&job.Completed,
		&job.Failed,
		&job.CreatedAt,
		&job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// GetJobItems retrieves a job's items in index order.
func (r *Repository) GetJobItems(jobID string) ([]models.GenerationItem, error) {
	query := "SELECT job_id, idx, status, filename, error FROM generation_items WHERE job_id = ? ORDER BY idx ASC"
	rows, err := r.db.Query(query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query job items: %w", err)
	}
	defer rows.Close()

	var items []models.GenerationItem
	for rows.Next() {
		var item models.GenerationItem
		if err := rows.Scan(&item.JobID, &item.Index, &item.Status, &item.Filename, &item.Error); err != nil {
			return nil, fmt.Errorf("failed to scan job item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetCharacterJobs retrieves all jobs for a character, newest first.
func (r *Repository) GetCharacterJobs(characterID int) ([]models.GenerationJob, error) {
	query := `
		SELECT id, character_id, status, total, completed, failed, created_at, updated_at
		FROM generation_jobs
		WHERE character_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, characterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var list []models.GenerationJob
	for rows.Next() {
		var job models.GenerationJob
		if err := rows.Scan(
			&job.ID,
			&job.CharacterID,
			&job.Status,
			&job.Total,
			&job.Completed,
			&job.Failed,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		list = append(list, job)
	}
	return list, rows.Err()
}

// DeleteCharacterJobs removes all jobs (and their items) for a character.
func (r *Repository) DeleteCharacterJobs(characterID int) error {
	jobsForChar, err := r.GetCharacterJobs(characterID)
	if err != nil {
		return err
	}
	for _, job := range jobsForChar {
		if _, err := r.db.Exec("DELETE FROM generation_items WHERE job_id = ?", job.ID); err != nil {
			return fmt.Errorf("failed to delete job items: %w", err)
		}
	}
	if _, err := r.db.Exec("DELETE FROM generation_jobs WHERE character_id = ?", characterID); err != nil {
		return fmt.Errorf("failed to delete jobs: %w", err)
	}
	return nil
}
