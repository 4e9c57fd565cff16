package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hairworks/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
SELECT id::text, status, progress, COALESCE(error_message, ''),
       COALESCE(pref_gender, ''), COALESCE(pref_length, ''), COALESCE(pref_maintenance, ''),
       COALESCE(upload_s3_key, ''), COALESCE(results_s3_key, ''), COALESCE(head_shape, ''),
       results_json, created_at, updated_at, completed_at
FROM jobs
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, jobID)
	var (
		job        domain.Job
		status     string
		headShape  string
		resultsRaw []byte
	)
	if err := row.Scan(
		&job.ID,
		&status,
		&job.Progress,
		&job.ErrorMessage,
		&job.Preferences.Gender,
		&job.Preferences.Length,
		&job.Preferences.Maintenance,
		&job.UploadKey,
		&job.ResultsKey,
		&headShape,
		&resultsRaw,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	job.HeadShape = domain.HeadShape(headShape)
	if len(resultsRaw) > 0 {
		var doc domain.ResultDocument
		if err := json.Unmarshal(resultsRaw, &doc); err != nil {
			return nil, fmt.Errorf("decode results document: %w", err)
		}
		job.Results = doc.Styles
	}
	return &job, nil
}

// SetProgress writes a checkpoint. The guard keeps terminal jobs immutable in
// case the API layer raced this worker.
func (r *JobRepositoryPG) SetProgress(ctx context.Context, jobID string, status domain.JobStatus, progress int) error {
	query := `
UPDATE jobs
SET status = $2, progress = $3, updated_at = NOW()
WHERE id = $1 AND status NOT IN ('completed', 'failed');
`
	tag, err := r.pool.Exec(ctx, query, jobID, status, progress)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobTerminal
	}
	return nil
}

// MarkFailed records the failure message, leaving progress at its last checkpoint.
func (r *JobRepositoryPG) MarkFailed(ctx context.Context, jobID, message string) error {
	query := `
UPDATE jobs
SET status = 'failed', error_message = $2, updated_at = NOW()
WHERE id = $1 AND status NOT IN ('completed', 'failed');
`
	_, err := r.pool.Exec(ctx, query, jobID, message)
	return err
}

// MarkCompleted writes the terminal success state in a single statement so
// progress=100, head shape and results become visible atomically.
func (r *JobRepositoryPG) MarkCompleted(ctx context.Context, jobID string, headShape domain.HeadShape, results []domain.StyleResult) error {
	doc := domain.ResultDocument{Version: domain.ResultVersion, Styles: results}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode results document: %w", err)
	}
	query := `
UPDATE jobs
SET status = 'completed', progress = 100, head_shape = $2, results_json = $3,
    completed_at = NOW(), updated_at = NOW()
WHERE id = $1 AND status NOT IN ('completed', 'failed');
`
	tag, err := r.pool.Exec(ctx, query, jobID, headShape, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrJobTerminal
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
