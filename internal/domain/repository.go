package domain

import "context"

// JobRepository defines persistence for job entities. All mutations must
// leave completed and failed jobs untouched.
type JobRepository interface {
	GetByID(ctx context.Context, jobID string) (*Job, error)
	SetProgress(ctx context.Context, jobID string, status JobStatus, progress int) error
	MarkFailed(ctx context.Context, jobID, message string) error
	MarkCompleted(ctx context.Context, jobID string, headShape HeadShape, results []StyleResult) error
}

// CatalogRepository provides read access to the hairstyle catalog.
type CatalogRepository interface {
	List(ctx context.Context, filter CatalogFilter) ([]CatalogEntry, error)
}
