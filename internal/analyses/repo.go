package analyses

import (
	"context"
	"time"
)

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, userID, analysisID string) (Analysis, error)
	// GetOrCreateForDocument returns an existing non-failed analysis for the
	// same document and job description, or stores the candidate. The bool
	// reports whether the candidate was created.
	GetOrCreateForDocument(ctx context.Context, candidate Analysis, allowCreate func() error) (Analysis, bool, error)
	SetProcessing(ctx context.Context, analysisID string) error
	Complete(ctx context.Context, analysisID string, result Result, completedAt time.Time) error
	Fail(ctx context.Context, analysisID, errorCode string, completedAt time.Time) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
}
