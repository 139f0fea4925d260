package roadmaps

import (
	"context"
	"time"
)

// Repo defines persistence operations for roadmaps.
type Repo interface {
	Create(ctx context.Context, roadmap Roadmap) error
	GetByID(ctx context.Context, userID, roadmapID string) (Roadmap, error)
	// GetOrCreateForJob returns an existing non-failed roadmap for the same
	// job title and analysis, or stores the candidate. The bool reports
	// whether the candidate was created.
	GetOrCreateForJob(ctx context.Context, candidate Roadmap, allowCreate func() error) (Roadmap, bool, error)
	SetProcessing(ctx context.Context, roadmapID string) error
	Complete(ctx context.Context, roadmapID string, result Result, completedAt time.Time) error
	Fail(ctx context.Context, roadmapID, errorCode string, completedAt time.Time) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Roadmap, error)
}
