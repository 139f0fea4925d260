package roadmaps

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores roadmaps in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Roadmap
	byUser map[string][]Roadmap
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Roadmap),
		byUser: make(map[string][]Roadmap),
	}
}

// Create stores the roadmap.
func (r *MemoryRepo) Create(ctx context.Context, roadmap Roadmap) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(roadmap)
	return nil
}

func (r *MemoryRepo) store(roadmap Roadmap) {
	r.byID[roadmap.ID] = roadmap
	r.byUser[roadmap.UserID] = append(r.byUser[roadmap.UserID], roadmap)
}

// GetByID returns a roadmap scoped to the owning user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, roadmapID string) (Roadmap, error) {
	if err := ctx.Err(); err != nil {
		return Roadmap{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	roadmap, ok := r.byID[roadmapID]
	if !ok || roadmap.UserID != userID {
		return Roadmap{}, ErrNotFound
	}
	return roadmap, nil
}

// GetOrCreateForJob reuses an existing non-failed roadmap for the same job
// title and analysis, or stores the candidate.
func (r *MemoryRepo) GetOrCreateForJob(ctx context.Context, candidate Roadmap, allowCreate func() error) (Roadmap, bool, error) {
	if err := ctx.Err(); err != nil {
		return Roadmap{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byUser[candidate.UserID] {
		if existing.JobTitle == candidate.JobTitle &&
			existing.AnalysisID == candidate.AnalysisID &&
			existing.Status != StatusFailed {
			return existing, false, nil
		}
	}

	if allowCreate != nil {
		if err := allowCreate(); err != nil {
			return Roadmap{}, false, err
		}
	}
	r.store(candidate)
	return candidate, true, nil
}

// SetProcessing transitions a roadmap to processing.
func (r *MemoryRepo) SetProcessing(ctx context.Context, roadmapID string) error {
	return r.update(ctx, roadmapID, func(rm *Roadmap) {
		rm.Status = StatusProcessing
	})
}

// Complete stores the result and marks the roadmap completed.
func (r *MemoryRepo) Complete(ctx context.Context, roadmapID string, result Result, completedAt time.Time) error {
	return r.update(ctx, roadmapID, func(rm *Roadmap) {
		rm.Status = StatusCompleted
		rm.Result = &result
		rm.CompletedAt = &completedAt
	})
}

// Fail marks the roadmap failed with an error code.
func (r *MemoryRepo) Fail(ctx context.Context, roadmapID, errorCode string, completedAt time.Time) error {
	return r.update(ctx, roadmapID, func(rm *Roadmap) {
		rm.Status = StatusFailed
		rm.ErrorCode = errorCode
		rm.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, roadmapID string, fn func(*Roadmap)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	roadmap, ok := r.byID[roadmapID]
	if !ok {
		return ErrNotFound
	}
	fn(&roadmap)
	r.byID[roadmapID] = roadmap

	userRoadmaps := r.byUser[roadmap.UserID]
	for i := range userRoadmaps {
		if userRoadmaps[i].ID == roadmapID {
			userRoadmaps[i] = roadmap
			break
		}
	}
	return nil
}

// ListByUser returns roadmaps for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Roadmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	userRoadmaps := r.byUser[userID]
	r.mu.RUnlock()

	if len(userRoadmaps) == 0 || offset >= len(userRoadmaps) {
		return []Roadmap{}, nil
	}

	roadmaps := make([]Roadmap, len(userRoadmaps))
	copy(roadmaps, userRoadmaps)
	sort.Slice(roadmaps, func(i, j int) bool {
		return roadmaps[i].CreatedAt.After(roadmaps[j].CreatedAt)
	})

	end := len(roadmaps)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return roadmaps[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
