package roadmaps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"careercompass-backend/internal/analyses"
	"careercompass-backend/internal/documents"
	"careercompass-backend/internal/llm"
	"careercompass-backend/internal/shared/metrics"
	"careercompass-backend/internal/shared/telemetry"
	"careercompass-backend/internal/skills"
	"careercompass-backend/internal/usage"
)

// Service contains business logic for roadmaps.
type Service struct {
	Repo     Repo
	Analyses *analyses.Service
	Docs     *documents.Service
	Usage    *usage.Service
	LLM      llm.Client
}

// StartOrReuse enqueues a roadmap generation for a job title, or returns an
// existing one for the same title and analysis. When analysisID is set the
// run also computes skill coverage against the analyzed resume.
func (s *Service) StartOrReuse(ctx context.Context, userID, jobTitle, analysisID string) (Roadmap, bool, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if userID == "" || jobTitle == "" {
		return Roadmap{}, false, errors.New("userID and jobTitle are required")
	}

	if analysisID != "" {
		if _, err := s.Analyses.Get(ctx, userID, analysisID); err != nil {
			return Roadmap{}, false, err
		}
	}

	candidate := Roadmap{
		ID:         uuid.NewString(),
		UserID:     userID,
		AnalysisID: analysisID,
		JobTitle:   jobTitle,
		Status:     StatusQueued,
		Provider:   s.LLM.Provider(),
		Model:      s.LLM.Model(),
		CreatedAt:  time.Now().UTC(),
	}

	var allowCreate func() error
	if s.Usage != nil {
		allowCreate = func() error {
			ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
			if err != nil {
				return err
			}
			if !ok {
				return usage.ErrLimitReached
			}
			return nil
		}
	}

	roadmap, created, err := s.Repo.GetOrCreateForJob(ctx, candidate, allowCreate)
	if err != nil {
		return Roadmap{}, false, err
	}
	if created {
		if s.Usage != nil {
			if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
				return Roadmap{}, false, err
			}
		}
		go s.completeAsync(context.Background(), roadmap.UserID, roadmap.ID)
	}
	return roadmap, created, nil
}

// Get returns a roadmap by ID, scoped to the owning user.
func (s *Service) Get(ctx context.Context, userID, roadmapID string) (Roadmap, error) {
	if roadmapID == "" {
		return Roadmap{}, errors.New("roadmapID is required")
	}
	return s.Repo.GetByID(ctx, userID, roadmapID)
}

// List returns roadmaps for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Roadmap, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Exportable returns a completed roadmap, or ErrNotReady while it is still
// being generated.
func (s *Service) Exportable(ctx context.Context, userID, roadmapID string) (Roadmap, error) {
	roadmap, err := s.Get(ctx, userID, roadmapID)
	if err != nil {
		return Roadmap{}, err
	}
	if roadmap.Status != StatusCompleted || roadmap.Result == nil {
		return Roadmap{}, ErrNotReady
	}
	return roadmap, nil
}

func (s *Service) completeAsync(ctx context.Context, userID, roadmapID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failRoadmap(ctx, userID, roadmapID, ErrorCodeInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.Repo.SetProcessing(ctx, roadmapID); err != nil {
		s.failRoadmap(ctx, userID, roadmapID, ErrorCodeStorage, fmt.Errorf("set processing: %w", err))
		return
	}
	metrics.IncRoadmapStarted()

	roadmap, err := s.Repo.GetByID(ctx, userID, roadmapID)
	if err != nil {
		s.failRoadmap(ctx, userID, roadmapID, ErrorCodeStorage, fmt.Errorf("roadmap lookup: %w", err))
		return
	}

	var result Result

	if roadmap.AnalysisID != "" {
		coverage, err := s.skillCoverage(ctx, roadmap)
		if err != nil {
			s.failRoadmap(ctx, userID, roadmapID, classifyLLMFailure(err), fmt.Errorf("skill coverage: %w", err))
			return
		}
		fraction := coverage.Fraction()
		result.RequiredSkills = coverage.Skills
		result.SkillsCovered = coverage.Present
		result.CoveredCount = coverage.Covered
		result.Coverage = &fraction
	}

	start := time.Now()
	text, err := s.LLM.Generate(ctx, llm.RoadmapPrompt(roadmap.JobTitle))
	metrics.ObserveLLMRequestDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.failRoadmap(ctx, userID, roadmapID, classifyLLMFailure(err), fmt.Errorf("llm roadmap: %w", err))
		return
	}
	result.Roadmap = text

	completedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, roadmapID, result, completedAt); err != nil {
		s.failRoadmap(ctx, userID, roadmapID, ErrorCodeStorage, fmt.Errorf("store result: %w", err))
		return
	}
	metrics.IncRoadmapCompleted()
	telemetry.Info("roadmap.status", map[string]any{
		"user_id":           userID,
		"roadmap_id":        roadmapID,
		"analysis_id":       roadmap.AnalysisID,
		"job_title":         roadmap.JobTitle,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
	})
}

// skillCoverage asks the model for the job's required skills and checks each
// one against the analyzed resume text.
func (s *Service) skillCoverage(ctx context.Context, roadmap Roadmap) (skills.Coverage, error) {
	analysis, err := s.Analyses.Get(ctx, roadmap.UserID, roadmap.AnalysisID)
	if err != nil {
		return skills.Coverage{}, fmt.Errorf("analysis lookup: %w", err)
	}
	resumeText, err := s.Docs.ResumeText(ctx, roadmap.UserID, analysis.DocumentID)
	if err != nil {
		return skills.Coverage{}, fmt.Errorf("load resume text: %w", err)
	}

	start := time.Now()
	raw, err := s.LLM.Generate(ctx, llm.RequiredSkillsPrompt(roadmap.JobTitle))
	metrics.ObserveLLMRequestDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return skills.Coverage{}, err
	}
	return skills.Compare(resumeText, skills.ParseList(raw)), nil
}

func (s *Service) failRoadmap(ctx context.Context, userID, roadmapID, code string, cause error) {
	if err := s.Repo.Fail(context.Background(), roadmapID, code, time.Now().UTC()); err != nil {
		telemetry.Error("roadmap.fail_update", map[string]any{
			"roadmap_id": roadmapID,
			"error":      err.Error(),
		})
	}
	metrics.IncRoadmapFailed()
	telemetry.Warn("roadmap.status", map[string]any{
		"user_id":           userID,
		"roadmap_id":        roadmapID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"error":             cause.Error(),
	})
}

func classifyLLMFailure(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrorCodeLLMTimeout
	default:
		return ErrorCodeLLMError
	}
}
