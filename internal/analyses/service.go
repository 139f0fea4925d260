package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"careercompass-backend/internal/documents"
	"careercompass-backend/internal/keywords"
	"careercompass-backend/internal/llm"
	"careercompass-backend/internal/shared/metrics"
	"careercompass-backend/internal/shared/telemetry"
	"careercompass-backend/internal/usage"
)

// Service contains business logic for analyses.
type Service struct {
	Repo  Repo
	Docs  *documents.Service
	Usage *usage.Service
	LLM   llm.Client
}

// StartOrReuse enqueues a new analysis for a document or returns an existing
// one for the same document and job description, so repeated requests do not
// recompute or re-bill already-fetched results.
func (s *Service) StartOrReuse(ctx context.Context, userID, documentID, jobDescription string) (Analysis, bool, error) {
	if documentID == "" || userID == "" {
		return Analysis{}, false, errors.New("documentID and userID are required")
	}

	candidate := Analysis{
		ID:             uuid.NewString(),
		DocumentID:     documentID,
		UserID:         userID,
		JobDescription: strings.TrimSpace(jobDescription),
		Status:         StatusQueued,
		Provider:       s.LLM.Provider(),
		Model:          s.LLM.Model(),
		CreatedAt:      time.Now().UTC(),
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

	analysis, created, err := s.Repo.GetOrCreateForDocument(ctx, candidate, allowCreate)
	if err != nil {
		return Analysis{}, false, err
	}
	if created {
		if s.Usage != nil {
			if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
				return Analysis{}, false, err
			}
		}
		go s.completeAsync(backgroundWithRequestID(ctx), analysis.UserID, analysis.ID)
	}
	return analysis, created, nil
}

// Get returns an analysis by ID, scoped to the owning user.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) completeAsync(ctx context.Context, userID, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, userID, analysisID, ErrorCodeInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := s.Repo.SetProcessing(ctx, analysisID); err != nil {
		s.failAnalysis(ctx, userID, analysisID, ErrorCodeStorage, fmt.Errorf("set processing: %w", err))
		return
	}
	metrics.IncAnalysisStarted()

	analysis, err := s.Repo.GetByID(ctx, userID, analysisID)
	if err != nil {
		s.failAnalysis(ctx, userID, analysisID, ErrorCodeStorage, fmt.Errorf("analysis lookup: %w", err))
		return
	}

	resumeText, err := s.Docs.ResumeText(ctx, analysis.UserID, analysis.DocumentID)
	if err != nil {
		s.failAnalysis(ctx, userID, analysisID, ErrorCodeStorage, fmt.Errorf("load resume text: %w", err))
		return
	}

	extracted := keywords.Extract(resumeText)
	if len(extracted) == 0 {
		s.failAnalysis(ctx, userID, analysisID, ErrorCodeEmptyResume, errors.New("no keywords in resume"))
		return
	}

	result := Result{Keywords: extracted}

	var prompt string
	if analysis.JobDescription != "" {
		matched, percent := keywords.Match(resumeText, analysis.JobDescription)
		result.MatchPercent = &percent
		prompt = llm.RecommendFromKeywordsPrompt(matched)
	} else {
		prompt = llm.RecommendFromResumePrompt(resumeText)
	}

	start := time.Now()
	recommendations, err := s.LLM.Generate(ctx, prompt)
	metrics.ObserveLLMRequestDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.failAnalysis(ctx, userID, analysisID, classifyLLMFailure(err), fmt.Errorf("llm recommend: %w", err))
		return
	}
	result.Recommendations = recommendations
	result.JobOptions = parseJobOptions(recommendations)

	completedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, analysisID, result, completedAt); err != nil {
		s.failAnalysis(ctx, userID, analysisID, ErrorCodeStorage, fmt.Errorf("store result: %w", err))
		return
	}
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"document_id":       analysis.DocumentID,
		"analysis_id":       analysisID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"match_scored":      result.MatchPercent != nil,
	})
}

func (s *Service) failAnalysis(ctx context.Context, userID, analysisID, code string, cause error) {
	if err := s.Repo.Fail(context.Background(), analysisID, code, time.Now().UTC()); err != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"analysis_id": analysisID,
			"error":       err.Error(),
		})
	}
	metrics.IncAnalysisFailed()
	telemetry.Warn("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"analysis_id":       analysisID,
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
