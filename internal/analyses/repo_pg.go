package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, document_id, user_id, job_description, status, keywords, recommendations, job_options, match_percent, error_code, provider, model, created_at, completed_at`

// Create inserts a new analysis row.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id,
    document_id,
    user_id,
    job_description,
    status,
    provider,
    model,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.DocumentID,
		analysis.UserID,
		analysis.JobDescription,
		analysis.Status,
		analysis.Provider,
		analysis.Model,
		analysis.CreatedAt,
	)
	return err
}

// GetByID fetches an analysis scoped to the owning user.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1 AND id = $2
LIMIT 1`
	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, userID, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// GetOrCreateForDocument reuses an existing non-failed analysis for the same
// document and job description, or inserts the candidate.
func (r *PGRepo) GetOrCreateForDocument(ctx context.Context, candidate Analysis, allowCreate func() error) (Analysis, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Analysis{}, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const findQuery = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1 AND document_id = $2 AND job_description = $3 AND status <> $4
ORDER BY created_at DESC
LIMIT 1`
	existing, err := scanAnalysis(tx.QueryRowContext(ctx, findQuery,
		candidate.UserID, candidate.DocumentID, candidate.JobDescription, StatusFailed))
	if err == nil {
		if commitErr := tx.Commit(); commitErr != nil {
			return Analysis{}, false, commitErr
		}
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, false, err
	}

	if allowCreate != nil {
		if err = allowCreate(); err != nil {
			return Analysis{}, false, err
		}
	}

	const insertQuery = `
INSERT INTO analyses (id, document_id, user_id, job_description, status, provider, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = tx.ExecContext(ctx, insertQuery,
		candidate.ID,
		candidate.DocumentID,
		candidate.UserID,
		candidate.JobDescription,
		candidate.Status,
		candidate.Provider,
		candidate.Model,
		candidate.CreatedAt,
	); err != nil {
		return Analysis{}, false, err
	}
	if err = tx.Commit(); err != nil {
		return Analysis{}, false, err
	}
	return candidate, true, nil
}

// SetProcessing transitions an analysis to processing.
func (r *PGRepo) SetProcessing(ctx context.Context, analysisID string) error {
	const query = `UPDATE analyses SET status = $1 WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, StatusProcessing, analysisID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Complete stores the result payload and marks the analysis completed.
func (r *PGRepo) Complete(ctx context.Context, analysisID string, result Result, completedAt time.Time) error {
	keywordsJSON, err := json.Marshal(result.Keywords)
	if err != nil {
		return err
	}
	optionsJSON, err := json.Marshal(result.JobOptions)
	if err != nil {
		return err
	}

	var matchPercent sql.NullFloat64
	if result.MatchPercent != nil {
		matchPercent = sql.NullFloat64{Float64: *result.MatchPercent, Valid: true}
	}

	const query = `
UPDATE analyses
SET status = $1,
    keywords = $2,
    recommendations = $3,
    job_options = $4,
    match_percent = $5,
    completed_at = $6
WHERE id = $7`
	res, err := r.DB.ExecContext(ctx, query,
		StatusCompleted, keywordsJSON, result.Recommendations, optionsJSON, matchPercent, completedAt, analysisID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Fail marks the analysis failed with an error code.
func (r *PGRepo) Fail(ctx context.Context, analysisID, errorCode string, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $1, error_code = $2, completed_at = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, StatusFailed, errorCode, completedAt, analysisID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListByUser lists analyses ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var keywordsJSON, optionsJSON []byte
	var recommendations sql.NullString
	var matchPercent sql.NullFloat64
	var errorCode sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&analysis.UserID,
		&analysis.JobDescription,
		&analysis.Status,
		&keywordsJSON,
		&recommendations,
		&optionsJSON,
		&matchPercent,
		&errorCode,
		&analysis.Provider,
		&analysis.Model,
		&analysis.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return Analysis{}, err
	}

	if errorCode.Valid {
		analysis.ErrorCode = errorCode.String
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}

	if analysis.Status == StatusCompleted {
		result := Result{Recommendations: recommendations.String}
		if len(keywordsJSON) > 0 {
			if err := json.Unmarshal(keywordsJSON, &result.Keywords); err != nil {
				return Analysis{}, err
			}
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &result.JobOptions); err != nil {
				return Analysis{}, err
			}
		}
		if matchPercent.Valid {
			result.MatchPercent = &matchPercent.Float64
		}
		analysis.Result = &result
	}
	return analysis, nil
}

var _ Repo = (*PGRepo)(nil)
