package roadmaps

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

const roadmapColumns = `id, user_id, analysis_id, job_title, status, required_skills, skills_covered, covered_count, coverage, roadmap, error_code, provider, model, created_at, completed_at`

// Create inserts a new roadmap row.
func (r *PGRepo) Create(ctx context.Context, roadmap Roadmap) error {
	const query = `
INSERT INTO roadmaps (id, user_id, analysis_id, job_title, status, provider, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		roadmap.ID,
		roadmap.UserID,
		nullString(roadmap.AnalysisID),
		roadmap.JobTitle,
		roadmap.Status,
		roadmap.Provider,
		roadmap.Model,
		roadmap.CreatedAt,
	)
	return err
}

// GetByID fetches a roadmap scoped to the owning user.
func (r *PGRepo) GetByID(ctx context.Context, userID, roadmapID string) (Roadmap, error) {
	const query = `
SELECT ` + roadmapColumns + `
FROM roadmaps
WHERE user_id = $1 AND id = $2
LIMIT 1`
	roadmap, err := scanRoadmap(r.DB.QueryRowContext(ctx, query, userID, roadmapID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Roadmap{}, ErrNotFound
		}
		return Roadmap{}, err
	}
	return roadmap, nil
}

// GetOrCreateForJob reuses an existing non-failed roadmap for the same job
// title and analysis, or inserts the candidate.
func (r *PGRepo) GetOrCreateForJob(ctx context.Context, candidate Roadmap, allowCreate func() error) (Roadmap, bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Roadmap{}, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const findQuery = `
SELECT ` + roadmapColumns + `
FROM roadmaps
WHERE user_id = $1 AND job_title = $2 AND COALESCE(analysis_id, '') = $3 AND status <> $4
ORDER BY created_at DESC
LIMIT 1`
	existing, err := scanRoadmap(tx.QueryRowContext(ctx, findQuery,
		candidate.UserID, candidate.JobTitle, candidate.AnalysisID, StatusFailed))
	if err == nil {
		if commitErr := tx.Commit(); commitErr != nil {
			return Roadmap{}, false, commitErr
		}
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Roadmap{}, false, err
	}

	if allowCreate != nil {
		if err = allowCreate(); err != nil {
			return Roadmap{}, false, err
		}
	}

	const insertQuery = `
INSERT INTO roadmaps (id, user_id, analysis_id, job_title, status, provider, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = tx.ExecContext(ctx, insertQuery,
		candidate.ID,
		candidate.UserID,
		nullString(candidate.AnalysisID),
		candidate.JobTitle,
		candidate.Status,
		candidate.Provider,
		candidate.Model,
		candidate.CreatedAt,
	); err != nil {
		return Roadmap{}, false, err
	}
	if err = tx.Commit(); err != nil {
		return Roadmap{}, false, err
	}
	return candidate, true, nil
}

// SetProcessing transitions a roadmap to processing.
func (r *PGRepo) SetProcessing(ctx context.Context, roadmapID string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE roadmaps SET status = $1 WHERE id = $2`, StatusProcessing, roadmapID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Complete stores the result payload and marks the roadmap completed.
func (r *PGRepo) Complete(ctx context.Context, roadmapID string, result Result, completedAt time.Time) error {
	skillsJSON, err := json.Marshal(result.RequiredSkills)
	if err != nil {
		return err
	}
	coveredJSON, err := json.Marshal(result.SkillsCovered)
	if err != nil {
		return err
	}

	var coverage sql.NullFloat64
	if result.Coverage != nil {
		coverage = sql.NullFloat64{Float64: *result.Coverage, Valid: true}
	}

	const query = `
UPDATE roadmaps
SET status = $1,
    required_skills = $2,
    skills_covered = $3,
    covered_count = $4,
    coverage = $5,
    roadmap = $6,
    completed_at = $7
WHERE id = $8`
	res, err := r.DB.ExecContext(ctx, query,
		StatusCompleted, skillsJSON, coveredJSON, result.CoveredCount, coverage, result.Roadmap, completedAt, roadmapID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Fail marks the roadmap failed with an error code.
func (r *PGRepo) Fail(ctx context.Context, roadmapID, errorCode string, completedAt time.Time) error {
	const query = `
UPDATE roadmaps
SET status = $1, error_code = $2, completed_at = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, StatusFailed, errorCode, completedAt, roadmapID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListByUser lists roadmaps ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Roadmap, error) {
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
SELECT ` + roadmapColumns + `
FROM roadmaps
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Roadmap
	for rows.Next() {
		roadmap, err := scanRoadmap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, roadmap)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
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

func scanRoadmap(row rowScanner) (Roadmap, error) {
	var roadmap Roadmap
	var analysisID sql.NullString
	var skillsJSON, coveredJSON []byte
	var coveredCount sql.NullInt64
	var coverage sql.NullFloat64
	var text sql.NullString
	var errorCode sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&roadmap.ID,
		&roadmap.UserID,
		&analysisID,
		&roadmap.JobTitle,
		&roadmap.Status,
		&skillsJSON,
		&coveredJSON,
		&coveredCount,
		&coverage,
		&text,
		&errorCode,
		&roadmap.Provider,
		&roadmap.Model,
		&roadmap.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return Roadmap{}, err
	}

	if analysisID.Valid {
		roadmap.AnalysisID = analysisID.String
	}
	if errorCode.Valid {
		roadmap.ErrorCode = errorCode.String
	}
	if completedAt.Valid {
		roadmap.CompletedAt = &completedAt.Time
	}

	if roadmap.Status == StatusCompleted {
		result := Result{
			Roadmap:      text.String,
			CoveredCount: int(coveredCount.Int64),
		}
		if len(skillsJSON) > 0 {
			if err := json.Unmarshal(skillsJSON, &result.RequiredSkills); err != nil {
				return Roadmap{}, err
			}
		}
		if len(coveredJSON) > 0 {
			if err := json.Unmarshal(coveredJSON, &result.SkillsCovered); err != nil {
				return Roadmap{}, err
			}
		}
		if coverage.Valid {
			result.Coverage = &coverage.Float64
		}
		roadmap.Result = &result
	}
	return roadmap, nil
}

var _ Repo = (*PGRepo)(nil)
