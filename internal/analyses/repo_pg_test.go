package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	analysis := Analysis{
		ID:             "analysis-1",
		DocumentID:     "doc-1",
		UserID:         "guest:abc",
		JobDescription: "python sql",
		Status:         StatusQueued,
		Provider:       "gemini",
		Model:          "gemini-2.5-flash",
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.DocumentID,
			analysis.UserID,
			analysis.JobDescription,
			analysis.Status,
			analysis.Provider,
			analysis.Model,
			analysis.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoComplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	percent := 50.0
	completedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE analyses").
		WithArgs(
			StatusCompleted,
			sqlmock.AnyArg(), // keywords json
			"- Data Engineer",
			sqlmock.AnyArg(), // job options json
			percent,
			completedAt,
			"analysis-1",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := Result{
		Keywords:        []string{"python", "sql"},
		Recommendations: "- Data Engineer",
		JobOptions:      []string{"Data Engineer"},
		MatchPercent:    &percent,
	}
	if err := repo.Complete(context.Background(), "analysis-1", result, completedAt); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFailMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE analyses").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Fail(context.Background(), "missing", ErrorCodeInternal, time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
