package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"careercompass-backend/internal/extract"
	"careercompass-backend/internal/shared/storage/object"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
}

// Upload saves the file to object storage, extracts its text and records the
// document. Extraction runs up front so later analyses never reparse the file.
func (s *Service) Upload(ctx context.Context, userId, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userId, fileName, r)
	if err != nil {
		return Document{}, err
	}

	text, err := extract.Text(ctx, s.Store, storageKey, mimeType, fileName)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}

	now := time.Now().UTC()
	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userId,
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		Source:           SourceUpload,
		StorageKey:       storageKey,
		ExtractedTextKey: storageKey + ".extracted.txt",
		ExtractedAt:      &now,
		CreatedAt:        now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Paste stores pasted resume text as a document. The stored object is already
// plain text so it doubles as its own extracted copy.
func (s *Service) Paste(ctx context.Context, userId, text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}

	storageKey, size, _, err := s.Store.Save(ctx, userId, "pasted-resume.txt", strings.NewReader(text))
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userId,
		FileName:         "pasted-resume.txt",
		MimeType:         "text/plain",
		SizeBytes:        size,
		Source:           SourcePaste,
		StorageKey:       storageKey,
		ExtractedTextKey: storageKey,
		ExtractedAt:      &now,
		CreatedAt:        now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Current returns the latest document for a user.
func (s *Service) Current(ctx context.Context, userId string) (Document, error) {
	if userId == "" {
		return Document{}, errors.New("user id required")
	}
	return s.Repo.GetCurrentByUser(ctx, userId)
}

// Get returns a document by ID, scoped to the owning user.
func (s *Service) Get(ctx context.Context, userId, documentID string) (Document, error) {
	if userId == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userId, documentID)
}

// List returns documents for a user, newest first.
func (s *Service) List(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if userId == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userId, limit, offset)
}

// ResumeText loads the extracted text for a document.
func (s *Service) ResumeText(ctx context.Context, userId, documentID string) (string, error) {
	doc, err := s.Get(ctx, userId, documentID)
	if err != nil {
		return "", err
	}
	key := doc.ExtractedTextKey
	if key == "" {
		key = doc.StorageKey
	}
	body, err := s.Store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
