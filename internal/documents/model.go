package documents

import "time"

// Source values for how a resume entered the system.
const (
	SourceUpload = "upload"
	SourcePaste  = "paste"
)

// Document represents a stored resume owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	Source           string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
