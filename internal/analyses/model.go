package analyses

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis represents one resume analysis run: keyword extraction plus
// model-generated job recommendations, and a match score when a job
// description was supplied.
type Analysis struct {
	ID             string
	DocumentID     string
	UserID         string
	JobDescription string
	Status         string
	Provider       string
	Model          string
	Result         *Result
	ErrorCode      string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// Result holds the outputs of a completed analysis.
type Result struct {
	Keywords        []string `json:"keywords"`
	Recommendations string   `json:"recommendations"`
	JobOptions      []string `json:"jobOptions"`
	MatchPercent    *float64 `json:"matchPercent,omitempty"`
}
