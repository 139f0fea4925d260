package roadmaps

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Roadmap represents one career roadmap generation run for a job title.
// When linked to an analysis, the run also computes which of the job's
// required skills already appear in the resume.
type Roadmap struct {
	ID          string
	UserID      string
	AnalysisID  string
	JobTitle    string
	Status      string
	Provider    string
	Model       string
	Result      *Result
	ErrorCode   string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Result holds the outputs of a completed roadmap run.
type Result struct {
	RequiredSkills []string `json:"requiredSkills,omitempty"`
	SkillsCovered  []bool   `json:"skillsCovered,omitempty"`
	CoveredCount   int      `json:"coveredCount"`
	Coverage       *float64 `json:"coverage,omitempty"`
	Roadmap        string   `json:"roadmap"`
}
