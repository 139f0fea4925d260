package roadmaps

import "errors"

var ErrNotFound = errors.New("roadmap not found")

// ErrNotReady indicates the roadmap has not completed yet.
var ErrNotReady = errors.New("roadmap not ready")

const (
	ErrorCodeLLMTimeout = "LLM_TIMEOUT"
	ErrorCodeLLMError   = "LLM_ERROR"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)
