package analyses

import "errors"

var ErrNotFound = errors.New("analysis not found")

const (
	ErrorCodeEmptyResume = "EMPTY_RESUME"
	ErrorCodeLLMTimeout  = "LLM_TIMEOUT"
	ErrorCodeLLMError    = "LLM_ERROR"
	ErrorCodeStorage     = "STORAGE_ERROR"
	ErrorCodeInternal    = "INTERNAL_ERROR"
)
