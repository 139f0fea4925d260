package documents

import "errors"

// ErrNotFound indicates no matching document exists.
var ErrNotFound = errors.New("document not found")

// ErrInvalidInput indicates the caller supplied bad input.
var ErrInvalidInput = errors.New("invalid input")

// ErrEmptyDocument indicates extraction yielded no usable text.
var ErrEmptyDocument = errors.New("document contains no text")
