package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates a failed admin login
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransition indicates an action not legal from the current view
	ErrInvalidTransition = errors.New("invalid view transition")
	// ErrAPIKeyRequired indicates an action gated on a language-model API key
	ErrAPIKeyRequired = errors.New("api key required")
	// ErrNoDocument indicates no document is selected
	ErrNoDocument = errors.New("no document selected")
	// ErrNotProcessed indicates the document has no extracted text yet
	ErrNotProcessed = errors.New("document not processed")
	// ErrNoSelectableText indicates a PDF that yields no text (image-only scans)
	ErrNoSelectableText = errors.New("no selectable text")
)

// ExtractionError wraps any failure to turn a stored PDF into text. The
// document stays unprocessed; repeating the process action retries.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract text from PDF: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ProviderError wraps a language-model call failure. It never crosses the
// session boundary as an error; the controller renders it as a chat message.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider request failed: %v", e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }
