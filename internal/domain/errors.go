package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the ingestion and query pipelines. Adapters wrap these
// so callers can match with errors.Is.
var (
	// ErrUnsupportedType indicates a file extension with no parser.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrParse indicates a format-specific extraction failure.
	ErrParse = errors.New("parse error")

	// ErrEmptyContent indicates no usable text survived parsing or chunking.
	ErrEmptyContent = errors.New("empty content")

	// ErrEmbedding indicates the embedding backend failed.
	ErrEmbedding = errors.New("embedding error")

	// ErrStore indicates a vector index read or write failure.
	ErrStore = errors.New("store error")

	// ErrLLM indicates the answer generator failed.
	ErrLLM = errors.New("llm error")

	// ErrInvalidConfig indicates settings that can never produce a valid result.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SupportedExtensions lists the file types accepted for ingestion.
var SupportedExtensions = []string{"pdf", "txt", "docx", "csv", "json"}

// Stage names one step of the ingestion state machine.
type Stage string

const (
	StageReceived Stage = "received"
	StageParsed   Stage = "parsed"
	StageChunked  Stage = "chunked"
	StageEmbedded Stage = "embedded"
	StageStored   Stage = "stored"
	StageDone     Stage = "done"
)

// StageError records which transition failed for which document.
type StageError struct {
	Stage  Stage
	Source string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Source, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError builds the error returned for an unknown extension.
func UnsupportedTypeError(ext string) error {
	return fmt.Errorf("%w: .%s. Only PDF, TXT, DOCX, CSV, and JSON allowed", ErrUnsupportedType, ext)
}
