package services

import "errors"

// Typed ingestion failures surfaced to upload callers.
var (
	// ErrUnsupportedFormat rejects uploads that are not PDF files.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailure marks a document whose text could not be read.
	ErrExtractionFailure = errors.New("document text extraction failed")
)
