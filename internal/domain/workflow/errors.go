package workflow

import "errors"

var (
	// ErrMissingFile is returned when an upload carries no file
	ErrMissingFile = errors.New("no file provided")

	// ErrUnsupportedFileType is returned for uploads that are neither CSV nor JSON
	ErrUnsupportedFileType = errors.New("unsupported file type, upload CSV or JSON")

	// ErrInvalidCSV is returned when a CSV has no header or no data rows
	ErrInvalidCSV = errors.New("CSV file is empty or invalid")

	// ErrInvalidJSON is returned when a JSON payload can't be decoded
	ErrInvalidJSON = errors.New("invalid JSON payload")
)
