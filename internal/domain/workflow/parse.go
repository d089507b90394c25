package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// FileType is an accepted upload format.
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeJSON FileType = "json"
)

// DetectFileType picks the format from the file name's extension.
func DetectFileType(filename string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".json":
		return FileTypeJSON, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// ParseCSV reads a header row and at least one data row into records.
// Values are matched to headers by position; missing trailing values are
// empty strings and surplus values are ignored. Records without an identity
// key are dropped.
func ParseCSV(r io.Reader) ([]Record, error) {
	reader := NewCSVReader(r)

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrInvalidCSV
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var (
		records []Record
		rows    int
	)
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", rows+2, err)
		}
		rows++

		rec := make(Record, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			rec[header] = value
		}
		if _, ok := Key(rec); ok {
			records = append(records, rec)
		}
	}

	if rows == 0 {
		return nil, ErrInvalidCSV
	}
	return records, nil
}

// ParseJSON decodes an uploaded JSON file. A single object is treated as a
// one-element array.
func ParseJSON(data []byte) ([]Record, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return toRecords(v), nil
}

// DecodePayload decodes a submitted batch. An object with a "data" member
// is unwrapped first; the result is then handled like ParseJSON.
func DecodePayload(data []byte) ([]Record, error) {
	v, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	if obj, ok := v.(map[string]any); ok {
		if inner, ok := obj["data"]; ok {
			v = inner
		}
	}
	return toRecords(v), nil
}

// ParseUpload dispatches on the file name.
func ParseUpload(filename string, r io.Reader) ([]Record, error) {
	fileType, err := DetectFileType(filename)
	if err != nil {
		return nil, err
	}
	switch fileType {
	case FileTypeCSV:
		return ParseCSV(r)
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading upload: %w", err)
		}
		return ParseJSON(data)
	}
}

func decodeJSON(data []byte) (any, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrInvalidJSON)
	}
	return v, nil
}

// toRecords keeps only object elements that carry an identity key.
func toRecords(v any) []Record {
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := Record(obj)
		if _, ok := Key(rec); ok {
			records = append(records, rec)
		}
	}
	return records
}
