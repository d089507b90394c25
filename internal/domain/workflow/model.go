package workflow

import (
	"encoding/json"
	"maps"
	"strings"
	"time"
)

// DataKey is the blob holding the stored collection.
const DataKey = "workflow-data.json"

// IdentityKey is the field records are deduplicated by.
const IdentityKey = "PB C-ASIN"

// Bookkeeping fields written on every merged record.
const (
	FieldTimestamp   = "_timestamp"
	FieldLastUpdated = "_lastUpdated"
	FieldSource      = "_source"
)

// TimestampLayout matches ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Source tells where a record came from.
type Source string

const (
	SourceManualUpload Source = "manual_upload"
	SourcePipeline     Source = "pipeline"
)

// Record is one product's workflow state. Field names come from whatever
// produced the record; values keep their JSON types.
type Record map[string]any

// Collection is the ordered, deduplicated set of stored records.
type Collection []Record

// Key returns the record's identity key. A key is present when the field is
// a non-blank string or a number.
func Key(rec Record) (string, bool) {
	switch v := rec[IdentityKey].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return formatFloat(v), true
	default:
		return "", false
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r)+3)
	maps.Copy(out, r)
	return out
}

// String returns the field rendered as text, or "" when absent.
func (r Record) String(field string) string {
	return valueString(r[field])
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
