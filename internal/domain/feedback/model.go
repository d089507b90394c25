package feedback

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Key is the blob holding the feedback log.
const Key = "feedback.json"

// Kind is the reviewer's verdict on a recommendation
type Kind string

const (
	KindPositive Kind = "positive"
	KindNegative Kind = "negative"
)

// Entry is one piece of feedback. Fields the client sends beyond the known
// ones are kept in Extra and written back unchanged.
type Entry struct {
	ID          string
	ASIN        string
	Type        Kind
	Text        string
	Timestamp   string
	SubmittedAt string
	Extra       map[string]any
}

var knownFields = []string{"id", "asin", "type", "text", "timestamp", "submittedAt"}

func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+len(knownFields))
	maps.Copy(out, e.Extra)
	out["id"] = e.ID
	out["asin"] = e.ASIN
	out["type"] = e.Type
	out["text"] = e.Text
	if e.Timestamp != "" {
		out["timestamp"] = e.Timestamp
	}
	out["submittedAt"] = e.SubmittedAt
	return json.Marshal(out)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*e = Entry{
		ID:          stringField(raw, "id"),
		ASIN:        stringField(raw, "asin"),
		Type:        Kind(stringField(raw, "type")),
		Text:        stringField(raw, "text"),
		Timestamp:   stringField(raw, "timestamp"),
		SubmittedAt: stringField(raw, "submittedAt"),
	}
	for _, f := range knownFields {
		delete(raw, f)
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// stringField reads a field that older clients may have sent as a number.
func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
