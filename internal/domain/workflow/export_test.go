package workflow

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteCSV_RoundTrip(t *testing.T) {
	records := Collection{
		{"PB C-ASIN": "A1", "notes": "red, large\nsecond line", "price": json.Number("12.5")},
		{"PB C-ASIN": "A2", "quote": `She said "hi"`, "flag": true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, []Record{
		{"PB C-ASIN": "A1", "flag": "", "notes": "red, large\nsecond line", "price": "12.5", "quote": ""},
		{"PB C-ASIN": "A2", "flag": "true", "notes": "", "price": "", "quote": `She said "hi"`},
	}, parsed)
}

func TestWriteCSV_KeyColumnFirst(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Collection{{"z": "1", "a": "2", "PB C-ASIN": "A1"}}))
	require.Equal(t, "PB C-ASIN,a,z\nA1,2,1\n", buf.String())
}
