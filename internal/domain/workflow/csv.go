package workflow

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// CSVReader splits CSV text into rows of fields. Quoted fields may contain
// commas, line breaks and doubled quotes. Blank rows are skipped. A reader
// makes a single pass over its input.
type CSVReader struct {
	r    *bufio.Reader
	done bool
}

// utf8BOM is prepended by spreadsheet "CSV UTF-8" exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewCSVReader returns a reader over r. A leading UTF-8 byte-order mark is
// skipped.
func NewCSVReader(r io.Reader) *CSVReader {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &CSVReader{r: br}
}

// Read returns the next non-blank row. It returns io.EOF when the input is
// exhausted.
func (c *CSVReader) Read() ([]string, error) {
	for {
		row, err := c.readRow()
		if err != nil {
			return nil, err
		}
		if row = strings.TrimSpace(row); row != "" {
			return splitFields(row), nil
		}
	}
}

// ReadAll returns every remaining row.
func (c *CSVReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := c.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// readRow collects raw text up to a line break outside quotes. Quote
// characters are kept so splitFields can see them.
func (c *CSVReader) readRow() (string, error) {
	if c.done {
		return "", io.EOF
	}

	var b strings.Builder
	inQuotes := false
	for {
		ch, _, err := c.r.ReadRune()
		if errors.Is(err, io.EOF) {
			c.done = true
			if b.Len() == 0 {
				return "", io.EOF
			}
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch {
		case ch == '"':
			b.WriteRune(ch)
			if inQuotes && c.skipIf('"') {
				b.WriteRune('"')
				continue
			}
			inQuotes = !inQuotes
		case (ch == '\n' || ch == '\r') && !inQuotes:
			if ch == '\r' {
				c.skipIf('\n')
			}
			return b.String(), nil
		default:
			b.WriteRune(ch)
		}
	}
}

// skipIf consumes the next byte when it equals want.
func (c *CSVReader) skipIf(want byte) bool {
	next, err := c.r.Peek(1)
	if err != nil || next[0] != want {
		return false
	}
	_, _ = c.r.ReadByte()
	return true
}

func splitFields(row string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(row)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	return append(fields, cleanField(cur.String()))
}

// cleanField trims whitespace and one wrapping pair of matching quotes.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
