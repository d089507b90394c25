package workflow

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
)

// WriteCSV writes records with IdentityKey as the first column followed by
// every other field name in sorted order.
func WriteCSV(w io.Writer, records Collection) error {
	headers := csvHeaders(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			row[i] = rec.String(h)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvHeaders(records Collection) []string {
	seen := map[string]bool{IdentityKey: true}
	var rest []string
	for _, rec := range records {
		for field := range rec {
			if !seen[field] {
				seen[field] = true
				rest = append(rest, field)
			}
		}
	}
	slices.Sort(rest)
	return append([]string{IdentityKey}, rest...)
}
