// internal/csvsource/csvsource.go
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// ReadRecipients parses a CSV document into ordered recipient rows keyed by
// the header names. The header must contain at least one email-ish column
// (name containing "email", case-insensitive); the first such column is
// returned as the default email column.
func ReadRecipients(r io.Reader) (rows []model.RecipientRow, headers []string, emailColumn string, err error) {
	reader := csv.NewReader(r)
	// ragged rows are tolerated: short rows leave trailing columns empty
	reader.FieldsPerRecord = -1
	headers, err = reader.Read()
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read CSV header: %w", err)
	}

	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), "email") {
			emailColumn = h
			break
		}
	}
	if emailColumn == "" {
		return nil, nil, "", fmt.Errorf("CSV must contain an 'email' column")
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		row := make(model.RecipientRow, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, headers, emailColumn, nil
}
