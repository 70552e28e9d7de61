// internal/campaign/export.go
package campaign

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// exportHeader is the audit log column order; stable because downstream
// spreadsheets depend on it.
var exportHeader = []string{
	"campaign_id", "timestamp", "row_number", "recipient_email",
	"subject", "status", "error_message", "sender_email", "sender_name",
}

// ExportCSV renders the campaign's log entries as a CSV document. encoding/csv
// handles quoting of commas, quotes and newlines in subjects and error text.
// Works mid-run as well as after a terminal status; mid-run it exports the
// attempts made so far.
func ExportCSV(entries []model.LogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			e.CampaignID,
			e.Timestamp.Format(time.RFC3339),
			strconv.Itoa(e.RowNumber),
			e.RecipientEmail,
			e.Subject,
			e.Status,
			e.ErrorMessage,
			e.SenderEmail,
			e.SenderName,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
