// internal/model/log_entry.go
package model

import "time"

// Log entry status values. A FAILED entry records a per-recipient send
// failure; it never aborts the campaign.
const (
    LogStatusSuccess = "SUCCESS"
    LogStatusFailed  = "FAILED"
)

// LogEntry is the audit record for one attempted send. Immutable once
// appended. Timestamp is the creation time of the attempt record, not the
// moment the relay accepted the message.
type LogEntry struct {
    CampaignID     string    `json:"campaign_id"`
    Timestamp      time.Time `json:"timestamp"`
    RowNumber      int       `json:"row_number"` // 1-based position in the recipient list
    RecipientEmail string    `json:"recipient_email"`
    Subject        string    `json:"subject"` // rendered, not the template
    Status         string    `json:"status"`
    ErrorMessage   string    `json:"error_message"`
    SenderEmail    string    `json:"sender_email"`
    SenderName     string    `json:"sender_name"`
}
