// internal/model/campaign.go
package model

import "time"

// Campaign status values. pending -> running -> {paused <-> running} ->
// {completed, stopped, failed}. Terminal statuses are reached exactly once.
const (
    StatusPending   = "pending"
    StatusRunning   = "running"
    StatusPaused    = "paused"
    StatusStopped   = "stopped"
    StatusCompleted = "completed"
    StatusFailed    = "failed"
)

// IsTerminal reports whether a campaign in this status will never change again.
func IsTerminal(status string) bool {
    return status == StatusStopped || status == StatusCompleted || status == StatusFailed
}

// Template is the message content for one campaign run. Subject and Body may
// contain {column} placeholders resolved against each recipient row.
type Template struct {
    Subject     string `json:"subject"`
    Body        string `json:"body"`
    SenderName  string `json:"sender_name"`
    SenderEmail string `json:"sender_email"`
}

// RateConfig controls send pacing: a delay after every email plus a longer
// breather after each batch of BatchSize sends.
type RateConfig struct {
    PerEmailDelay time.Duration `json:"per_email_delay"`
    BatchSize     int           `json:"batch_size"`
    BatchDelay    time.Duration `json:"batch_delay"`
}

// Snapshot is the point-in-time view handed to progress subscribers and
// returned by the snapshot endpoint.
type Snapshot struct {
    CampaignID     string   `json:"campaign_id"`
    Status         string   `json:"status"`
    Sent           int      `json:"sent"`
    Succeeded      int      `json:"succeeded"`
    Failed         int      `json:"failed"`
    Total          int      `json:"total"`
    CurrentEmail   string   `json:"current_email,omitempty"`
    RecentActivity []string `json:"recent_activity"`
    Error          string   `json:"error,omitempty"`
}
