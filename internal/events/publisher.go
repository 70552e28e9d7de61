// internal/events/publisher.go
package events

import "github.com/unclebandit/mailblast-backend/internal/model"

// Publisher mirrors campaign activity onto an external bus for downstream
// consumers (dashboards, archival). Publishing is best-effort: the runner
// logs failures and keeps sending.
type Publisher interface {
	LogEntryCreated(entry model.LogEntry) error
	StatusChanged(campaignID, status string) error
	Close() error
}

// Noop is used when no bus is configured.
type Noop struct{}

func (Noop) LogEntryCreated(model.LogEntry) error { return nil }
func (Noop) StatusChanged(string, string) error   { return nil }
func (Noop) Close() error                         { return nil }
