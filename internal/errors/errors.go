// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error for unknown campaign ids.
type ErrCampaignNotFound struct {
    CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCampaignTerminal is returned by control actions (pause/resume/stop) on a
// campaign that already reached a terminal status.
type ErrCampaignTerminal struct {
    CampaignID string
    Status     string
}

func (e *ErrCampaignTerminal) Error() string {
    return fmt.Sprintf("campaign %s already %s", e.CampaignID, e.Status)
}

func NewCampaignTerminal(id, status string) error {
    return &ErrCampaignTerminal{CampaignID: id, Status: status}
}

// ValidationError rejects a campaign before it starts: bad rate config,
// missing sender, or a recipient row without an email address.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
    return &ValidationError{Field: field, Reason: reason}
}
