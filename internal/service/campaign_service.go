// internal/service/campaign_service.go
package service

import (
    "fmt"
    "strings"

    "github.com/google/uuid"

    "github.com/unclebandit/mailblast-backend/internal/campaign"
    appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
    "github.com/unclebandit/mailblast-backend/internal/events"
    "github.com/unclebandit/mailblast-backend/internal/mailer"
    "github.com/unclebandit/mailblast-backend/internal/model"
)

type CampaignService struct {
    Store  *campaign.Store
    Mailer mailer.Mailer
    Events events.Publisher
}

// StartCampaignRequest carries everything a run needs, fixed at creation.
type StartCampaignRequest struct {
    Recipients  []model.RecipientRow
    EmailColumn string
    Template    model.Template
    Rate        model.RateConfig
}

// StartCampaign validates the request, registers a new campaign and launches
// its runner goroutine. Returns the campaign id. Per-recipient send failures
// later in the run are never surfaced here; only start-time validation is.
func (s *CampaignService) StartCampaign(req StartCampaignRequest) (string, error) {
    if err := s.validate(req); err != nil {
        return "", err
    }

    c := s.Store.Create(req.Recipients, req.EmailColumn, req.Template, req.Rate)
    campaign.NewRunner(c, s.Mailer, s.Events).Start()
    return c.ID, nil
}

func (s *CampaignService) validate(req StartCampaignRequest) error {
    if strings.TrimSpace(req.Template.SenderEmail) == "" {
        return appErrors.NewValidation("sender_email", "sender email is required")
    }
    if strings.TrimSpace(req.Template.Subject) == "" {
        return appErrors.NewValidation("subject", "subject template is required")
    }
    if strings.TrimSpace(req.Template.Body) == "" {
        return appErrors.NewValidation("body", "body template is required")
    }
    if len(req.Recipients) == 0 {
        return appErrors.NewValidation("recipients", "recipient list is empty")
    }
    if strings.TrimSpace(req.EmailColumn) == "" {
        return appErrors.NewValidation("email_column", "email column is required")
    }
    for i, row := range req.Recipients {
        if row.Email(req.EmailColumn) == "" {
            return appErrors.NewValidation("recipients",
                fmt.Sprintf("row %d is missing an email address", i+1))
        }
    }
    return campaign.ValidateRate(req.Rate)
}

// Snapshot returns the current progress of a campaign.
func (s *CampaignService) Snapshot(id string) (model.Snapshot, error) {
    c, err := s.Store.Get(id)
    if err != nil {
        return model.Snapshot{}, err
    }
    return c.Snapshot(), nil
}

// Subscribe attaches a progress listener to a campaign. The channel closes
// after the terminal snapshot is delivered.
func (s *CampaignService) Subscribe(id string) (uuid.UUID, <-chan model.Snapshot, error) {
    c, err := s.Store.Get(id)
    if err != nil {
        return uuid.Nil, nil, err
    }
    subID, ch := c.Events.Subscribe()
    return subID, ch, nil
}

// Unsubscribe detaches a listener registered with Subscribe.
func (s *CampaignService) Unsubscribe(id string, subID uuid.UUID) {
    c, err := s.Store.Get(id)
    if err != nil {
        return
    }
    c.Events.Unsubscribe(subID)
}

// Pause suspends the campaign before its next send.
func (s *CampaignService) Pause(id string) error {
    c, err := s.Store.Get(id)
    if err != nil {
        return err
    }
    if err := c.Pause(); err != nil {
        return err
    }
    c.Events.Publish(c.Snapshot())
    return nil
}

// Resume lifts a pause.
func (s *CampaignService) Resume(id string) error {
    c, err := s.Store.Get(id)
    if err != nil {
        return err
    }
    if err := c.Resume(); err != nil {
        return err
    }
    c.Events.Publish(c.Snapshot())
    return nil
}

// Stop terminates the campaign early. Cooperative: at most one more
// recipient may still be attempted before the runner halts.
func (s *CampaignService) Stop(id string) error {
    c, err := s.Store.Get(id)
    if err != nil {
        return err
    }
    return c.Stop()
}

// ExportLog renders the campaign's audit log as CSV.
func (s *CampaignService) ExportLog(id string) ([]byte, error) {
    c, err := s.Store.Get(id)
    if err != nil {
        return nil, err
    }
    return campaign.ExportCSV(c.LogEntries())
}
