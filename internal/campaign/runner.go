// internal/campaign/runner.go
package campaign

import (
	"fmt"
	"log"
	"time"

	"github.com/unclebandit/mailblast-backend/internal/events"
	"github.com/unclebandit/mailblast-backend/internal/mailer"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/observability"
	"github.com/unclebandit/mailblast-backend/internal/render"
)

// Runner drives the send loop for one campaign on its own goroutine. Sends
// are strictly sequential; pause/stop are observed at the loop checkpoints,
// never mid-send, so a stop can lag by one in-flight send plus one
// rate-limit wait.
type Runner struct {
	Campaign *Campaign
	Mailer   mailer.Mailer
	Events   events.Publisher

	// Sleep is injectable for tests; the default select also wakes on stop
	// so a requested stop does not sit out a full batch delay.
	Sleep func(d time.Duration, cancel <-chan struct{})
}

func NewRunner(c *Campaign, m mailer.Mailer, ev events.Publisher) *Runner {
	if ev == nil {
		ev = events.Noop{}
	}
	return &Runner{
		Campaign: c,
		Mailer:   m,
		Events:   ev,
		Sleep:    sleepOrCancel,
	}
}

func sleepOrCancel(d time.Duration, cancel <-chan struct{}) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-cancel:
	}
}

// Start launches the loop in the background.
func (r *Runner) Start() {
	go r.Run()
}

// Run executes the whole campaign. Exported (rather than only Start) so
// tests can drive it synchronously.
func (r *Runner) Run() {
	c := r.Campaign

	// Preflight: if the relay is not reachable at all, the whole run fails
	// before any recipient is attempted. Distinct from per-recipient errors.
	if err := r.Mailer.Ping(); err != nil {
		log.Printf("❌ campaign %s aborted: %v", c.ID, err)
		r.terminate(model.StatusFailed, err.Error())
		return
	}

	c.markRunning()
	r.publishProgress()
	r.notifyStatus(model.StatusRunning)
	observability.CampaignsStarted.Inc()

	rc := NewRateController(c.Rate)
	total := len(c.Recipients)

	for i, row := range c.Recipients {
		if c.stopWasRequested() {
			r.terminate(model.StatusStopped, "")
			return
		}
		if stopped := c.awaitResume(); stopped {
			r.terminate(model.StatusStopped, "")
			return
		}

		email := row.Email(c.EmailColumn)
		c.setCurrent(i, email)

		subject := render.Render(c.Template.Subject, row)
		body := render.Render(c.Template.Body, row)

		entry := model.LogEntry{
			CampaignID:     c.ID,
			Timestamp:      time.Now(),
			RowNumber:      i + 1,
			RecipientEmail: email,
			Subject:        subject,
			SenderEmail:    c.Template.SenderEmail,
			SenderName:     c.Template.SenderName,
		}

		started := time.Now()
		err := r.Mailer.Send(mailer.Message{
			SenderEmail: c.Template.SenderEmail,
			SenderName:  c.Template.SenderName,
			Recipient:   email,
			Subject:     subject,
			HTMLBody:    body,
			PlainBody:   render.StripHTML(body),
		})
		observability.SendDuration.Observe(time.Since(started).Seconds())

		var activity string
		if err != nil {
			entry.Status = model.LogStatusFailed
			entry.ErrorMessage = err.Error()
			activity = fmt.Sprintf("failed: %s: %v", email, err)
			observability.EmailsSent.WithLabelValues("failed").Inc()
			log.Printf("⚠️ campaign %s row %d: %v", c.ID, i+1, err)
		} else {
			entry.Status = model.LogStatusSuccess
			activity = fmt.Sprintf("sent to %s", email)
			observability.EmailsSent.WithLabelValues("success").Inc()
		}

		c.recordAttempt(entry, activity)
		r.publishProgress()
		if pubErr := r.Events.LogEntryCreated(entry); pubErr != nil {
			log.Printf("⚠️ failed to publish log event for campaign %s: %v", c.ID, pubErr)
		}

		r.Sleep(rc.PerEmailDelay(), c.StopChan())
		if d, due := rc.BatchDelayAfter(c.sentCount(), total); due {
			r.Sleep(d, c.StopChan())
		}
	}

	r.terminate(model.StatusCompleted, "")
}

// terminate finalizes the campaign, delivers the last snapshot to every
// subscriber and ends all subscriptions.
func (r *Runner) terminate(status, errMsg string) {
	c := r.Campaign
	c.finish(status, errMsg)
	c.Events.Close(c.Snapshot())
	r.notifyStatus(status)
	observability.CampaignsFinished.WithLabelValues(status).Inc()
	log.Printf("📭 campaign %s finished with status %s", c.ID, status)
}

func (r *Runner) publishProgress() {
	r.Campaign.Events.Publish(r.Campaign.Snapshot())
}

func (r *Runner) notifyStatus(status string) {
	if err := r.Events.StatusChanged(r.Campaign.ID, status); err != nil {
		log.Printf("⚠️ failed to publish status event for campaign %s: %v", r.Campaign.ID, err)
	}
}
