// internal/campaign/state.go
package campaign

import (
	"sync"
	"time"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// activityCap bounds the in-memory activity feed; oldest entries are evicted
// past this point.
const activityCap = 100

// recentActivityLen is how much of the feed a snapshot carries.
const recentActivityLen = 20

// Campaign is the mutable run-state for one bulk send. The runner goroutine
// is the only writer of counters and log entries; control handlers flip the
// pause/stop flags; subscribers read consistent snapshots. All of it is
// guarded by one mutex.
type Campaign struct {
	ID          string
	Recipients  []model.RecipientRow
	EmailColumn string
	Template    model.Template
	Rate        model.RateConfig
	CreatedAt   time.Time
	Events      *Broadcaster

	mu             sync.Mutex
	cond           *sync.Cond
	status         string
	sent           int
	succeeded      int
	failed         int
	currentIndex   int
	currentEmail   string
	runError       string
	pauseRequested bool
	stopRequested  bool
	stopCh         chan struct{}
	logEntries     []model.LogEntry
	activity       []string
}

func newCampaign(id string, recipients []model.RecipientRow, emailColumn string, tmpl model.Template, rate model.RateConfig) *Campaign {
	c := &Campaign{
		ID:          id,
		Recipients:  recipients,
		EmailColumn: emailColumn,
		Template:    tmpl,
		Rate:        rate,
		CreatedAt:   time.Now(),
		Events:      NewBroadcaster(),
		status:      model.StatusPending,
		stopCh:      make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Snapshot returns a consistent point-in-time copy of the campaign progress.
func (c *Campaign) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	recent := c.activity
	if len(recent) > recentActivityLen {
		recent = recent[len(recent)-recentActivityLen:]
	}
	activity := make([]string, len(recent))
	copy(activity, recent)

	return model.Snapshot{
		CampaignID:     c.ID,
		Status:         c.status,
		Sent:           c.sent,
		Succeeded:      c.succeeded,
		Failed:         c.failed,
		Total:          len(c.Recipients),
		CurrentEmail:   c.currentEmail,
		RecentActivity: activity,
		Error:          c.runError,
	}
}

// Status returns the current status string.
func (c *Campaign) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LogEntries returns a copy of the audit log accumulated so far.
func (c *Campaign) LogEntries() []model.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]model.LogEntry, len(c.logEntries))
	copy(entries, c.logEntries)
	return entries
}

// Pause requests suspension before the next send. The runner observes the
// flag at its loop checkpoint, so an in-flight send still completes.
func (c *Campaign) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if model.IsTerminal(c.status) {
		return terminalErr(c.ID, c.status)
	}
	c.pauseRequested = true
	if c.status == model.StatusRunning {
		c.status = model.StatusPaused
	}
	return nil
}

// Resume lifts a pause and wakes the runner.
func (c *Campaign) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if model.IsTerminal(c.status) {
		return terminalErr(c.ID, c.status)
	}
	c.pauseRequested = false
	if c.status == model.StatusPaused {
		c.status = model.StatusRunning
	}
	c.cond.Broadcast()
	return nil
}

// Stop requests early termination. Cooperative: the runner halts at the next
// checkpoint, so at most one more recipient may still be attempted. Also
// wakes a paused or sleeping runner.
func (c *Campaign) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if model.IsTerminal(c.status) {
		return terminalErr(c.ID, c.status)
	}
	if !c.stopRequested {
		c.stopRequested = true
		close(c.stopCh)
	}
	c.pauseRequested = false
	c.cond.Broadcast()
	return nil
}

// StopChan is closed once stop is requested; the runner selects on it to cut
// rate-limit waits short.
func (c *Campaign) StopChan() <-chan struct{} {
	return c.stopCh
}

func (c *Campaign) stopWasRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopRequested
}

// awaitResume blocks while a pause is in effect. Returns true if the wait
// ended because stop was requested.
func (c *Campaign) awaitResume() (stopped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pauseRequested && !c.stopRequested {
		c.cond.Wait()
	}
	return c.stopRequested
}

// markRunning moves a pending campaign into its first live status. A pause
// requested before the loop started wins: the campaign surfaces as paused,
// never as running-but-frozen.
func (c *Campaign) markRunning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != model.StatusPending {
		return
	}
	if c.pauseRequested {
		c.status = model.StatusPaused
	} else {
		c.status = model.StatusRunning
	}
}

func (c *Campaign) setCurrent(index int, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentIndex = index
	c.currentEmail = email
}

// recordAttempt appends one log entry, bumps the counters and pushes an
// activity line. Keeps sent == succeeded + failed and len(log) == sent.
func (c *Campaign) recordAttempt(entry model.LogEntry, activity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logEntries = append(c.logEntries, entry)
	if entry.Status == model.LogStatusSuccess {
		c.succeeded++
	} else {
		c.failed++
	}
	c.sent++
	c.activity = append(c.activity, activity)
	if len(c.activity) > activityCap {
		c.activity = c.activity[len(c.activity)-activityCap:]
	}
}

func (c *Campaign) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

// finish moves the campaign to a terminal status exactly once. errMsg is set
// only for the failed status.
func (c *Campaign) finish(status, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if model.IsTerminal(c.status) {
		return
	}
	c.status = status
	c.runError = errMsg
	c.currentEmail = ""
	c.cond.Broadcast()
}
