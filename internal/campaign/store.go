// internal/campaign/store.go
package campaign

import (
	"fmt"
	"sync"
	"time"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
)

func terminalErr(id, status string) error {
	return appErrors.NewCampaignTerminal(id, status)
}

// Store is the process-wide campaign table, injected into the service instead
// of living as a package-level singleton. Campaigns are retained until the
// process exits; there is no persistence and no eviction.
type Store struct {
	mu        sync.RWMutex
	campaigns map[string]*Campaign
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		campaigns: make(map[string]*Campaign),
		now:       time.Now,
	}
}

// Create allocates a campaign with a fresh timestamp-derived id and registers
// it in the table. Ids follow the 20060102_150405 shape of the log file
// naming; a numeric suffix disambiguates campaigns started within the same
// second.
func (s *Store) Create(recipients []model.RecipientRow, emailColumn string, tmpl model.Template, rate model.RateConfig) *Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.now().Format("20060102_150405")
	id := base
	for n := 2; ; n++ {
		if _, exists := s.campaigns[id]; !exists {
			break
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}

	c := newCampaign(id, recipients, emailColumn, tmpl, rate)
	s.campaigns[id] = c
	return c
}

// Get looks up a campaign by id.
func (s *Store) Get(id string) (*Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

// List returns all known campaigns in no particular order.
func (s *Store) List() []*Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	return out
}
