// internal/campaign/rate.go
package campaign

import (
	"time"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
)

// RateController answers the two pacing questions the runner asks after each
// send: how long to wait per email, and whether a batch breather is due.
type RateController struct {
	cfg model.RateConfig
}

func NewRateController(cfg model.RateConfig) RateController {
	return RateController{cfg: cfg}
}

// PerEmailDelay is the fixed wait after every send.
func (rc RateController) PerEmailDelay() time.Duration {
	return rc.cfg.PerEmailDelay
}

// BatchDelayAfter reports whether an extra batch delay is due after the
// sent-th send. No breather after the last recipient: there is nothing left
// to pace.
func (rc RateController) BatchDelayAfter(sent, total int) (time.Duration, bool) {
	if rc.cfg.BatchDelay <= 0 || rc.cfg.BatchSize <= 0 {
		return 0, false
	}
	if sent > 0 && sent%rc.cfg.BatchSize == 0 && sent < total {
		return rc.cfg.BatchDelay, true
	}
	return 0, false
}

// ValidateRate rejects malformed pacing configs before a campaign starts.
func ValidateRate(cfg model.RateConfig) error {
	if cfg.PerEmailDelay < 0 {
		return appErrors.NewValidation("rate_config", "per_email_delay must not be negative")
	}
	if cfg.BatchSize < 1 {
		return appErrors.NewValidation("rate_config", "batch_size must be a positive integer")
	}
	if cfg.BatchDelay < 0 {
		return appErrors.NewValidation("rate_config", "batch_delay must not be negative")
	}
	return nil
}
