package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/1broseidon/panelsnap/internal/logging"
	"github.com/1broseidon/panelsnap/internal/platform"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Refresher re-resolves the panel window.
type Refresher interface {
	Refresh() error
}

// TrackerConfig holds configuration for the tracker.
type TrackerConfig struct {
	Interval     time.Duration
	RetryInitial time.Duration
	RetryMax     time.Duration
	Logger       zerolog.Logger
}

// Tracker keeps the controller attached to the panel window: it waits for
// the window to appear, then periodically checks it is still there.
type Tracker struct {
	target       Refresher
	interval     time.Duration
	retryInitial time.Duration
	retryMax     time.Duration
	logger       zerolog.Logger
}

// NewTracker creates a tracker for target.
func NewTracker(cfg TrackerConfig, target Refresher) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	retryInitial := cfg.RetryInitial
	if retryInitial <= 0 {
		retryInitial = 250 * time.Millisecond
	}
	retryMax := cfg.RetryMax
	if retryMax <= 0 {
		retryMax = interval
	}

	return &Tracker{
		target:       target,
		interval:     interval,
		retryInitial: retryInitial,
		retryMax:     retryMax,
		logger:       logging.Component(cfg.Logger, "tracker"),
	}
}

// Run waits for the panel, then re-checks it every interval. Blocks until
// ctx is cancelled and returns ctx's error.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.WaitForPanel(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("tracker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("tracker stopped")
			return ctx.Err()
		case <-ticker.C:
			t.check()
		}
	}
}

// WaitForPanel retries the lookup with exponential backoff until the panel
// is found or ctx ends.
func (t *Tracker) WaitForPanel(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.retryInitial
	b.MaxInterval = t.retryMax
	b.MaxElapsedTime = 0

	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		return t.target.Refresh()
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		ev := t.logger.Debug()
		if attempts == 1 {
			ev = t.logger.Info()
		}
		ev.Err(err).Dur("retry_in", next).Msg("waiting for panel window")
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	t.logger.Debug().Int("attempts", attempts).Msg("panel window found")
	return nil
}

// CheckNow runs one tracking pass immediately.
func (t *Tracker) CheckNow() {
	t.check()
}

func (t *Tracker) check() {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Interface("panic", r).Msg("tracker panic recovered")
		}
	}()

	err := t.target.Refresh()
	switch {
	case err == nil:
	case errors.Is(err, platform.ErrWindowNotFound):
		t.logger.Debug().Msg("panel window not present")
	default:
		t.logger.Warn().Err(err).Msg("panel tracking failed")
	}
}
