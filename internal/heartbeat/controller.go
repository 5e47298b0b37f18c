// Package heartbeat runs the liveness signal: a single repeating
// timer telling the server the authenticated user is still active,
// pausing while the tab is hidden and stopping when authentication is
// lost.
package heartbeat

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the beat period when none is configured.
const DefaultInterval = 60 * time.Second

// Status is the controller's explicit tri-state.
type Status string

const (
	StatusStopped   Status = "stopped"
	StatusRunning   Status = "running"
	StatusSuspended Status = "suspended-by-visibility"
)

// Pinger sends one liveness signal.
type Pinger interface {
	Heartbeat(ctx context.Context) error
}

// AuthChecker reports whether a session is currently authenticated.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Options groups dependencies for NewController.
type Options struct {
	Pinger   Pinger
	Auth     AuthChecker
	Interval time.Duration
	Logger   *slog.Logger
}

// Controller owns the heartbeat timer. At most one timer is live at
// any time: starting while running is a no-op, never a second
// overlapping timer. Signal failures are logged at debug level and
// never affect authentication state.
type Controller struct {
	mu      sync.Mutex
	status  Status
	visible bool
	stop    chan struct{}

	pinger   Pinger
	auth     AuthChecker
	interval time.Duration
	logger   *slog.Logger
}

// NewController constructs a stopped Controller. The page is assumed
// visible until SetVisible reports otherwise.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		status:   StatusStopped,
		visible:  true,
		pinger:   opts.Pinger,
		auth:     opts.Auth,
		interval: interval,
		logger:   logger,
	}
}

// Status returns the controller's current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start begins beating if a session is authenticated. One signal goes
// out immediately, then one per period. If the page is hidden the
// controller moves to suspended instead and resumes on visibility.
// Calling Start while already running is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusRunning {
		return
	}
	if !c.auth.IsAuthenticated() {
		c.status = StatusStopped
		return
	}
	if !c.visible {
		c.status = StatusSuspended
		return
	}
	c.startLocked(ctx)
}

// Stop halts the timer permanently (until the next explicit Start).
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.haltLocked()
	c.status = StatusStopped
}

// SetVisible reports a page visibility change. Hiding suspends a
// running timer; becoming visible again resumes it while still
// authenticated.
func (c *Controller) SetVisible(ctx context.Context, visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = visible
	switch {
	case !visible && c.status == StatusRunning:
		c.haltLocked()
		c.status = StatusSuspended
	case visible && c.status == StatusSuspended:
		if c.auth.IsAuthenticated() {
			c.startLocked(ctx)
		} else {
			c.status = StatusStopped
		}
	}
}

func (c *Controller) startLocked(ctx context.Context) {
	stop := make(chan struct{})
	c.stop = stop
	c.status = StatusRunning
	go c.loop(ctx, stop)
}

func (c *Controller) haltLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) loop(ctx context.Context, stop chan struct{}) {
	if !c.beat(ctx) {
		c.loopLost(stop)
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			c.loopLost(stop)
			return
		case <-ticker.C:
			if !c.beat(ctx) {
				c.loopLost(stop)
				return
			}
		}
	}
}

// beat sends one signal. It returns false when authentication is
// gone, which stops the loop permanently; a failed signal is only
// logged, the period itself is the retry.
func (c *Controller) beat(ctx context.Context) bool {
	if !c.auth.IsAuthenticated() {
		return false
	}
	if err := c.pinger.Heartbeat(ctx); err != nil {
		c.logger.Debug("heartbeat signal failed", "error", err)
	}
	return true
}

// loopLost moves the controller to stopped, but only if this loop's
// stop channel is still the current one; a concurrent Stop or
// suspend already owns the state otherwise.
func (c *Controller) loopLost(stop chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == stop {
		c.stop = nil
		c.status = StatusStopped
	}
}
