// Package lifecycle turns browser lifecycle signals into presence updates.
//
// Every signal runs as its own fire-and-forget operation. Operations are not
// ordered against each other: when a hide and an unload overlap, the stored
// flag is whichever upsert reaches the store last.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"realm-presence/internal/service"
)

// VisibilityVisible is the only visibility state that marks a user active.
const VisibilityVisible = "visible"

// Signal names the lifecycle event that produced an update.
type Signal string

const (
	SignalVisible Signal = "visible"
	SignalHidden  Signal = "hidden"
	SignalUnload  Signal = "unload"
)

// ActiveFor maps a document visibility state onto the presence flag.
func ActiveFor(visibilityState string) bool {
	return visibilityState == VisibilityVisible
}

// Dispatcher accepts lifecycle signals and updates presence in the background.
type Dispatcher interface {
	Start(ctx context.Context) error
	Shutdown()
	// Visibility reports whether the signal was accepted for processing.
	Visibility(username, state string) bool
	Unload(username string) bool
}

type Config struct {
	MaxInFlight int
	Logger      *logrus.Logger
}

var errAlreadyStarted = errors.New("dispatcher already started")

type dispatcher struct {
	cfg     Config
	tracker service.PresenceTracker

	sem     chan struct{}
	wg      sync.WaitGroup
	ctx     context.Context
	mu      sync.Mutex
	started bool
	closed  bool
}

func NewDispatcher(cfg Config, tracker service.PresenceTracker) Dispatcher {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 16
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &dispatcher{
		cfg:     cfg,
		tracker: tracker,
		sem:     make(chan struct{}, cfg.MaxInFlight),
	}
}

// Start binds the dispatcher to ctx for its values only; cancelling ctx does
// not abort updates that already began.
func (d *dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return errAlreadyStarted
	}
	d.ctx = context.WithoutCancel(ctx)
	d.started = true
	d.cfg.Logger.Infof("presence dispatcher started, max in flight: %d", d.cfg.MaxInFlight)
	return nil
}

// Shutdown stops accepting signals and waits for accepted ones to finish.
func (d *dispatcher) Shutdown() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	d.cfg.Logger.Info("presence dispatcher stopped")
}

func (d *dispatcher) Visibility(username, state string) bool {
	signal := SignalHidden
	if ActiveFor(state) {
		signal = SignalVisible
	}
	return d.dispatch(username, signal)
}

func (d *dispatcher) Unload(username string) bool {
	return d.dispatch(username, SignalUnload)
}

func (d *dispatcher) dispatch(username string, signal Signal) bool {
	logger := d.cfg.Logger.WithFields(logrus.Fields{"username": username, "signal": signal})

	d.mu.Lock()
	if !d.started || d.closed {
		d.mu.Unlock()
		logger.Debug("presence signal dropped: dispatcher not running")
		return false
	}
	d.wg.Add(1)
	ctx := d.ctx
	d.mu.Unlock()

	active := signal == SignalVisible
	go func() {
		defer d.wg.Done()
		d.sem <- struct{}{}
		defer func() { <-d.sem }()

		out := d.tracker.SetActiveFlag(ctx, username, active)
		logger.WithField("outcome", out.Kind).Debug("presence signal handled")
	}()
	return true
}
