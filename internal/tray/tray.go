// Package tray owns the OS tray icon and runs its blocking loop on a
// dedicated goroutine pinned to its own OS thread.
package tray

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/username/traywin/internal/mediator"
)

// Menu describes the icon and the fixed two-entry menu ("Quit", "Show")
type Menu struct {
	Title   string
	Tooltip string
	Icon    []byte
	OnQuit  func()
	OnShow  func()
}

// Backend is the tray toolkit boundary
type Backend interface {
	// Run displays the icon and blocks until Stop is called
	Run(menu Menu)
	Stop()
	SetVisible(visible bool)
}

// RestartPolicy bounds how often an unexpectedly returning loop is re-entered
type RestartPolicy struct {
	MaxRestarts int
	Delay       time.Duration
}

// Options configures a Controller
type Options struct {
	Tooltip string
	Restart RestartPolicy
}

var errLoopExited = errors.New("tray loop exited without stop request")

// Controller owns the tray icon
type Controller struct {
	mediator mediator.Component
	backend  Backend
	settings mediator.Settings
	opts     Options
	logger   *zap.Logger

	mu       sync.Mutex
	started  bool
	stopping bool
	visible  bool
	running  bool
	done     chan struct{}
}

// NewController creates a tray controller bound to the given mediator
func NewController(m mediator.Component, backend Backend, settings mediator.Settings, opts Options, logger *zap.Logger) *Controller {
	return &Controller{
		mediator: m,
		backend:  backend,
		settings: settings,
		opts:     opts,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Notify handles START from the mediator; everything else is ignored
func (c *Controller) Notify(sender mediator.Sender, event mediator.Event) {
	if sender != mediator.SenderMediator || event != mediator.EventStart {
		c.logger.Debug("Ignoring notification",
			zap.Stringer("sender", sender),
			zap.Stringer("event", event))
		return
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.visible = true
	c.running = true
	c.mu.Unlock()

	go c.loop(c.menu())
}

// Visible reports whether the icon is currently shown
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Running reports whether the display loop goroutine is alive
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Done is closed once the display loop goroutine exits
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) menu() Menu {
	tooltip := c.opts.Tooltip
	if tooltip == "" {
		tooltip = c.settings.Name
	}
	return Menu{
		Title:   c.settings.Name,
		Tooltip: tooltip,
		Icon:    c.settings.Icon,
		OnQuit:  c.quit,
		OnShow:  c.show,
	}
}

func (c *Controller) loop(menu Menu) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(c.done)

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(c.opts.Restart.Delay),
		uint64(max(c.opts.Restart.MaxRestarts, 0)),
	)

	attempt := 0
	err := backoff.Retry(func() error {
		// Quit may land while waiting between attempts
		if c.stopRequested() {
			return nil
		}
		attempt++
		c.logger.Debug("Entering tray loop", zap.Int("attempt", attempt))
		c.backend.Run(menu)
		if c.stopRequested() {
			return nil
		}
		c.logger.Warn("Tray loop returned unexpectedly", zap.Int("attempt", attempt))
		return errLoopExited
	}, policy)

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("Tray loop gave up, shutting down",
			zap.Error(err),
			zap.Int("attempts", attempt))
		c.mu.Lock()
		c.stopping = true
		c.visible = false
		c.mu.Unlock()
		c.mediator.Notify(mediator.SenderTray, mediator.EventQuit)
	}
}

func (c *Controller) stopRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopping
}

func (c *Controller) show() {
	c.logger.Info("Show clicked from tray")
	c.mediator.Notify(mediator.SenderTray, mediator.EventShow)
}

func (c *Controller) quit() {
	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		return
	}
	c.stopping = true
	c.visible = false
	c.mu.Unlock()

	c.logger.Info("Quit clicked from tray")
	c.mediator.Notify(mediator.SenderTray, mediator.EventQuit)
	c.backend.SetVisible(false)
	c.backend.Stop()
	c.logger.Info("Goodbye from tray")
}
