// Package window owns the application's single top-level window.
//
// The window's event loop blocks the goroutine that delivers START, which
// must be the main goroutine. The loop is stopped by QUIT from the mediator or
// by cancellation of the interrupt context given at construction.
package window

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/username/traywin/internal/mediator"
)

// State is the lifecycle position of the window
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options describes the window to build
type Options struct {
	Title       string
	Icon        []byte
	Theme       string
	FontSize    float32
	Width       float32
	Height      float32
	ButtonLabel string
}

// Backend is the GUI toolkit boundary
type Backend interface {
	// Build creates the window. onClose replaces the native close behaviour
	// and onAction is bound to the demo button.
	Build(opts Options, onClose func(), onAction func())
	// Run blocks the calling goroutine until Stop is called
	Run()
	Show()
	Hide()
	// RequestFocus raises the window and asks for input focus (best effort)
	RequestFocus()
	Stop()
}

// Controller owns the window and its event loop
type Controller struct {
	ctx     context.Context
	backend Backend
	opts    Options
	logger  *zap.Logger

	mu         sync.Mutex
	state      State
	visible    bool
	loopActive bool
	quitEarly  bool
}

// NewController creates a window controller. ctx is the interrupt source:
// once it is cancelled the event loop is stopped. The window only receives
// events, so unlike the tray it holds no mediator handle.
func NewController(ctx context.Context, backend Backend, opts Options, logger *zap.Logger) *Controller {
	return &Controller{
		ctx:     ctx,
		backend: backend,
		opts:    opts,
		logger:  logger,
	}
}

// Notify handles events from the mediator. START blocks until quit.
func (c *Controller) Notify(sender mediator.Sender, event mediator.Event) {
	if sender != mediator.SenderMediator {
		c.logger.Debug("Ignoring notification",
			zap.Stringer("sender", sender),
			zap.Stringer("event", event))
		return
	}

	switch event {
	case mediator.EventStart:
		c.start()
	case mediator.EventShow:
		c.show()
	case mediator.EventQuit:
		c.quit("mediator")
	default:
		c.logger.Debug("Ignoring unknown event", zap.Stringer("event", event))
	}
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible reports whether the window is shown
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// LoopActive reports whether the event loop is still running
func (c *Controller) LoopActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loopActive
}

func (c *Controller) start() {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		c.logger.Debug("Window already started, ignoring START")
		return
	}
	if c.quitEarly {
		c.state = StateTerminating
		c.mu.Unlock()
		c.logger.Info("Quit arrived before START, not entering event loop")
		return
	}
	c.backend.Build(c.opts, c.hide, c.action)
	c.state = StateRunning
	c.visible = true
	c.loopActive = true
	c.mu.Unlock()

	loopDone := make(chan struct{})
	go c.watchInterrupt(loopDone)

	c.logger.Info("Entering window event loop", zap.String("title", c.opts.Title))
	c.backend.Run()
	close(loopDone)

	c.mu.Lock()
	c.state = StateTerminating
	c.visible = false
	c.loopActive = false
	c.mu.Unlock()
	c.logger.Info("Window event loop returned")
}

// watchInterrupt converts cancellation of the interrupt context into a
// same-controller quit while the event loop is blocking.
func (c *Controller) watchInterrupt(loopDone <-chan struct{}) {
	select {
	case <-c.ctx.Done():
		c.logger.Info("Interrupt received", zap.Error(context.Cause(c.ctx)))
		c.quit("interrupt")
	case <-loopDone:
	}
}

func (c *Controller) show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}

	c.backend.Show()
	c.backend.RequestFocus()
	c.visible = true
	c.logger.Debug("Window shown")
}

// hide is installed as the native close handler
func (c *Controller) hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}

	c.backend.Hide()
	c.visible = false
	c.logger.Debug("Window hidden")
}

func (c *Controller) quit(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Guard: no window yet, or already quitting. A quit that beats START is
	// remembered so the loop is never entered.
	if c.state == StateUninitialized {
		c.quitEarly = true
		return
	}
	if c.state != StateRunning {
		return
	}

	c.state = StateTerminating
	c.backend.Stop()
	c.logger.Info("Goodbye from window", zap.String("reason", reason))
}

func (c *Controller) action() {
	c.logger.Info("Hello world!")
}
