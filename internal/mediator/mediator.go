// Package mediator routes lifecycle events between the tray icon and the
// main window. Neither controller knows about the other; both only hold the
// Component handle they were constructed with.
package mediator

import (
	"sync"

	"go.uber.org/zap"
)

// Component is implemented by every participant that can receive events
type Component interface {
	Notify(sender Sender, event Event)
}

// Settings are the process-wide values the mediator hands to each controller
type Settings struct {
	Name  string
	Icon  []byte
	Theme string
}

// Factory builds a controller bound to the given mediator handle
type Factory func(m Component, settings Settings) Component

// Mediator owns construction order and forwards tray actions to the window
type Mediator struct {
	settings      Settings
	trayFactory   Factory
	windowFactory Factory
	logger        *zap.Logger

	mu          sync.Mutex
	started     bool
	quitPending bool
	window      Component
}

// New creates a mediator. Controllers are not built until START.
func New(settings Settings, trayFactory, windowFactory Factory, logger *zap.Logger) *Mediator {
	return &Mediator{
		settings:      settings,
		trayFactory:   trayFactory,
		windowFactory: windowFactory,
		logger:        logger,
	}
}

// Notify dispatches an event synchronously. Unrecognized pairs are ignored.
//
// START from the entry point blocks until the window event loop returns.
func (m *Mediator) Notify(sender Sender, event Event) {
	switch {
	case sender == SenderEntry && event == EventStart:
		m.start()
	case sender == SenderTray:
		m.forwardToWindow(event)
	default:
		m.logger.Debug("Ignoring notification",
			zap.Stringer("sender", sender),
			zap.Stringer("event", event))
	}
}

// Started reports whether START has been processed
func (m *Mediator) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *Mediator) start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		m.logger.Warn("Mediator already started, ignoring START")
		return
	}
	m.started = true
	tray := m.trayFactory(m, m.settings)
	m.mu.Unlock()

	// Tray first: the window START below never returns until quit.
	m.logger.Info("Starting tray", zap.String("app", m.settings.Name))
	tray.Notify(SenderMediator, EventStart)

	m.mu.Lock()
	// The tray may already have quit (user click or exhausted restarts)
	if m.quitPending {
		m.mu.Unlock()
		m.logger.Info("Tray quit before window start, not starting window")
		return
	}
	window := m.windowFactory(m, m.settings)
	m.window = window
	m.mu.Unlock()

	m.logger.Info("Starting window", zap.String("app", m.settings.Name))
	window.Notify(SenderMediator, EventStart)

	m.logger.Info("Window event loop returned")
}

func (m *Mediator) forwardToWindow(event Event) {
	m.mu.Lock()
	window := m.window
	if window == nil && m.started && event == EventQuit {
		m.quitPending = true
	}
	m.mu.Unlock()

	if window == nil {
		m.logger.Debug("No window yet, holding back tray event", zap.Stringer("event", event))
		return
	}

	m.logger.Debug("Forwarding tray event to window", zap.Stringer("event", event))
	window.Notify(SenderMediator, event)
}
