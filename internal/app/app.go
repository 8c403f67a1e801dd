// Package app wires configuration, the tray and window backends, and the
// mediator into a runnable application.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/username/traywin/internal/config"
	"github.com/username/traywin/internal/mediator"
	"github.com/username/traywin/internal/tray"
	"github.com/username/traywin/internal/window"
)

// App is the composition root
type App struct {
	cfg           *config.Config
	trayBackend   tray.Backend
	windowBackend window.Backend
	logger        *zap.Logger

	mu     sync.Mutex
	tray   *tray.Controller
	window *window.Controller
}

// New creates an application from a validated config
func New(cfg *config.Config, trayBackend tray.Backend, windowBackend window.Backend, logger *zap.Logger) *App {
	return &App{
		cfg:           cfg,
		trayBackend:   trayBackend,
		windowBackend: windowBackend,
		logger:        logger,
	}
}

// Run sends START to a fresh mediator and blocks until the window event loop
// returns. ctx is the interrupt source; cancelling it stops the window.
func (a *App) Run(ctx context.Context) error {
	icon, err := LoadIcon(a.cfg.App.Icon)
	if err != nil {
		return err
	}

	settings := mediator.Settings{
		Name:  a.cfg.App.Name,
		Icon:  icon,
		Theme: a.cfg.App.GetTheme(),
	}
	m := mediator.New(settings, a.trayFactory(), a.windowFactory(ctx), a.logger.Named("mediator"))

	a.logger.Info("Starting application",
		zap.String("name", settings.Name),
		zap.String("theme", settings.Theme))

	m.Notify(mediator.SenderEntry, mediator.EventStart)

	a.logger.Info("Application stopped")
	return nil
}

func (a *App) trayFactory() mediator.Factory {
	return func(m mediator.Component, s mediator.Settings) mediator.Component {
		opts := tray.Options{
			Tooltip: a.cfg.Tray.Tooltip,
			Restart: tray.RestartPolicy{
				MaxRestarts: a.cfg.Tray.MaxRestarts,
				Delay:       a.cfg.Tray.GetRestartDelay(),
			},
		}
		c := tray.NewController(m, a.trayBackend, s, opts, a.logger.Named("tray"))

		a.mu.Lock()
		a.tray = c
		a.mu.Unlock()
		return c
	}
}

func (a *App) windowFactory(ctx context.Context) mediator.Factory {
	return func(_ mediator.Component, s mediator.Settings) mediator.Component {
		title := a.cfg.Window.Title
		if title == "" {
			title = s.Name
		}
		opts := window.Options{
			Title:       title,
			Icon:        s.Icon,
			Theme:       s.Theme,
			FontSize:    a.cfg.Window.FontSize,
			Width:       a.cfg.Window.Width,
			Height:      a.cfg.Window.Height,
			ButtonLabel: a.cfg.Window.ButtonLabel,
		}
		c := window.NewController(ctx, a.windowBackend, opts, a.logger.Named("window"))

		a.mu.Lock()
		a.window = c
		a.mu.Unlock()
		return c
	}
}

// Tray returns the tray controller once START has built it
func (a *App) Tray() *tray.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tray
}

// Window returns the window controller once START has built it
func (a *App) Window() *window.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.window
}
