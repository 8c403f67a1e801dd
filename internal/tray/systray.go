package tray

import (
	"sync"

	"fyne.io/systray"
	"go.uber.org/zap"
)

// SystrayBackend renders the tray icon with fyne.io/systray. Run is called
// from a locked non-main thread, which systray supports on Linux and Windows
// only; on macOS it must own the main thread, which fyne already holds.
type SystrayBackend struct {
	logger *zap.Logger

	mu    sync.Mutex
	items []*systray.MenuItem
	quit  chan struct{}
}

// NewSystrayBackend creates the production tray backend
func NewSystrayBackend(logger *zap.Logger) *SystrayBackend {
	return &SystrayBackend{logger: logger}
}

// Run starts the system tray (blocks until Stop)
func (b *SystrayBackend) Run(menu Menu) {
	quit := make(chan struct{})
	b.mu.Lock()
	b.quit = quit
	b.mu.Unlock()

	systray.Run(func() { b.onReady(menu, quit) }, b.onExit)
}

func (b *SystrayBackend) onReady(menu Menu, quit chan struct{}) {
	// A restarted loop must not duplicate the entries.
	systray.ResetMenu()

	if len(menu.Icon) > 0 {
		systray.SetIcon(menu.Icon)
	}
	systray.SetTitle(menu.Title)
	systray.SetTooltip(menu.Tooltip)

	mQuit := systray.AddMenuItem("Quit", "Exit the application")
	mShow := systray.AddMenuItem("Show", "Show the main window")

	b.mu.Lock()
	b.items = []*systray.MenuItem{mQuit, mShow}
	b.mu.Unlock()

	// Handle menu item clicks
	go func() {
		for {
			select {
			case <-mShow.ClickedCh:
				if menu.OnShow != nil {
					menu.OnShow()
				}
			case <-mQuit.ClickedCh:
				if menu.OnQuit != nil {
					menu.OnQuit()
				}
				return
			case <-quit:
				return
			}
		}
	}()
}

func (b *SystrayBackend) onExit() {
	b.logger.Info("System tray exited")
}

// Stop ends the current systray loop
func (b *SystrayBackend) Stop() {
	b.mu.Lock()
	if b.quit != nil {
		select {
		case <-b.quit:
		default:
			close(b.quit)
		}
	}
	b.mu.Unlock()

	systray.Quit()
}

// SetVisible shows or hides the menu entries. The icon itself disappears
// when the loop stops.
func (b *SystrayBackend) SetVisible(visible bool) {
	b.mu.Lock()
	items := b.items
	b.mu.Unlock()

	for _, item := range items {
		if visible {
			item.Show()
		} else {
			item.Hide()
		}
	}
	if !visible {
		systray.SetTooltip("")
	}
}
