// Package fyneui implements the window backend on top of fyne. It is kept
// apart from package window so the controller builds without cgo.
package fyneui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/username/traywin/internal/window"
)

// Backend renders the window with fyne. Calls arriving from other
// goroutines (the tray thread, the interrupt watcher) are marshalled onto the
// UI thread with fyne.Do.
type Backend struct {
	appID  string
	logger *zap.Logger

	app fyne.App
	win fyne.Window
}

var _ window.Backend = (*Backend)(nil)

// New creates the production window backend
func New(appID string, logger *zap.Logger) *Backend {
	return &Backend{appID: appID, logger: logger}
}

// Build creates the fyne app and its window
func (b *Backend) Build(opts window.Options, onClose func(), onAction func()) {
	b.app = app.NewWithID(b.appID)
	b.app.Settings().SetTheme(newAppTheme(opts.Theme, opts.FontSize))

	var icon fyne.Resource
	if len(opts.Icon) > 0 {
		icon = fyne.NewStaticResource("icon.png", opts.Icon)
		b.app.SetIcon(icon)
	}

	b.win = b.app.NewWindow(opts.Title)
	if icon != nil {
		b.win.SetIcon(icon)
	}

	button := widget.NewButton(opts.ButtonLabel, onAction)
	button.Importance = widget.SuccessImportance
	b.win.SetContent(container.NewCenter(button))

	if opts.Width > 0 && opts.Height > 0 {
		b.win.Resize(fyne.NewSize(opts.Width, opts.Height))
	}
	b.win.CenterOnScreen()

	// Closing hides instead of destroying
	b.win.SetCloseIntercept(onClose)
}

// Run shows the window and blocks until Stop
func (b *Backend) Run() {
	if b.win == nil {
		return
	}
	b.win.ShowAndRun()
}

func (b *Backend) Show() {
	b.do(func() { b.win.Show() })
}

func (b *Backend) Hide() {
	b.do(func() { b.win.Hide() })
}

// RequestFocus raises the window. fyne has no always-on-top request, focus
// is the closest it offers.
func (b *Backend) RequestFocus() {
	b.do(func() { b.win.RequestFocus() })
}

// Stop quits the fyne app, which makes Run return
func (b *Backend) Stop() {
	if b.app == nil {
		return
	}
	fyne.Do(b.app.Quit)
}

func (b *Backend) do(fn func()) {
	if b.win == nil {
		b.logger.Debug("Window not built, skipping UI call")
		return
	}
	fyne.Do(fn)
}
