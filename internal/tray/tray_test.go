package tray

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/username/traywin/internal/mediator"
)

const waitTimeout = 2 * time.Second

type fakeBackend struct {
	mu        sync.Mutex
	runs      int
	menu      Menu
	visible   bool
	stops     int
	exitEarly int
	stopCh    chan struct{}
}

func newFakeBackend(exitEarly int) *fakeBackend {
	return &fakeBackend{exitEarly: exitEarly, stopCh: make(chan struct{})}
}

func (f *fakeBackend) Run(menu Menu) {
	f.mu.Lock()
	f.runs++
	f.menu = menu
	f.visible = true
	early := f.runs <= f.exitEarly
	stop := f.stopCh
	f.mu.Unlock()

	if early {
		return
	}
	<-stop
}

func (f *fakeBackend) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
}

func (f *fakeBackend) SetVisible(visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = visible
}

func (f *fakeBackend) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func (f *fakeBackend) currentMenu() Menu {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.menu
}

type sent struct {
	sender mediator.Sender
	event  mediator.Event
}

type recordingMediator struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recordingMediator) Notify(sender mediator.Sender, event mediator.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{sender, event})
}

func (r *recordingMediator) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

func newTestController(t *testing.T, backend Backend, policy RestartPolicy) (*Controller, *recordingMediator) {
	t.Helper()
	m := &recordingMediator{}
	settings := mediator.Settings{Name: "traywin", Icon: []byte{0x89, 'P', 'N', 'G'}}
	c := NewController(m, backend, settings, Options{Restart: policy}, zaptest.NewLogger(t))
	return c, m
}

func waitDone(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(waitTimeout):
		t.Fatal("tray loop did not exit")
	}
}

func TestController_StartRunsLoop(t *testing.T) {
	backend := newFakeBackend(0)
	c, _ := newTestController(t, backend, RestartPolicy{})

	c.Notify(mediator.SenderMediator, mediator.EventStart)

	require.Eventually(t, func() bool { return backend.runCount() == 1 }, waitTimeout, 5*time.Millisecond)
	assert.True(t, c.Visible())
	assert.True(t, c.Running())

	menu := backend.currentMenu()
	assert.Equal(t, "traywin", menu.Title)
	assert.Equal(t, "traywin", menu.Tooltip)
	assert.NotEmpty(t, menu.Icon)

	menu.OnQuit()
	waitDone(t, c)
}

func TestController_StartTwiceRunsOneLoop(t *testing.T) {
	backend := newFakeBackend(0)
	c, _ := newTestController(t, backend, RestartPolicy{})

	c.Notify(mediator.SenderMediator, mediator.EventStart)
	c.Notify(mediator.SenderMediator, mediator.EventStart)

	require.Eventually(t, func() bool { return backend.runCount() == 1 }, waitTimeout, 5*time.Millisecond)
	backend.currentMenu().OnQuit()
	waitDone(t, c)
	assert.Equal(t, 1, backend.runCount())
}

func TestController_ShowNotifiesMediator(t *testing.T) {
	backend := newFakeBackend(0)
	c, m := newTestController(t, backend, RestartPolicy{})
	c.Notify(mediator.SenderMediator, mediator.EventStart)
	require.Eventually(t, func() bool { return backend.runCount() == 1 }, waitTimeout, 5*time.Millisecond)

	backend.currentMenu().OnShow()

	assert.Equal(t, []sent{{mediator.SenderTray, mediator.EventShow}}, m.all())
	assert.True(t, c.Running())
	assert.True(t, c.Visible())

	backend.currentMenu().OnQuit()
	waitDone(t, c)
}

func TestController_QuitStopsLoop(t *testing.T) {
	backend := newFakeBackend(0)
	c, m := newTestController(t, backend, RestartPolicy{MaxRestarts: 3})
	c.Notify(mediator.SenderMediator, mediator.EventStart)
	require.Eventually(t, func() bool { return backend.runCount() == 1 }, waitTimeout, 5*time.Millisecond)

	onQuit := backend.currentMenu().OnQuit
	onQuit()
	onQuit()

	waitDone(t, c)
	assert.Equal(t, []sent{{mediator.SenderTray, mediator.EventQuit}}, m.all())
	assert.False(t, c.Visible())
	assert.False(t, c.Running())
	assert.False(t, backend.visible)
	assert.Equal(t, 1, backend.stops)
	// a requested stop is never treated as a crash
	assert.Equal(t, 1, backend.runCount())
}

func TestController_IgnoresOtherNotifications(t *testing.T) {
	tests := []struct {
		name   string
		sender mediator.Sender
		event  mediator.Event
	}{
		{name: "mediator show", sender: mediator.SenderMediator, event: mediator.EventShow},
		{name: "mediator quit", sender: mediator.SenderMediator, event: mediator.EventQuit},
		{name: "entry start", sender: mediator.SenderEntry, event: mediator.EventStart},
		{name: "unknown sender start", sender: mediator.Sender(42), event: mediator.EventStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(0)
			c, m := newTestController(t, backend, RestartPolicy{})

			assert.NotPanics(t, func() { c.Notify(tt.sender, tt.event) })
			assert.False(t, c.Running())
			assert.False(t, c.Visible())
			assert.Empty(t, m.all())
			assert.Equal(t, 0, backend.runCount())
		})
	}
}

func TestController_RestartsUnexpectedExit(t *testing.T) {
	backend := newFakeBackend(2)
	c, m := newTestController(t, backend, RestartPolicy{MaxRestarts: 3, Delay: time.Millisecond})

	c.Notify(mediator.SenderMediator, mediator.EventStart)

	require.Eventually(t, func() bool { return backend.runCount() == 3 }, waitTimeout, 5*time.Millisecond)
	assert.True(t, c.Running())
	assert.Empty(t, m.all())

	backend.currentMenu().OnQuit()
	waitDone(t, c)
}

func TestController_GivesUpAfterMaxRestarts(t *testing.T) {
	backend := newFakeBackend(100)
	c, m := newTestController(t, backend, RestartPolicy{MaxRestarts: 2, Delay: time.Millisecond})

	c.Notify(mediator.SenderMediator, mediator.EventStart)
	waitDone(t, c)

	assert.Equal(t, 3, backend.runCount())
	assert.Equal(t, []sent{{mediator.SenderTray, mediator.EventQuit}}, m.all())
	assert.False(t, c.Running())
	assert.False(t, c.Visible())
}
