// Package teatest provides a synchronous test driver for bubbletea models.
//
// The driver replaces tea.Program in tests. It calls Update directly and runs
// the returned commands on the test goroutine's schedule, so tests decide
// exactly when debounce windows elapse and when remote calls come back.
//
// Commands that do not return within cmdTimeout (cursor blinks, real
// tea.Tick timers) are parked instead of blocking the test. Settle waits for
// parked commands and feeds their messages back into the model.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many follow-up commands one message may chain.
const MaxDrainDepth = 100

// cmdTimeout separates message factories, which return in microseconds,
// from timer commands.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.QuitMsg is produced.
	Quitting bool

	held   bool
	queue  []tea.Cmd
	parked []chan tea.Msg
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// Held starts the driver in held mode. See Hold.
func Held() Option {
	return func(d *Driver) { d.held = true }
}

// New creates a Driver for model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.dispatch(d.Model.Init())
}

// Hold queues every command the model returns instead of running it.
// Flush runs the queue.
func (d *Driver) Hold() { d.held = true }

// Release leaves held mode and runs everything queued so far.
func (d *Driver) Release() {
	d.T.Helper()
	d.held = false
	d.FlushAll()
}

// Queued returns how many commands wait for Flush.
func (d *Driver) Queued() int { return len(d.queue) }

// Flush runs the commands queued so far. Commands they return are queued
// again while the driver is held.
func (d *Driver) Flush() {
	d.T.Helper()
	batch := d.queue
	d.queue = nil
	for _, cmd := range batch {
		d.drainCmd(cmd, 0)
	}
}

// FlushAll flushes until the queue stays empty.
func (d *Driver) FlushAll() {
	d.T.Helper()
	for i := 0; len(d.queue) > 0; i++ {
		if i >= MaxDrainDepth {
			d.T.Fatalf("teatest.Driver: queue did not drain after %d rounds", MaxDrainDepth)
		}
		d.Flush()
	}
}

// Settle waits up to timeout for parked commands and feeds their messages
// into the model. It reports whether every parked command finished.
func (d *Driver) Settle(timeout time.Duration) bool {
	d.T.Helper()
	deadline := time.After(timeout)
	for len(d.parked) > 0 {
		ch := d.parked[0]
		d.parked = d.parked[1:]
		select {
		case msg := <-ch:
			d.handle(msg, 0)
		case <-deadline:
			d.parked = append([]chan tea.Msg{ch}, d.parked...)
			return false
		}
		d.FlushAll()
	}
	return true
}

// Parked returns how many slow commands are still outstanding.
func (d *Driver) Parked() int { return len(d.parked) }

// Send dispatches msg through Update and runs the resulting command.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.dispatch(cmd)
}

// SendKey sends a tea.KeyMsg through the model.
func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

// PressKey sends a character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Press sends a non-character key such as tea.KeyTab or tea.KeyCtrlS.
func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: k})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Press(tea.KeyEnter)
}

func (d *Driver) PressTab() {
	d.T.Helper()
	d.Press(tea.KeyTab)
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Press(tea.KeyEsc)
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// Backspace deletes n characters before the cursor.
func (d *Driver) Backspace(n int) {
	d.T.Helper()
	for i := 0; i < n; i++ {
		d.Press(tea.KeyBackspace)
	}
}

// View returns the rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) dispatch(cmd tea.Cmd) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if d.held {
		d.queue = append(d.queue, cmd)
		return
	}
	d.drainCmd(cmd, 0)
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := d.run(cmd)
	if !ok {
		return
	}
	d.handle(msg, depth)
}

func (d *Driver) handle(msg tea.Msg, depth int) {
	d.T.Helper()
	if msg == nil || isCursorBlink(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drainCmd(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	if next == nil {
		return
	}
	if d.held {
		d.queue = append(d.queue, next)
		return
	}
	d.drainCmd(next, depth+1)
}

// run executes cmd with a timeout. A command that misses it is parked and
// ok is false.
func (d *Driver) run(cmd tea.Cmd) (msg tea.Msg, ok bool) {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		d.parked = append(d.parked, ch)
		return nil, false
	}
}

// isCursorBlink detects the unexported blink messages of bubbles/cursor.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
