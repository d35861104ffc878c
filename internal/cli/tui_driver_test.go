package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/signup/internal/config"
	"github.com/alexanderramin/signup/internal/db"
	"github.com/alexanderramin/signup/internal/form"
	"github.com/alexanderramin/signup/internal/repository"
	"github.com/alexanderramin/signup/internal/teatest"
	"github.com/alexanderramin/signup/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"
)

// newTestApp returns an App backed by a fake service and in-memory history.
// Debounce windows elapse as soon as their command runs.
func newTestApp(t *testing.T) (*App, *testutil.FakeService) {
	t.Helper()
	database := testutil.NewTestDB(t)
	svc := testutil.NewFakeService()
	app := &App{
		Config:        config.DefaultConfig(),
		Logger:        zaptest.NewLogger(t),
		Service:       svc,
		Attempts:      repository.NewSQLiteAttemptRepo(database),
		UoW:           db.NewSQLiteUnitOfWork(database),
		IsInteractive: func() bool { return false },
		In:            strings.NewReader(""),
		Out:           &bytes.Buffer{},
		Err:           &bytes.Buffer{},
		scheduler:     immediateScheduler,
	}
	return app, svc
}

// TestDriver wraps teatest.Driver with signup-screen inspection helpers.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the signup model for app and drains Init, which
// runs the availability check against the fake service.
func NewTestDriver(t *testing.T, app *App, opts ...teatest.Option) *TestDriver {
	t.Helper()
	ctx := context.Background()
	m := newSignupModel(ctx, app.newForm(ctx), app.Service.Available)
	d := teatest.New(t, m, append([]teatest.Option{teatest.WithSize(100, 40)}, opts...)...)
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) model() signupModel {
	return d.Model.(signupModel)
}

// Region returns the plain text of a named screen region.
func (d *TestDriver) Region(id string) string {
	return d.model().Region(id)
}

func (d *TestDriver) Form() *form.Form {
	return d.model().form
}

func (d *TestDriver) Focus() focusTarget {
	return d.model().focus
}

// FocusOn tabs until target has focus.
func (d *TestDriver) FocusOn(target focusTarget) {
	d.T.Helper()
	for i := 0; d.Focus() != target; i++ {
		if i > int(focusCount) {
			d.T.Fatalf("focus never reached %d", target)
		}
		d.PressTab()
	}
}

// Fill types email and password into their fields.
func (d *TestDriver) Fill(email, password string) {
	d.T.Helper()
	d.FocusOn(focusEmail)
	d.Type(email)
	d.FocusOn(focusPassword)
	d.Type(password)
}

func (d *TestDriver) SubmitKey() {
	d.T.Helper()
	d.Press(tea.KeyCtrlS)
}
