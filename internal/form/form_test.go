package form_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/signup/internal/config"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/form"
	"github.com/alexanderramin/signup/internal/remote"
	"github.com/alexanderramin/signup/internal/testutil"
	"github.com/alexanderramin/signup/internal/validate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func immediate(_ time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func newTestForm(t *testing.T, svc *testutil.FakeService, opts ...form.Option) *form.Form {
	t.Helper()
	opts = append([]form.Option{form.WithScheduler(immediate)}, opts...)
	return form.New(svc, config.DefaultConfig().Form, opts...)
}

// drain runs cmd and every command it leads to, feeding each message back
// into f until nothing is left.
func drain(t *testing.T, f *form.Form, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "command chain did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		queue = append(queue, f.Update(msg))
	}
}

func fill(t *testing.T, f *form.Form, email, password string) {
	t.Helper()
	drain(t, f, f.Set(domain.FieldEmail, email))
	drain(t, f, f.Set(domain.FieldPassword, password))
}

func TestForm_InitialStateIsInvalid(t *testing.T) {
	f := newTestForm(t, testutil.NewFakeService())

	assert.Equal(t, domain.FormInvalid, f.State())
	assert.False(t, f.Touched(domain.FieldEmail))
	assert.Equal(t, validate.MsgEmailRequired, f.Error(domain.FieldEmail))
	assert.Equal(t, validate.MsgPasswordRequired, f.Error(domain.FieldPassword))
	assert.Equal(t, domain.SubmitIdle, f.Status())
	assert.Nil(t, f.Submit())
}

func TestForm_SubmitSucceedsAndResets(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc)

	fill(t, f, "Zuzu@mail.com", "12345Zocika.")
	require.Equal(t, domain.FormValid, f.State())

	cmd := f.Submit()
	require.NotNil(t, cmd)
	assert.True(t, f.Submitting())
	assert.Nil(t, f.Submit(), "second submit while in flight")

	drain(t, f, cmd)

	_, _, signups := svc.Calls()
	require.Len(t, signups, 1)
	assert.Equal(t, domain.Credentials{Email: "Zuzu@mail.com", Password: "12345Zocika."}, signups[0])
	assert.Equal(t, domain.SubmitSuccess, f.Status())
	assert.False(t, f.Submitting())
	assert.Empty(t, f.Value(domain.FieldEmail))
	assert.Empty(t, f.Value(domain.FieldPassword))
	assert.False(t, f.Touched(domain.FieldEmail))
	assert.Equal(t, domain.FormInvalid, f.State())
}

func TestForm_EmailBecomesTakenOnSecondCheck(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetTaken("abcd@hyundai.com", false, true)
	f := newTestForm(t, svc)

	fill(t, f, "abcd@hyundai.com", "12345Zocika.")
	require.Equal(t, domain.FormValid, f.State())

	drain(t, f, f.Revalidate())

	assert.Equal(t, form.MsgEmailTaken, f.Error(domain.FieldEmail))
	assert.Equal(t, domain.FormInvalid, f.State())
	assert.Nil(t, f.Submit())
	_, _, signups := svc.Calls()
	assert.Empty(t, signups)

	// A different, free address recovers the form.
	cmd := f.Set(domain.FieldEmail, "free@hyundai.com")
	assert.Equal(t, domain.FormPending, f.State())
	drain(t, f, cmd)
	assert.Equal(t, domain.FormValid, f.State())
	assert.Empty(t, f.Error(domain.FieldEmail))
}

func TestForm_RoutesMessagesToOwningField(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc)

	emailWindow := f.Set(domain.FieldEmail, "Zuzu@mail.com")
	passwordWindow := f.Set(domain.FieldPassword, "12345Zocika.")

	assert.Nil(t, f.Update(tea.KeyMsg{Type: tea.KeyEnter}))

	drain(t, f, passwordWindow)
	assert.Equal(t, 1, f.Checks(domain.FieldPassword))
	assert.Equal(t, 0, f.Checks(domain.FieldEmail))
	assert.True(t, f.Verdict(domain.FieldEmail).IsPending())

	drain(t, f, emailWindow)
	assert.Equal(t, 1, f.Checks(domain.FieldEmail))
	assert.Equal(t, domain.FormValid, f.State())
}

func TestForm_SubmitErrorKeepsValues(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.FailSignup(fmt.Errorf("%w: address not allowed", remote.ErrRejected))
	f := newTestForm(t, svc)

	fill(t, f, "Zuzu@mail.com", "12345Zocika.")
	drain(t, f, f.Submit())

	assert.Equal(t, domain.SubmitError, f.Status())
	assert.ErrorIs(t, f.SubmitErr(), remote.ErrRejected)
	assert.Equal(t, "Zuzu@mail.com", f.Value(domain.FieldEmail))
	assert.Equal(t, "12345Zocika.", f.Value(domain.FieldPassword))
	assert.True(t, f.Valid())

	svc.FailSignup(nil)
	drain(t, f, f.Submit())
	assert.Equal(t, domain.SubmitSuccess, f.Status())
	assert.Nil(t, f.SubmitErr())
}

func TestForm_RapidEditsIssueOneCheck(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc)

	var windows []tea.Cmd
	for _, v := range []string{"z@m.co", "zu@m.co", "zuz@m.co", "zuzu@mail.com"} {
		windows = append(windows, f.Set(domain.FieldEmail, v))
	}
	assert.True(t, f.Verdict(domain.FieldEmail).IsPending())

	for _, w := range windows {
		drain(t, f, w)
	}

	emails, _, _ := svc.Calls()
	assert.Equal(t, []string{"zuzu@mail.com"}, emails)
	assert.Equal(t, 1, f.Checks(domain.FieldEmail))
	assert.True(t, f.Verdict(domain.FieldEmail).IsValid())
}

func TestForm_StaleResultIgnored(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetTaken("old@example.com", true)
	f := newTestForm(t, svc)

	window := f.Set(domain.FieldEmail, "old@example.com")
	check := f.Update(window())
	require.NotNil(t, check)
	stale := check()

	drain(t, f, f.Set(domain.FieldEmail, "new@example.com"))
	require.True(t, f.Verdict(domain.FieldEmail).IsValid())

	assert.Nil(t, f.Update(stale))
	assert.True(t, f.Verdict(domain.FieldEmail).IsValid())
}

func TestForm_MalformedEmailSkipsRemoteCheck(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc)

	assert.Nil(t, f.Set(domain.FieldEmail, "not-an-email"))

	emails, _, _ := svc.Calls()
	assert.Empty(t, emails)
	assert.Equal(t, validate.MsgEmailFormat, f.Error(domain.FieldEmail))
	assert.True(t, f.Touched(domain.FieldEmail))
}

func TestForm_SyncFailureDropsOutstandingCheck(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc)

	window := f.Set(domain.FieldEmail, "zuzu@mail.com")
	assert.Nil(t, f.Set(domain.FieldEmail, ""))

	assert.Nil(t, f.Update(window()))
	emails, _, _ := svc.Calls()
	assert.Empty(t, emails)
	assert.Equal(t, validate.MsgEmailRequired, f.Error(domain.FieldEmail))
}

func TestForm_UnchangedValueIsNoop(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc)

	drain(t, f, f.Set(domain.FieldEmail, "zuzu@mail.com"))
	assert.Nil(t, f.Set(domain.FieldEmail, "zuzu@mail.com"))
	assert.Equal(t, 1, f.Checks(domain.FieldEmail))
}

func TestForm_PasswordThreshold(t *testing.T) {
	tests := []struct {
		score int
		valid bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{4, true},
	}
	for _, tc := range tests {
		svc := testutil.NewFakeService()
		svc.SetScore("Secret-pass1", tc.score)
		f := newTestForm(t, svc)

		drain(t, f, f.Set(domain.FieldPassword, "Secret-pass1"))

		v := f.Verdict(domain.FieldPassword)
		if tc.valid {
			assert.True(t, v.IsValid(), "score %d", tc.score)
		} else {
			assert.Equal(t, form.MsgPasswordWeak, v.Reason, "score %d", tc.score)
		}
		s, ok := f.PasswordStrength()
		require.True(t, ok)
		assert.Equal(t, tc.score, s.Score)
	}
}

func TestForm_TransportFailureStaysPendingUntilRetry(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.FailStrength(testutil.ErrFakeTransport)
	f := newTestForm(t, svc)

	fill(t, f, "zuzu@mail.com", "12345Zocika.")
	assert.True(t, f.Verdict(domain.FieldPassword).IsPending())
	assert.Equal(t, domain.FormPending, f.State())
	assert.Nil(t, f.Submit())
	_, ok := f.PasswordStrength()
	assert.False(t, ok)

	svc.FailStrength(nil)
	drain(t, f, f.Retry())

	assert.True(t, f.Verdict(domain.FieldPassword).IsValid())
	assert.Equal(t, domain.FormValid, f.State())
	_, strength, _ := svc.Calls()
	assert.Len(t, strength, 2)
	emails, _, _ := svc.Calls()
	assert.Len(t, emails, 1, "retry leaves settled fields alone")
}

func TestForm_RecordsAttempts(t *testing.T) {
	svc := testutil.NewFakeService()
	rec := &memRecorder{}
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	f := newTestForm(t, svc, form.WithRecorder(rec), form.WithClock(func() time.Time { return at }))

	fill(t, f, "zuzu@mail.com", "12345Zocika.")
	svc.FailSignup(fmt.Errorf("%w: slow", remote.ErrTimeout))
	drain(t, f, f.Submit())
	svc.FailSignup(nil)
	drain(t, f, f.Submit())

	require.Len(t, rec.attempts, 2)
	assert.Equal(t, domain.SubmitError, rec.attempts[0].Status)
	assert.Equal(t, "TIMEOUT", rec.attempts[0].ErrorCode)
	assert.Equal(t, domain.SubmitSuccess, rec.attempts[1].Status)
	assert.Equal(t, "zuzu@mail.com", rec.attempts[1].Email)
	assert.Equal(t, at, rec.attempts[1].CreatedAt)
	assert.NotEqual(t, rec.attempts[0].ID, rec.attempts[1].ID)
}

func TestForm_RecorderFailureDoesNotBlockSubmit(t *testing.T) {
	svc := testutil.NewFakeService()
	f := newTestForm(t, svc, form.WithRecorder(testutil.FailingRecorder{Err: errors.New("disk full")}))

	fill(t, f, "zuzu@mail.com", "12345Zocika.")
	drain(t, f, f.Submit())

	assert.Equal(t, domain.SubmitSuccess, f.Status())
}

func TestForm_ResetKeepsStatus(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.FailSignup(remote.ErrUnavailable)
	f := newTestForm(t, svc)

	fill(t, f, "zuzu@mail.com", "12345Zocika.")
	drain(t, f, f.Submit())
	require.Equal(t, domain.SubmitError, f.Status())

	f.Reset()
	assert.Equal(t, domain.SubmitError, f.Status())
	assert.Empty(t, f.Value(domain.FieldEmail))
	assert.Equal(t, domain.FormInvalid, f.State())
}

type memRecorder struct {
	attempts []domain.SignupAttempt
}

func (r *memRecorder) Create(_ context.Context, a *domain.SignupAttempt) error {
	r.attempts = append(r.attempts, *a)
	return nil
}
