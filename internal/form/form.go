// Package form owns the signup form aggregate: field values, sync and async
// verdicts, the derived overall validity, and the submit pipeline.
//
// A Form is not safe for concurrent use. It is meant to be owned by a single
// bubbletea model and mutated only from its Update method; remote work runs
// inside the returned tea.Cmds and comes back as messages passed to Update.
package form

import (
	"context"
	"time"

	"github.com/alexanderramin/signup/internal/checker"
	"github.com/alexanderramin/signup/internal/config"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/validate"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Form is the single owned aggregate behind the signup screen.
type Form struct {
	cfg      config.FormConfig
	svc      Service
	recorder AttemptRecorder
	log      *zap.Logger
	now      func() time.Time
	ctx      context.Context

	values   map[domain.Field]string
	touched  map[domain.Field]bool
	rules    map[domain.Field]validate.Rules
	failures map[domain.Field][]validate.Failure

	email    *EmailUniquenessValidator
	password *PasswordStrengthValidator
	async    map[domain.Field]AsyncValidator

	status     domain.SubmitStatus
	submitting bool
	submitErr  error
}

// Option configures a Form.
type Option func(*formOptions)

type formOptions struct {
	recorder  AttemptRecorder
	log       *zap.Logger
	now       func() time.Time
	ctx       context.Context
	scheduler checker.Scheduler
}

// WithRecorder stores every finished submit through r.
func WithRecorder(r AttemptRecorder) Option {
	return func(o *formOptions) { o.recorder = r }
}

// WithLogger sets the logger for check failures and submit outcomes.
func WithLogger(log *zap.Logger) Option {
	return func(o *formOptions) { o.log = log }
}

// WithClock overrides time.Now for attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *formOptions) { o.now = now }
}

// WithContext sets the context remote calls run under.
func WithContext(ctx context.Context) Option {
	return func(o *formOptions) { o.ctx = ctx }
}

// WithScheduler replaces tea.Tick for the debounce windows.
func WithScheduler(s checker.Scheduler) Option {
	return func(o *formOptions) { o.scheduler = s }
}

// New creates an empty form backed by svc.
func New(svc Service, cfg config.FormConfig, opts ...Option) *Form {
	o := formOptions{
		log: zap.NewNop(),
		now: time.Now,
		ctx: context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	f := &Form{
		cfg:      cfg,
		svc:      svc,
		recorder: o.recorder,
		log:      o.log.Named("form"),
		now:      o.now,
		ctx:      o.ctx,
		values:   make(map[domain.Field]string),
		touched:  make(map[domain.Field]bool),
		failures: make(map[domain.Field][]validate.Failure),
		rules: map[domain.Field]validate.Rules{
			domain.FieldEmail:    validate.EmailRules(cfg.EmailMaxLength),
			domain.FieldPassword: validate.PasswordRules(),
		},
		status: domain.SubmitIdle,
	}

	checkerOpts := func(field domain.Field) []checker.Option {
		co := []checker.Option{
			checker.WithContext(o.ctx),
			checker.OnError(func(_ string, err error) {
				f.log.Warn("remote check failed, verdict stays pending",
					zap.String("field", string(field)), zap.Error(err))
			}),
		}
		if o.scheduler != nil {
			co = append(co, checker.WithScheduler(o.scheduler))
		}
		return co
	}

	f.email = NewEmailUniquenessValidator(svc.IsEmailTaken, cfg.EmailDebounce(), checkerOpts(domain.FieldEmail)...)
	f.password = NewPasswordStrengthValidator(svc.PasswordStrength, cfg.PasswordDebounce(), cfg.MinPasswordScore, checkerOpts(domain.FieldPassword)...)
	f.async = map[domain.Field]AsyncValidator{
		domain.FieldEmail:    f.email,
		domain.FieldPassword: f.password,
	}

	f.clear()
	return f
}

// Set records a user edit. Sync rules run at once; when they pass, the
// field's async validator starts a new debounced cycle, otherwise any
// outstanding async work for the field is dropped.
func (f *Form) Set(field domain.Field, value string) tea.Cmd {
	rules, ok := f.rules[field]
	if !ok {
		return nil
	}
	if f.touched[field] && f.values[field] == value {
		return nil
	}

	f.values[field] = value
	f.touched[field] = true
	f.failures[field] = rules.Run(value)

	v := f.async[field]
	if len(f.failures[field]) > 0 {
		v.Reset()
		return nil
	}
	return v.Validate(value)
}

// Revalidate restarts the async cycle of every field whose sync rules pass.
func (f *Form) Revalidate() tea.Cmd {
	var cmds []tea.Cmd
	for _, field := range domain.Fields {
		if len(f.failures[field]) > 0 {
			continue
		}
		cmds = append(cmds, f.async[field].Validate(f.values[field]))
	}
	return tea.Batch(cmds...)
}

// Retry re-issues the remote check of every field still waiting on a
// verdict, e.g. after a transport failure.
func (f *Form) Retry() tea.Cmd {
	var cmds []tea.Cmd
	for _, field := range domain.Fields {
		if len(f.failures[field]) > 0 {
			continue
		}
		if f.async[field].Verdict().IsPending() {
			cmds = append(cmds, f.async[field].Retry())
		}
	}
	return tea.Batch(cmds...)
}

// Update routes checker and submit messages. Other messages are ignored.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if res, ok := msg.(SubmitResultMsg); ok {
		f.finishSubmit(res)
		return nil
	}
	for _, field := range domain.Fields {
		if v := f.async[field]; v.Handles(msg) {
			cmd, _ := v.Update(msg)
			return cmd
		}
	}
	return nil
}

// Value returns the field's current value.
func (f *Form) Value(field domain.Field) string { return f.values[field] }

// Touched reports whether the user has edited the field since the last reset.
func (f *Form) Touched(field domain.Field) bool { return f.touched[field] }

// Failures returns every sync rule the field currently violates.
func (f *Form) Failures(field domain.Field) []validate.Failure {
	return append([]validate.Failure(nil), f.failures[field]...)
}

// Verdict combines the field's sync failures and async verdict.
func (f *Form) Verdict(field domain.Field) domain.Verdict {
	if fs := f.failures[field]; len(fs) > 0 {
		return domain.Invalid(fs[0].Message)
	}
	v, ok := f.async[field]
	if !ok {
		return domain.Pending()
	}
	return v.Verdict()
}

// Error returns the message to show for the field, or "".
func (f *Form) Error(field domain.Field) string {
	return f.Verdict(field).Reason
}

// State derives the aggregate validity. Any empty or failing field makes
// the form invalid; otherwise an outstanding async verdict keeps it pending.
func (f *Form) State() domain.FormState {
	pending := false
	for _, field := range domain.Fields {
		if f.values[field] == "" || len(f.failures[field]) > 0 {
			return domain.FormInvalid
		}
		switch f.async[field].Verdict().State {
		case domain.VerdictInvalid:
			return domain.FormInvalid
		case domain.VerdictPending:
			pending = true
		}
	}
	if pending {
		return domain.FormPending
	}
	return domain.FormValid
}

// Valid reports whether the form may be submitted.
func (f *Form) Valid() bool { return f.State() == domain.FormValid }

// PasswordStrength returns the settled strength estimate for the current password.
func (f *Form) PasswordStrength() (domain.PasswordStrength, bool) {
	return f.password.Strength()
}

// MinPasswordScore returns the lowest accepted strength score.
func (f *Form) MinPasswordScore() int { return f.password.MinScore() }

// Checks returns how many remote checks the field's validator has issued.
func (f *Form) Checks(field domain.Field) int {
	if v, ok := f.async[field]; ok {
		return v.Checks()
	}
	return 0
}

// Snapshot copies the current values for submission.
func (f *Form) Snapshot() domain.Credentials {
	return domain.Credentials{
		Email:    f.values[domain.FieldEmail],
		Password: f.values[domain.FieldPassword],
	}
}

// Reset returns every field and verdict to its initial state. Outstanding
// async work turns stale. The submit status is left as is.
func (f *Form) Reset() {
	f.clear()
	for _, field := range domain.Fields {
		f.async[field].Reset()
	}
}

func (f *Form) clear() {
	for field, rules := range f.rules {
		f.values[field] = ""
		f.touched[field] = false
		f.failures[field] = rules.Run("")
	}
}
