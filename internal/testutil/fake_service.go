package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/alexanderramin/signup/internal/domain"
)

// ErrFakeTransport is the default failure injected by FakeService.
var ErrFakeTransport = errors.New("fake transport failure")

// FakeService is a scripted, goroutine-safe stand-in for the remote
// signup service. The zero value answers "not taken", score 4 and a
// successful signup.
type FakeService struct {
	mu sync.Mutex

	taken     map[string][]bool
	scores    map[string]int
	emailErr  error
	strongErr error
	signupErr error
	offline   bool

	EmailCalls    []string
	StrengthCalls []string
	SignupCalls   []domain.Credentials
}

// NewFakeService returns a FakeService with default answers.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// SetTaken scripts successive answers for email. The last answer repeats.
func (f *FakeService) SetTaken(email string, answers ...bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken == nil {
		f.taken = make(map[string][]bool)
	}
	f.taken[email] = answers
}

// SetScore fixes the strength score reported for password.
func (f *FakeService) SetScore(password string, score int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scores == nil {
		f.scores = make(map[string]int)
	}
	f.scores[password] = score
}

// FailEmail makes email checks fail with err until cleared with nil.
func (f *FakeService) FailEmail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emailErr = err
}

// FailStrength makes strength checks fail with err until cleared with nil.
func (f *FakeService) FailStrength(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strongErr = err
}

// FailSignup makes signup calls fail with err until cleared with nil.
func (f *FakeService) FailSignup(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signupErr = err
}

func (f *FakeService) IsEmailTaken(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EmailCalls = append(f.EmailCalls, email)
	if f.emailErr != nil {
		return false, f.emailErr
	}
	answers := f.taken[email]
	if len(answers) == 0 {
		return false, nil
	}
	taken := answers[0]
	if len(answers) > 1 {
		f.taken[email] = answers[1:]
	}
	return taken, nil
}

func (f *FakeService) PasswordStrength(_ context.Context, password string) (domain.PasswordStrength, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StrengthCalls = append(f.StrengthCalls, password)
	if f.strongErr != nil {
		return domain.PasswordStrength{}, f.strongErr
	}
	score, ok := f.scores[password]
	if !ok {
		score = domain.MaxPasswordScore
	}
	s := domain.PasswordStrength{Score: score}
	if score < domain.DefaultMinPasswordScore {
		s.Warning = "This is a very common password."
		s.Suggestions = []string{"Add another word or two.", "Avoid sequences."}
	}
	return s, nil
}

func (f *FakeService) Signup(_ context.Context, creds domain.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignupCalls = append(f.SignupCalls, creds)
	return f.signupErr
}

// SetOffline makes Available report false.
func (f *FakeService) SetOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *FakeService) Available(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.offline
}

// Calls returns copies of the recorded calls.
func (f *FakeService) Calls() (email, strength []string, signup []domain.Credentials) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.EmailCalls...),
		append([]string(nil), f.StrengthCalls...),
		append([]domain.Credentials(nil), f.SignupCalls...)
}

// FailingRecorder rejects every attempt it is asked to store.
type FailingRecorder struct {
	Err error
}

func (r FailingRecorder) Create(context.Context, *domain.SignupAttempt) error {
	if r.Err != nil {
		return r.Err
	}
	return errors.New("recorder unavailable")
}
