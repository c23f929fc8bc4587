package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stayseek/gateway/internal/domain/access"
	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

// CallbackState is the lifecycle state of one callback handshake.
type CallbackState string

const (
	// CallbackPending is the initial state before the exchange runs.
	CallbackPending CallbackState = "pending"
	// CallbackSucceeded means a session exists and the user proceeds to
	// the post-login target.
	CallbackSucceeded CallbackState = "succeeded"
	// CallbackFailed means the handshake could not be completed; the user
	// returns to the login page.
	CallbackFailed CallbackState = "failed"
)

// CallbackExchanger drives exactly one auth callback handshake through
// Pending -> Succeeded | Failed. Authorization codes are single-use, so the
// exchange is attempted at most once: a second Run is a no-op returning the
// terminal state. Safe for concurrent use.
type CallbackExchanger struct {
	auth   *AuthService
	logger *slog.Logger

	mu      sync.Mutex
	state   CallbackState
	session *domainauth.Session
	target  string
}

// CallbackInput carries one callback request's parameters.
type CallbackInput struct {
	Code  string
	State string
	Nonce string

	// ExistingCredential is the session cookie presented with the
	// callback, used for recovery when no code is present (e.g. a
	// reloaded callback page after the code was already consumed).
	ExistingCredential string

	// Target is the validated post-login redirect path.
	Target string
}

// NewCallbackExchanger creates a pending exchanger for one handshake.
func NewCallbackExchanger(auth *AuthService, logger *slog.Logger) *CallbackExchanger {
	if logger == nil {
		logger = slog.Default()
	}
	return &CallbackExchanger{
		auth:   auth,
		logger: logger,
		state:  CallbackPending,
	}
}

// Run performs the handshake and returns the terminal state. With a code it
// makes the one permitted exchange attempt; without one it tries to recover
// via the existing session. Run never retries a failed exchange.
func (e *CallbackExchanger) Run(ctx context.Context, in CallbackInput) CallbackState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != CallbackPending {
		return e.state
	}

	target := in.Target
	if target == "" {
		target = access.DashboardPath
	}

	if in.Code == "" {
		// No code: a session that already exists means the handshake
		// completed in another request. Otherwise there is nothing to
		// exchange and the handshake fails.
		if sess, _ := e.auth.Resolve(ctx, in.ExistingCredential); sess != nil {
			e.state = CallbackSucceeded
			e.session = sess
			e.target = target
			return e.state
		}
		e.logger.Info("callback without code and no session, failing handshake")
		e.fail()
		return e.state
	}

	result, err := e.auth.CompleteLogin(ctx, CompleteLoginInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		e.logger.Warn("code exchange failed", "error", err)
		e.fail()
		return e.state
	}

	e.state = CallbackSucceeded
	e.session = &result.Session
	e.target = target
	return e.state
}

func (e *CallbackExchanger) fail() {
	e.state = CallbackFailed
	e.session = nil
	e.target = access.LoginPath
}

// State returns the current handshake state.
func (e *CallbackExchanger) State() CallbackState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Session returns the established session, or nil unless Succeeded.
func (e *CallbackExchanger) Session() *domainauth.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// RedirectTarget returns where the user should be sent: the post-login
// target on success, the login page on failure, empty while pending.
func (e *CallbackExchanger) RedirectTarget() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// RedirectAfter blocks for delay and then returns the redirect target,
// letting failure pages show a message before moving on. The timer is
// released if ctx ends first, in which case ctx.Err() is returned.
func (e *CallbackExchanger) RedirectAfter(ctx context.Context, delay time.Duration) (string, error) {
	if delay <= 0 {
		return e.RedirectTarget(), nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return e.RedirectTarget(), nil
	}
}
