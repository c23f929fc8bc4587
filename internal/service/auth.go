package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
	apperrors "github.com/stayseek/gateway/internal/errors"
	"github.com/stayseek/gateway/internal/observability/metrics"
	"github.com/stayseek/gateway/internal/ports"
)

// defaultRotationThreshold triggers a session re-key when the remaining
// lifetime drops below it.
const defaultRotationThreshold = 5 * time.Minute

// defaultSessionExtension is the fresh lifetime granted on rotation.
const defaultSessionExtension = 30 * time.Minute

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// RotationThreshold and SessionExtension tune near-expiry rotation.
	// Zero values take the package defaults.
	RotationThreshold time.Duration
	SessionExtension  time.Duration
}

// AuthService orchestrates authentication flows by coordinating provider,
// role mapping, and session persistence, and resolves per-request sessions.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	logger   *slog.Logger
	metrics  *metrics.Metrics

	rotationThreshold time.Duration
	sessionExtension  time.Duration
	now               func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := opts.RotationThreshold
	if threshold <= 0 {
		threshold = defaultRotationThreshold
	}
	extension := opts.SessionExtension
	if extension <= 0 {
		extension = defaultSessionExtension
	}
	return &AuthService{
		provider:          opts.Provider,
		sessions:          opts.Sessions,
		roles:             opts.Roles,
		logger:            logger,
		metrics:           opts.Metrics,
		rotationThreshold: threshold,
		sessionExtension:  extension,
		now:               time.Now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow by exchanging the code for
// an identity, mapping the role, and persisting a session. The code is
// single-use: a failed exchange is never retried here or by callers.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, apperrors.ExchangeFailed(err)
	}

	role := s.roles.Map(identity.Groups)

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// Resolve turns a session cookie value into a session for one request.
// Any store miss, error, or expired record resolves to a nil session: an
// unverifiable credential is treated as signed-out, never as an error the
// caller must handle.
//
// When the remaining lifetime is below the rotation threshold the session is
// re-keyed with a fresh id and extended expiry; the returned credential is
// then non-empty and must replace the client's cookie before any
// authorization decision is surfaced.
func (s *AuthService) Resolve(ctx context.Context, credential string) (sess *domainauth.Session, newCredential string) {
	if credential == "" {
		return nil, ""
	}

	session, err := s.sessions.Get(ctx, credential)
	if err != nil {
		// A store outage and a plain miss both mean "not signed in";
		// the distinction matters only for logging.
		s.logger.Debug("session lookup failed", "error", err)
		return nil, ""
	}

	now := s.now()
	if session.Expired(now) {
		if deleteErr := s.sessions.Delete(ctx, credential); deleteErr != nil {
			s.logger.Warn("delete expired session failed", "error", deleteErr)
		}
		return nil, ""
	}

	if now.Add(s.rotationThreshold).Before(session.ExpiresAt) {
		return &session, ""
	}

	// Near expiry: rotate. Failure keeps the current credential; the
	// session simply expires on schedule.
	rotated := session
	rotated.ExpiresAt = now.Add(s.sessionExtension)
	fresh, rotateErr := s.sessions.Rotate(ctx, rotated)
	if rotateErr != nil {
		if !errors.Is(rotateErr, ports.ErrRotationUnsupported) {
			s.logger.Warn("session rotation failed", "error", rotateErr)
		}
		return &session, ""
	}

	s.metrics.SessionRotated()
	s.logger.Debug("session rotated", "user_id", fresh.UserID)
	return &fresh, fresh.ID
}

// GetSession retrieves a session by ID, deleting it if expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
