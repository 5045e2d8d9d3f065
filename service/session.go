package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pratyushashukla/IP-BE/db"
	"github.com/pratyushashukla/IP-BE/models"
)

// IdleTimeout ends a session after this long without an authenticated
// request, independent of the credential's own expiry.
const IdleTimeout = 30 * time.Minute

// SessionService decides, per request, whether a presented credential
// yields a live session. On success it stamps activity and rotates the
// credential so every authenticated request extends the usable window.
type SessionService struct {
	users     db.UserStore
	tokens    *TokenService
	idleLimit time.Duration
	now       func() time.Time
}

type SessionOption func(*SessionService)

// WithIdleLimit overrides the inactivity window, used by tests.
func WithIdleLimit(limit time.Duration) SessionOption {
	return func(s *SessionService) { s.idleLimit = limit }
}

// WithSessionClock overrides the clock, used by tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

func NewSessionService(users db.UserStore, tokens *TokenService, opts ...SessionOption) *SessionService {
	s := &SessionService{
		users:     users,
		tokens:    tokens,
		idleLimit: IdleTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluation is a successful session verdict: the authenticated identity
// plus the rotated credential the client should persist.
type Evaluation struct {
	Identity       models.Identity
	RefreshedToken string
}

// Evaluate runs the per-request session state machine, short-circuiting
// on the first failure:
//
//  1. no credential          -> ErrMissingCredential
//  2. codec failure          -> ErrCredentialMalformed / ErrCredentialExpired
//  3. unknown user           -> ErrUnknownUser
//  4. tokenStatus false      -> ErrSessionEnded
//  5. idle beyond the limit  -> MarkInactive, then ErrSessionIdle (terminal)
//  6. otherwise              -> TouchActivity, rotate credential, allow
//
// Store read failures surface as ErrStoreUnavailable; they are never
// downgraded to an accept.
func (s *SessionService) Evaluate(ctx context.Context, rawToken string) (*Evaluation, error) {
	if rawToken == "" {
		return nil, ErrMissingCredential
	}

	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	userID, err := models.ParseUserID(claims.UserID)
	if err != nil {
		slog.Error("auth token carries an unparsable user id", "error", err, "raw_id", claims.UserID)
		return nil, ErrCredentialMalformed
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		slog.Error("failed to load session record", "error", err, "user_id", userID, "op", "FindByID")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !user.TokenStatus {
		return nil, ErrSessionEnded
	}

	now := s.now()
	if s.idleElapsed(user, now) {
		// Terminal transition: the same credential stays rejected until a
		// fresh login flips the session back on.
		if err := s.users.MarkInactive(ctx, userID); err != nil {
			slog.Error("failed to end idle session", "error", err, "user_id", userID, "op", "MarkInactive")
		}
		return nil, ErrSessionIdle
	}

	if err := s.users.TouchActivity(ctx, userID, now); err != nil {
		slog.Error("failed to stamp session activity", "error", err, "user_id", userID, "op", "TouchActivity")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	refreshed, err := s.tokens.Issue(userID, user.Email)
	if err != nil {
		return nil, err
	}

	return &Evaluation{
		Identity:       models.Identity{UserID: userID, Email: user.Email},
		RefreshedToken: refreshed,
	}, nil
}

// idleElapsed measures inactivity from lastActivityTime, falling back to
// tokenCreatedAt. An active session with neither timestamp is treated as
// already idle-expired rather than granted a fresh window.
func (s *SessionService) idleElapsed(user models.User, now time.Time) bool {
	ref := user.LastActivityTime
	if ref == nil {
		ref = user.TokenCreatedAt
	}
	if ref == nil {
		return true
	}
	return now.Sub(*ref) > s.idleLimit
}
