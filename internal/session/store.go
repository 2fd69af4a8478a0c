// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/bahari/internal/market"
	"github.com/taibuivan/bahari/internal/platform/apperr"
	"github.com/taibuivan/bahari/internal/platform/sec"
	"github.com/taibuivan/bahari/pkg/listeners"
)

// # Collaborators

// API is the subset of the remote client the session store calls.
type API interface {
	RequestLogin(ctx context.Context, phoneNumber string) error
	Register(ctx context.Context, input market.RegisterInput) error
	VerifyOTP(ctx context.Context, phoneNumber, code string) (*market.LoginResult, error)
	Profile(ctx context.Context) (*market.User, error)
}

// # Display Messages

const (
	msgRequestLoginFailed = "Failed to send verification code"
	msgRegisterFailed     = "Registration failed"
	msgVerifyFailed       = "Invalid verification code"
	msgProfileFailed      = "Failed to load your profile"
	msgSessionExpired     = "Your session has expired. Please sign in again."
	msgNoPendingLogin     = "Request a verification code first"
)

// ErrNotAuthenticated is returned by operations that need a signed-in session.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// # Store

// Store owns the session slice. Every transition runs under the store lock
// and subscribers are notified after it is released.
type Store struct {
	mu        sync.Mutex
	state     State
	api       API
	vault     *Vault
	now       func() time.Time
	logger    *slog.Logger
	listeners listeners.Set
}

// Option customises a [Store].
type Option func(*Store)

// WithClock replaces the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an anonymous session store.
func NewStore(api API, vault *Vault, logger *slog.Logger, opts ...Option) *Store {
	store := &Store{
		api:    api,
		vault:  vault,
		now:    time.Now,
		logger: logger,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// State returns a copy of the current session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every transition.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	return s.listeners.Add(fn)
}

// apply runs mutate under the lock, normalises the result and notifies.
func (s *Store) apply(mutate func(*State)) State {
	s.mu.Lock()
	mutate(&s.state)
	s.state = s.state.normalise()
	next := s.state
	s.mu.Unlock()

	s.listeners.Notify()
	return next
}

// begin marks the store busy and clears the previous error.
func (s *Store) begin() {
	s.apply(func(state *State) {
		state.Loading = true
		state.Error = ""
	})
}

// fail records err as a display string and ends the loading phase.
func (s *Store) fail(err error, fallback string) {
	s.apply(func(state *State) {
		state.Loading = false
		state.Error = apperr.DisplayMessage(err, fallback)
	})
}

// # Transitions

/*
RequestLogin asks the API to send a one-time code to phoneNumber.

Description: On success the session enters OtpPending with the phone number
recorded. Any previously held credential is dropped, since the code being
requested will replace it. On failure the phase is unchanged and Error is set.

Parameters:
  - ctx: context.Context
  - phoneNumber: string (E.164)

Returns:
  - error: Validation or remote failure
*/
func (s *Store) RequestLogin(ctx context.Context, phoneNumber string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if err := market.ValidatePhone(phoneNumber); err != nil {
		s.fail(err, msgRequestLoginFailed)
		return err
	}

	s.begin()

	if err := s.api.RequestLogin(ctx, phoneNumber); err != nil {
		s.logger.Warn("otp_request_failed", slog.Any("error", err))
		s.fail(err, msgRequestLoginFailed)
		return fmt.Errorf("request_login_failed: %w", err)
	}

	s.enterPending(ctx, phoneNumber)
	s.logger.Info("otp_requested")
	return nil
}

// Register enrols a new account and, like [Store.RequestLogin], moves the
// session to OtpPending for the registered phone number.
func (s *Store) Register(ctx context.Context, input market.RegisterInput) error {
	input.FullName = strings.TrimSpace(input.FullName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if input.Role == "" {
		input.Role = sec.RoleCustomer
	}

	if err := input.Validate(); err != nil {
		s.fail(err, msgRegisterFailed)
		return err
	}

	s.begin()

	if err := s.api.Register(ctx, input); err != nil {
		s.logger.Warn("registration_failed", slog.Any("error", err))
		s.fail(err, msgRegisterFailed)
		return fmt.Errorf("register_failed: %w", err)
	}

	s.enterPending(ctx, input.PhoneNumber)
	s.logger.Info("registration_submitted", slog.String("role", string(input.Role)))
	return nil
}

func (s *Store) enterPending(ctx context.Context, phoneNumber string) {
	if s.State().IsAuthenticated {
		s.evict(ctx)
	}

	s.apply(func(state *State) {
		*state = State{
			PendingPhoneNumber: phoneNumber,
			OTPSent:            true,
		}
	})
}

/*
VerifyOTP exchanges a one-time code for a session.

Description: An empty phoneNumber falls back to the pending one. On success
the token is written to the vault and the session becomes Authenticated with
the pending fields cleared. On failure the session stays where it was with
Error set.

Parameters:
  - ctx: context.Context
  - phoneNumber: string (optional)
  - code: string

Returns:
  - error: Validation, remote or storage failure
*/
func (s *Store) VerifyOTP(ctx context.Context, phoneNumber, code string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		phoneNumber = s.State().PendingPhoneNumber
	}
	if phoneNumber == "" {
		err := apperr.ValidationError(msgNoPendingLogin, apperr.FieldError{Field: market.FieldPhoneNumber, Message: msgNoPendingLogin})
		s.fail(err, msgVerifyFailed)
		return err
	}

	code = strings.TrimSpace(code)
	if err := market.ValidateOTP(phoneNumber, code); err != nil {
		s.fail(err, msgVerifyFailed)
		return err
	}

	s.begin()

	result, err := s.api.VerifyOTP(ctx, phoneNumber, code)
	if err == nil && result.Token == "" {
		err = apperr.FromStatus(http.StatusBadGateway, errors.New("verify response carried no token"))
	}
	if err != nil {
		s.logger.Warn("otp_verify_failed", slog.Any("error", err))
		s.fail(err, msgVerifyFailed)
		return fmt.Errorf("verify_otp_failed: %w", err)
	}

	if err := s.vault.Save(ctx, result.Token); err != nil {
		s.logger.Error("token_persist_failed", slog.Any("error", err))
		s.fail(err, msgVerifyFailed)
		return err
	}

	user := result.User
	s.apply(func(state *State) {
		*state = State{
			UserID:          user.ID,
			User:            &user,
			Token:           result.Token,
			IsAuthenticated: true,
		}
	})

	s.logger.Info("session_started", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return nil
}

// Logout returns the session to Anonymous and evicts the stored token.
// It cannot fail; storage errors are logged.
func (s *Store) Logout(ctx context.Context) {
	s.evict(ctx)
	s.apply(func(state *State) { *state = State{} })
	s.logger.Info("session_ended")
}

// Expire is the 401 path: the session returns to Anonymous with an
// explanatory error. The caller has already evicted the token.
func (s *Store) Expire(ctx context.Context) {
	s.apply(func(state *State) { *state = State{Error: msgSessionExpired} })
	s.logger.Info("session_expired")
}

/*
FetchProfile reloads the signed-in user.

Description: A failure is recorded but never signs the user out; a 401 is
handled by the remote client's unauthorized stage, which calls [Store.Expire].

Parameters:
  - ctx: context.Context

Returns:
  - error: ErrNotAuthenticated or the remote failure
*/
func (s *Store) FetchProfile(ctx context.Context) error {
	if s.State().Token == "" {
		return ErrNotAuthenticated
	}

	s.begin()

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Warn("profile_fetch_failed", slog.Any("error", err))
		if apperr.HasStatus(err, http.StatusUnauthorized) {
			s.apply(func(state *State) { state.Loading = false })
		} else {
			s.fail(err, msgProfileFailed)
		}
		return fmt.Errorf("fetch_profile_failed: %w", err)
	}

	s.apply(func(state *State) {
		state.Loading = false
		if !state.IsAuthenticated {
			return
		}
		state.User = user
		state.UserID = user.ID
	})
	return nil
}

// ClearError dismisses the current error message.
func (s *Store) ClearError() {
	s.apply(func(state *State) { state.Error = "" })
}

func (s *Store) evict(ctx context.Context) {
	if err := s.vault.Evict(ctx); err != nil {
		s.logger.Error("token_evict_failed", slog.Any("error", err))
	}
}

// # Persistence

// Snapshot returns the persistable part of the session.
func (s *Store) Snapshot() State {
	state := s.State()
	state.Loading = false
	state.Error = ""
	return state
}

/*
Restore replaces the session with a persisted snapshot.

Description: The snapshot is normalised first. An authenticated snapshot is
then checked against the vault and the token itself: if the vault no longer
holds the token (it was evicted by a 401) or the token's expiry has passed,
the session is restored as Anonymous and the vault is cleared.

Parameters:
  - ctx: context.Context
  - snapshot: State

Returns:
  - error: Always nil; unusable snapshots degrade to Anonymous
*/
func (s *Store) Restore(ctx context.Context, snapshot State) error {
	snapshot.Loading = false
	snapshot.Error = ""
	snapshot = snapshot.normalise()

	if snapshot.IsAuthenticated && !s.credentialValid(ctx, snapshot.Token) {
		s.evict(ctx)
		snapshot = State{}
	}

	s.apply(func(state *State) { *state = snapshot })
	s.logger.Debug("session_restored", slog.String("phase", string(snapshot.Phase())))
	return nil
}

func (s *Store) credentialValid(ctx context.Context, token string) bool {
	stored, ok, err := s.vault.Token(ctx)
	if err != nil {
		// Unreadable storage: trust the snapshot and let the API decide.
		s.logger.Warn("credential_check_skipped", slog.Any("error", err))
	} else if !ok || stored != token {
		s.logger.Info("session_credential_missing")
		return false
	}

	claims, err := sec.PeekClaims(token)
	if err != nil {
		// Opaque tokens are accepted as-is.
		return true
	}

	if claims.ExpiredAt(s.now()) {
		s.logger.Info("session_token_expired")
		return false
	}
	return true
}
