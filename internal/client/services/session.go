package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

const minPasswordLen = 8

// TokenStore persists the access token between runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Navigator receives view changes requested by the session store. replace
// means the current view must not be reachable by going back.
type Navigator interface {
	Navigate(view models.View, replace bool)
}

// SessionStore is the single owner of the access token and the current
// user. The user is only ever set while a token is held.
type SessionStore struct {
	client client.Client
	tokens TokenStore
	nav    Navigator
	log    logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	token   string
	user    *models.User
	loading bool
}

// NewSessionStore returns a store in the loading state. Call Restore once
// to pick up a persisted token and leave that state.
func NewSessionStore(c client.Client, tokens TokenStore, nav Navigator, log logging.Logger) *SessionStore {
	return &SessionStore{
		client:  c,
		tokens:  tokens,
		nav:     nav,
		log:     log.With("component", "session"),
		now:     time.Now,
		loading: true,
	}
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the last fetched user, or nil.
func (s *SessionStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether start-up restoration is still in progress.
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Restore reads the persisted token. An expired JWT is discarded; any other
// token is kept and the current user is fetched for it. Only storage
// failures are returned.
func (s *SessionStore) Restore(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "load persisted token", "error", err)
		return err
	}
	if token == "" {
		return nil
	}

	if err := common.CheckTokenFresh(token, s.now()); err != nil {
		s.log.Info(ctx, "discarding persisted token", "reason", err)
		if err := s.tokens.Clear(ctx); err != nil {
			s.log.Warn(ctx, "clear persisted token", "error", err)
		}
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if _, err := s.FetchUser(ctx); err != nil && !errors.Is(err, ErrSessionExpired) {
		s.log.Warn(ctx, "fetch user for restored session", "error", err)
	}
	return nil
}

// SignIn exchanges credentials for a token, persists it, loads the user and
// navigates to the dashboard. Transport failures are reported as
// ErrSignInFailed without detail.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	if email == "" || password == "" {
		ve := newValidationError()
		ve.add(FieldForm, "Please enter email and password")
		return nil, ve
	}

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", email, "error", err)
		return nil, ErrSignInFailed
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Save(ctx, resp.AccessToken); err != nil {
		s.log.Warn(ctx, "persist token", "error", err)
	}

	if _, err := s.FetchUser(ctx); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, ErrSignInFailed
		}
		s.log.Warn(ctx, "fetch user after login", "error", err)
	}

	s.log.Info(ctx, "signed in", "email", email)
	s.nav.Navigate(models.ViewDashboard, false)
	return resp, nil
}

// SignOut forgets the session in memory and on disk and sends the user to
// the sign-in view. It cannot fail; storage errors are only logged.
func (s *SessionStore) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clear persisted token", "error", err)
	}

	s.log.Info(ctx, "signed out")
	s.nav.Navigate(models.ViewSignIn, true)
}

// Register validates the input locally and only then calls the server. A
// failure flag in a successful answer is attributed to the email field.
func (s *SessionStore) Register(ctx context.Context, email, password string) error {
	if ve := validateRegistration(email, password); ve != nil {
		return ve
	}

	resp, err := s.client.Register(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "register failed", "email", email, "error", err)
		return ErrRegisterFailed
	}

	if resp.Failed() {
		msg := resp.Text()
		if msg == "" {
			msg = "Failed to register"
		}
		ve := newValidationError()
		ve.add(FieldEmail, msg)
		return ve
	}

	s.log.Info(ctx, "registered", "email", email)
	return nil
}

func validateRegistration(email, password string) *ValidationError {
	ve := newValidationError()
	if email == "" {
		ve.add(FieldEmail, "Please enter email")
	}
	if password == "" {
		ve.add(FieldPassword, "Please enter password")
	}
	if !ve.empty() {
		return ve
	}

	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		ve.add(FieldEmail, "Please enter a valid email")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		ve.add(FieldPassword, "Password must be at least 8 characters")
	}
	if !ve.empty() {
		return ve
	}
	return nil
}

// FetchUser refreshes the current user. Without a token it returns
// (nil, nil) and makes no call. A rejected token signs the session out and
// yields ErrSessionExpired; other failures leave the state unchanged.
func (s *SessionStore) FetchUser(ctx context.Context) (*models.User, error) {
	token := s.Token()
	if token == "" {
		return nil, nil
	}

	user, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.log.Info(ctx, "token rejected", "error", err)
			if s.Token() == token {
				s.SignOut(ctx)
			}
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session may have changed while the request was in flight.
	if s.token != token {
		return nil, nil
	}
	s.user = user
	return user, nil
}
