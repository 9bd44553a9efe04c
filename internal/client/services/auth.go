package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/logging"
)

// AuthState is a snapshot of the auth store.
type AuthState struct {
	User          *models.User
	Token         string
	Authenticated bool
}

// AuthService owns the current user and session token.
//
// Contract:
//   - Login/Register: on success the token is persisted and the state set.
//   - Logout: always clears local state, even if the server call fails.
//   - LoadUser: restores a session from the persisted token; any failure
//     wipes the token.
//   - UpdateUser: replaces the cached user.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password, passwordConfirmation string) error
	Logout(ctx context.Context)
	LoadUser(ctx context.Context) error
	UpdateUser(user models.User)
	State() AuthState
}

type authService struct {
	backend Backend
	tokens  TokenStore
	bus     *events.Bus
	log     logging.Logger
	now     func() time.Time

	mu    sync.Mutex
	state AuthState
}

// NewAuthService constructs an AuthService and subscribes it to session-ended
// events.
func NewAuthService(backend Backend, tokens TokenStore, bus *events.Bus, log logging.Logger) AuthService {
	s := &authService{backend: backend, tokens: tokens, bus: bus, log: log, now: time.Now}
	bus.Subscribe(s.onSessionEnded)
	return s
}

func (a *authService) onSessionEnded(ctx context.Context, reason events.Reason) {
	a.mu.Lock()
	a.state = AuthState{}
	a.mu.Unlock()
	a.log.Debug(ctx, "auth state reset", "reason", reason)
}

func (a *authService) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (a *authService) UpdateUser(user models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.User = &user
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	resp, err := a.backend.Post(ctx, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return api.WithFallback(err, "Login failed")
	}
	return a.startSession(ctx, resp, "Login failed")
}

func (a *authService) Register(ctx context.Context, name, email, password, passwordConfirmation string) error {
	resp, err := a.backend.Post(ctx, "/register", registerRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: passwordConfirmation,
	})
	if err != nil {
		return api.WithFallback(err, "Registration failed")
	}
	return a.startSession(ctx, resp, "Registration failed")
}

// startSession persists the token from a login/register reply and sets the
// state.
func (a *authService) startSession(ctx context.Context, resp *api.Response, fallback string) error {
	var user models.User
	if err := resp.Decode("user", &user); err != nil {
		return api.WithFallback(err, fallback)
	}
	token := resp.Get("token").String()
	if token == "" {
		return api.WithFallback(&api.Error{Kind: api.ErrUnexpected, Status: resp.Status}, fallback)
	}

	if err := a.tokens.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}

	a.mu.Lock()
	a.state = AuthState{User: &user, Token: token, Authenticated: true}
	a.mu.Unlock()

	a.log.Info(ctx, "signed in", "user_id", user.ID)
	return nil
}

func (a *authService) Logout(ctx context.Context) {
	if _, err := a.backend.Post(ctx, "/logout", nil); err != nil {
		a.log.Warn(ctx, "logout request failed", "error", err)
	}
	a.endSession(ctx, events.ReasonLogout)
}

// LoadUser returns nil and leaves the store unauthenticated when no token is
// stored.
func (a *authService) LoadUser(ctx context.Context) error {
	token, err := a.tokens.Get(ctx)
	if err != nil {
		a.endSession(ctx, events.ReasonInvalidToken)
		return fmt.Errorf("failed to read session token: %w", err)
	}
	if token == "" {
		a.mu.Lock()
		a.state = AuthState{}
		a.mu.Unlock()
		return nil
	}

	if tokenExpired(token, a.now()) {
		a.endSession(ctx, events.ReasonInvalidToken)
		return fmt.Errorf("session expired: %w", api.ErrUnauthorized)
	}

	resp, err := a.backend.Get(ctx, "/user")
	if err != nil {
		// A 401 already ended the session inside the client.
		if !isUnauthorized(err) {
			a.endSession(ctx, events.ReasonInvalidToken)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	var user models.User
	if err := resp.Decode("user", &user); err != nil {
		a.endSession(ctx, events.ReasonInvalidToken)
		return fmt.Errorf("failed to load user: %w", err)
	}

	a.mu.Lock()
	a.state = AuthState{User: &user, Token: token, Authenticated: true}
	a.mu.Unlock()
	return nil
}

// endSession wipes the persisted token and notifies every subscriber,
// including this store.
func (a *authService) endSession(ctx context.Context, reason events.Reason) {
	if err := a.tokens.Delete(ctx); err != nil {
		a.log.Error(ctx, "failed to delete session token", "error", err)
	}
	a.bus.Publish(ctx, reason)
}

// tokenExpired reports whether token is a JWT whose exp claim is in the past.
// Opaque tokens are never considered expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}
