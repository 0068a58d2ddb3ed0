// Package session implements the Session Store: the single owner of the
// authentication state. It authenticates against an in-memory mock user
// directory with simulated network latency, mints real signed tokens,
// persists credentials in the key-value store, and broadcasts every state
// transition to its subscribers.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/migueltorresd/gallery/internal/auth"
	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/logging"
	"github.com/migueltorresd/gallery/internal/models"
	"github.com/migueltorresd/gallery/internal/storage"
)

// Persisted credential keys.
const (
	tokenStorageKey   = "auth_token"
	userStorageKey    = "auth_user"
	refreshStorageKey = "refresh_token"
)

// Options configures a Store.
//
// Latency is the simulated network delay applied to Login and Register
// (not Logout). TokenTTL bounds the validity of minted tokens.
type Options struct {
	TokenSecret []byte
	TokenTTL    time.Duration
	Latency     time.Duration
}

// Store holds the session state and is its only mutator.
type Store struct {
	repo    storage.Repository
	dir     *directory
	log     logging.Logger
	secret  []byte
	ttl     time.Duration
	latency time.Duration

	mu    sync.RWMutex
	state models.Session
	subs  []*subscriber
}

// NewStore constructs a Store and restores any previously persisted
// session, verifying the stored token before trusting it. An invalid or
// absent session leaves the store anonymous and clears the stale keys.
func NewStore(ctx context.Context, repo storage.Repository, opts Options, log logging.Logger) *Store {
	s := &Store{
		repo:    repo,
		dir:     newDirectory(),
		log:     log,
		secret:  opts.TokenSecret,
		ttl:     opts.TokenTTL,
		latency: opts.Latency,
	}
	s.restore(ctx)
	return s
}

// Login authenticates the given credentials. Username may be a username
// or an email address. On failure the session keeps its previous identity
// with Loading cleared and Err set, and the same failure is returned as a
// *common.APIError.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	s.beginAttempt()

	if err := s.simulateLatency(ctx); err != nil {
		s.failAttempt(err.Error())
		return nil, err
	}

	user, err := s.dir.authenticate(req.Username, req.Password)
	if err != nil {
		s.failAttempt(err.Error())
		return nil, err
	}

	return s.establishSession(ctx, user)
}

// Register creates a new account and logs it in. The confirm-password
// check runs before any uniqueness check.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	s.beginAttempt()

	if err := s.simulateLatency(ctx); err != nil {
		s.failAttempt(err.Error())
		return nil, err
	}

	if req.Password != req.ConfirmPassword {
		err := common.NewPasswordMismatch()
		s.failAttempt(err.Error())
		return nil, err
	}

	user, err := s.dir.create(req)
	if err != nil {
		s.failAttempt(err.Error())
		return nil, err
	}

	return s.establishSession(ctx, user)
}

// Logout clears the persisted credential keys and resets the session to
// anonymous. There is no simulated delay; the transition is immediate.
func (s *Store) Logout(ctx context.Context) error {
	err := s.clearStorageData(ctx)
	s.setState(models.Session{})
	return err
}

// IsAuthenticated reports whether a user is currently logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentUser == nil {
		return nil
	}
	u := *s.state.CurrentUser
	return &u
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// establishSession mints the token pair, persists the credentials, and
// only then emits the authenticated state.
func (s *Store) establishSession(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	token, err := auth.GenerateToken(user, s.secret, s.ttl)
	if err != nil {
		s.failAttempt("token generation failed")
		return nil, err
	}

	resp := &models.AuthResponse{
		Token:        token,
		RefreshToken: uuid.NewString(),
		User:         *user,
		ExpiresIn:    int(s.ttl.Seconds()),
		TokenType:    "Bearer",
	}

	if err := s.saveAuthData(ctx, resp); err != nil {
		s.failAttempt("credential storage failed")
		return nil, err
	}

	s.setState(models.Session{
		IsAuthenticated: true,
		CurrentUser:     user,
		Token:           token,
	})

	s.log.Info(ctx, "session established", "user_id", user.ID, "username", user.Username)
	return resp, nil
}

func (s *Store) saveAuthData(ctx context.Context, resp *models.AuthResponse) error {
	userData, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, tokenStorageKey, []byte(resp.Token)); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, userStorageKey, userData); err != nil {
		return err
	}
	return s.repo.Set(ctx, refreshStorageKey, []byte(resp.RefreshToken))
}

func (s *Store) clearStorageData(ctx context.Context) error {
	return errors.Join(
		s.repo.Delete(ctx, tokenStorageKey),
		s.repo.Delete(ctx, userStorageKey),
		s.repo.Delete(ctx, refreshStorageKey),
	)
}

// restore rebuilds the session from the persisted token and user record.
// The token goes through full verification; anything invalid clears the
// persisted keys and the store stays anonymous.
func (s *Store) restore(ctx context.Context) {
	token, err := s.repo.Get(ctx, tokenStorageKey)
	if err != nil {
		s.log.Warn(ctx, "session restore failed", "error", err)
		return
	}
	userData, err := s.repo.Get(ctx, userStorageKey)
	if err != nil {
		s.log.Warn(ctx, "session restore failed", "error", err)
		return
	}

	if len(token) == 0 || len(userData) == 0 {
		if err := s.clearStorageData(ctx); err != nil {
			s.log.Warn(ctx, "clearing stale credentials failed", "error", err)
		}
		return
	}

	var user models.User
	if _, err := auth.ParseToken(string(token), s.secret); err != nil {
		s.log.Warn(ctx, "discarding persisted session", "error", err)
		if err := s.clearStorageData(ctx); err != nil {
			s.log.Warn(ctx, "clearing stale credentials failed", "error", err)
		}
		return
	}
	if err := json.Unmarshal(userData, &user); err != nil {
		s.log.Warn(ctx, "discarding persisted session", "error", err)
		if err := s.clearStorageData(ctx); err != nil {
			s.log.Warn(ctx, "clearing stale credentials failed", "error", err)
		}
		return
	}

	s.setState(models.Session{
		IsAuthenticated: true,
		CurrentUser:     &user,
		Token:           string(token),
	})
	s.log.Info(ctx, "session restored", "user_id", user.ID, "username", user.Username)
}

func (s *Store) beginAttempt() {
	cur := s.Snapshot()
	cur.Loading = true
	cur.Err = ""
	s.setState(cur)
}

func (s *Store) failAttempt(msg string) {
	cur := s.Snapshot()
	cur.Loading = false
	cur.Err = msg
	s.setState(cur)
}

// simulateLatency stands in for the network round trip of a real
// authentication API. It honors context cancellation.
func (s *Store) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
