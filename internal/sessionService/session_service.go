package session

import (
	"agribid/internal/auctionerrors"
	"agribid/internal/localstore"
	"agribid/internal/models"
	"agribid/internal/repository"
	"agribid/utils"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SessionKey is the storage key holding the serialized session user
const SessionKey = "agribid_user"

// SessionService manages the single authenticated user of this process.
// Credentials are a mock boundary: login matches on email and role only,
// the password is accepted unchecked.
type SessionService struct {
	repo       repository.MarketDB
	storage    localstore.Storage
	loginDelay time.Duration

	mu      sync.RWMutex
	current *models.User
}

// Option configures a SessionService
type Option func(*SessionService)

// WithLoginDelay adds a fixed delay to login and register, emulating
// network round-trip time
func WithLoginDelay(d time.Duration) Option {
	return func(s *SessionService) { s.loginDelay = d }
}

// NewSessionService creates a new SessionService instance
func NewSessionService(repo repository.MarketDB, storage localstore.Storage, opts ...Option) *SessionService {
	s := &SessionService{
		repo:    repo,
		storage: storage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login matches a user by email and asserted role, establishes it as the
// session user and persists the session record
func (s *SessionService) Login(email, password string, role models.UserType) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("session: %w - missing email or password", auctionerrors.ErrInvalidCredentials)
	}

	if s.loginDelay > 0 {
		time.Sleep(s.loginDelay)
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrUserNotFound) {
			return nil, fmt.Errorf("session: %w - no account for %s", auctionerrors.ErrInvalidCredentials, email)
		}
		return nil, fmt.Errorf("session: failed to look up user %s: %w", email, err)
	}
	if user.UserType != role {
		return nil, fmt.Errorf("session: %w - role mismatch", auctionerrors.ErrInvalidCredentials)
	}

	if err := s.establish(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new user and immediately establishes it as the session
// user. Email uniqueness is role-independent.
func (s *SessionService) Register(name, email, password string, role models.UserType) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("session: %w - name, email and password are required", auctionerrors.ErrMissingField)
	}
	if role != models.UserTypeFarmer && role != models.UserTypeBuyer {
		return nil, fmt.Errorf("session: %w - user_type must be farmer or buyer", auctionerrors.ErrMissingField)
	}

	if s.loginDelay > 0 {
		time.Sleep(s.loginDelay)
	}

	user := models.User{
		UserID:   utils.GenerateID(),
		Name:     name,
		Email:    email,
		UserType: role,
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("session: failed to register %s: %w", email, err)
	}

	if err := s.establish(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the session user and the persisted record. Bids already
// placed stay attributed to the former user id.
func (s *SessionService) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.storage.Remove(SessionKey); err != nil {
		return fmt.Errorf("session: failed to clear persisted session: %w", err)
	}
	return nil
}

// Current returns the session user, or nil when nobody is logged in
func (s *SessionService) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// Restore loads a persisted session record as the session user. The record
// is not re-validated against the live user set, so a stale identity can be
// restored; that matches the persisted-session contract.
func (s *SessionService) Restore() (*models.User, error) {
	raw, ok := s.storage.Get(SessionKey)
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("session: failed to decode persisted session: %w", err)
	}

	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()
	return &user, nil
}

func (s *SessionService) establish(user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: failed to encode session user: %w", err)
	}
	if err := s.storage.Set(SessionKey, string(raw)); err != nil {
		return fmt.Errorf("session: failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.mu.Unlock()
	return nil
}
