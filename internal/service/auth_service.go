package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=100"`
	Email    string `validate:"required,email,max=120"`
	Password string `validate:"required,min=6,maxbytes=72"`
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthService coordinates registration, credential checks, and sessions.
type AuthService struct {
	accounts   repository.AccountRepository
	sessions   auth.SessionStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	tokenMgr   *auth.TokenManager
	bcryptCost int
	sessionTTL time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AccountRepo  repository.AccountRepository
	SessionStore auth.SessionStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		sessions:   deps.SessionStore,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		tokenMgr:   auth.NewTokenManager(cfg.SessionSecret),
		bcryptCost: cfg.BcryptCost,
		sessionTTL: cfg.SessionTTL(),
		now:        time.Now,
	}
}

// Register creates a regular (non-admin) account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	return s.createAccount(ctx, input, false)
}

func (s *AuthService) createAccount(ctx context.Context, input RegisterInput, isAdmin bool) (*domain.Account, error) {
	if _, err := s.accounts.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewDuplicateUsername(input.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateEmail(input.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperrors.NewDuplicateUsername(input.Username)
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewDuplicateEmail(input.Email)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventAccountRegistered,
		Actor: events.Actor{AccountID: account.ID, IsAdmin: account.IsAdmin},
		Payload: events.AccountRegisteredPayload{
			Username: account.Username,
			Email:    account.Email,
		},
	})
	return account, nil
}

// Authenticate verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, input LoginInput) (*domain.Account, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.BurnPasswordCheck(input.Password, s.bcryptCost)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, input.Password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return account, nil
}

// EstablishSession binds the account to a new session and returns the signed
// cookie value.
func (s *AuthService) EstablishSession(ctx context.Context, account *domain.Account) (string, time.Time, error) {
	if account == nil || account.ID == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("account required")
	}
	now := s.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	token, err := s.tokenMgr.GenerateToken(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return "", time.Time{}, err
	}
	return token, session.ExpiresAt, nil
}

// Login authenticates and establishes a session in one step.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.Account, string, time.Time, error) {
	account, err := s.Authenticate(ctx, input)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.EstablishSession(ctx, account)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// TerminateSession removes the session so its cookie stops resolving.
func (s *AuthService) TerminateSession(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	return s.sessions.Delete(ctx, session.ID)
}

// ErrBootstrapUsernameTaken reports that the configured admin username belongs
// to an account with another email. No admin is created in that case.
var ErrBootstrapUsernameTaken = errors.New("bootstrap admin username already taken")

// EnsureBootstrapAdmin creates the configured administrator when no account
// holds its email yet. It reports whether an account was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, cfg config.BootstrapAdminConfig) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}
	input := RegisterInput{
		Username: strings.TrimSpace(cfg.Username),
		Email:    normalizeEmail(cfg.Email),
		Password: cfg.Password,
	}
	if err := validateStruct(input); err != nil {
		return false, err
	}
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := s.createAccount(ctx, input, true); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) {
			return false, fmt.Errorf("%w: %q", ErrBootstrapUsernameTaken, input.Username)
		}
		return false, err
	}
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, s.now, event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
