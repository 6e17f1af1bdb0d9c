package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/auth/authtest"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/repository/repositorytest"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type authFixture struct {
	svc      *AuthService
	accounts *repositorytest.Accounts
	sessions *authtest.Sessions
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		accounts: repositorytest.NewAccounts(),
		sessions: authtest.NewSessions(),
	}
	f.svc = NewAuthService(config.AuthConfig{
		SessionSecret:     "test-secret",
		SessionTTLMinutes: 30,
		BcryptCost:        bcrypt.MinCost,
	}, AuthDependencies{AccountRepo: f.accounts, SessionStore: f.sessions})
	return f
}

func TestAuthService_RegisterAndAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.ID == "" {
		t.Fatal("expected an id")
	}
	if account.IsAdmin {
		t.Fatal("registered accounts must not be admins")
	}
	if account.PasswordHash == "secret1" || account.PasswordHash == "" {
		t.Fatalf("password must be stored hashed, got %q", account.PasswordHash)
	}

	got, err := f.svc.Authenticate(ctx, LoginInput{Email: "A@X.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != account.ID {
		t.Fatalf("expected %q, got %q", account.ID, got.ID)
	}
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "b@y.com", Password: "secret2"})
	if !errors.Is(err, apperrors.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate username, got %v", err)
	}
	_, err = f.svc.Register(ctx, RegisterInput{Username: "alicia", Email: "a@x.com", Password: "secret2"})
	if !errors.Is(err, apperrors.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	count, err := f.accounts.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicates must not create rows; have %d accounts", count)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{name: "short username", input: RegisterInput{Username: "al", Email: "a@x.com", Password: "secret1"}, field: "username"},
		{name: "bad email", input: RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", input: RegisterInput{Username: "alice", Email: "a@x.com", Password: "12345"}, field: "password"},
		{name: "password over 72 bytes", input: RegisterInput{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", 80)}, field: "password"},
		{name: "multibyte password over 72 bytes", input: RegisterInput{Username: "alice", Email: "a@x.com", Password: strings.Repeat("é", 40)}, field: "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tc.input)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := apperrors.ToDomainError(err).Details[tc.field]; !ok {
				t.Fatalf("expected %q in details, got %v", tc.field, apperrors.ToDomainError(err).Details)
			}
		})
	}
}

func TestAuthService_RegisterAcceptsPasswordAtByteLimit(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	password := strings.Repeat("p", 72)
	if _, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: password}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, LoginInput{Email: "a@x.com", Password: password}); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	_, err := f.svc.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: password + "p"})
	if got := apperrors.ToDomainError(err).Details["password"]; got != "maxbytes=72" {
		t.Fatalf("expected password maxbytes=72 detail, got %v (%v)", got, err)
	}
}

func TestAuthService_InvalidCredentialsAreSymmetric(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := f.svc.Authenticate(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	_, unknownEmail := f.svc.Authenticate(ctx, LoginInput{Email: "nobody@x.com", Password: "secret1"})

	for _, err := range []error{wrongPassword, unknownEmail} {
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failures must be indistinguishable: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_LoginEstablishesSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, _, err := f.svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"}); err == nil {
		t.Fatal("expected login failure")
	}
	if f.sessions.Len() != 0 {
		t.Fatal("failed login must not establish a session")
	}

	account, token, exp, err := f.svc.Login(ctx, LoginInput{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if d := time.Until(exp); d <= 29*time.Minute || d > 30*time.Minute {
		t.Fatalf("expected ~30m expiry, got %s", d)
	}

	claims, err := f.svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	session, err := f.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	if session.AccountID != account.ID {
		t.Fatalf("session bound to %q, want %q", session.AccountID, account.ID)
	}

	if err := f.svc.TerminateSession(ctx, session); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if _, err := f.sessions.Get(ctx, claims.SessionID); err == nil {
		t.Fatal("session should be gone after terminate")
	}
}

func TestAuthService_EnsureBootstrapAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	cfg := config.BootstrapAdminConfig{Username: "root", Email: "root@x.com", Password: "rootpass"}

	created, err := f.svc.EnsureBootstrapAdmin(ctx, cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if !created {
		t.Fatal("expected admin to be created")
	}
	admin, err := f.accounts.GetByEmail(ctx, "root@x.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !admin.CanManageComplaints() {
		t.Fatal("bootstrap account must be admin")
	}

	created, err = f.svc.EnsureBootstrapAdmin(ctx, cfg)
	if err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if created {
		t.Fatal("bootstrap must be idempotent")
	}

	created, err = f.svc.EnsureBootstrapAdmin(ctx, config.BootstrapAdminConfig{})
	if err != nil || created {
		t.Fatalf("disabled bootstrap should no-op, got created=%v err=%v", created, err)
	}
}

func TestAuthService_EnsureBootstrapAdminUsernameTaken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Username: "admin", Email: "mallory@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	created, err := f.svc.EnsureBootstrapAdmin(ctx, config.BootstrapAdminConfig{Username: "admin", Email: "ops@x.com", Password: "rootpass"})
	if created {
		t.Fatal("no admin may be created under a taken username")
	}
	if !errors.Is(err, ErrBootstrapUsernameTaken) {
		t.Fatalf("expected ErrBootstrapUsernameTaken, got %v", err)
	}

	squatter, err := f.accounts.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if squatter.CanManageComplaints() {
		t.Fatal("existing account must not gain admin rights")
	}
	if _, err := f.accounts.GetByEmail(ctx, "ops@x.com"); err == nil {
		t.Fatal("bootstrap email must not have an account")
	}
}
