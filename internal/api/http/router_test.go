package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/auth/authtest"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository/repositorytest"
	"github.com/spec-kit/complaint-service/internal/service"
)

const cookieName = "complaint_session"

type testServer struct {
	app        *fiber.App
	accounts   *repositorytest.Accounts
	complaints *repositorytest.Complaints
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		accounts:   repositorytest.NewAccounts(),
		complaints: repositorytest.NewComplaints(),
	}
	sessions := authtest.NewSessions()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(config.AuthConfig{
		SessionSecret:     "test-secret",
		SessionTTLMinutes: 60,
		BcryptCost:        bcrypt.MinCost,
	}, service.AuthDependencies{AccountRepo: s.accounts, SessionStore: sessions})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: s.complaints,
		AccountRepo:   s.accounts,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions, s.accounts, auth.CookieConfig{Name: cookieName})

	s.app = fiber.New()
	httptransport.RegisterMiddlewares(s.app, logger, metrics, 0)
	httptransport.RegisterRoutes(s.app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("complaint-service", "test", nil, nil, metrics),
		Accounts:       handlers.NewAccountsHandler(authService, authMiddleware),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Admin:          handlers.NewAdminHandler(complaintService),
		AuthMiddleware: authMiddleware,
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, form url.Values, session string) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: session})
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (s *testServer) register(t *testing.T, username, email, password string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/register", url.Values{
		"username": {username}, "email": {email}, "password": {password},
	}, "")
	expectRedirect(t, resp, "/login")
}

func (s *testServer) login(t *testing.T, email, password, wantLocation string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}}, "")
	expectRedirect(t, resp, wantLocation)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func (s *testServer) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("rootpass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s.accounts.Put(domain.Account{Username: "root", Email: "root@x.com", PasswordHash: hash, IsAdmin: true})
	return s.login(t, "root@x.com", "rootpass", "/admin")
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 303, got %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func expectError(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected %d, got %d", status, resp.StatusCode)
	}
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if env.Error.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, env.Error.Code, env.Error.Message)
	}
}

type complaintList struct {
	Data []struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Status      string  `json:"status"`
		ResolveNote *string `json:"resolve_note"`
		ResolvedAt  *string `json:"resolved_at"`
	} `json:"data"`
}

func (s *testServer) listComplaints(t *testing.T, session string) complaintList {
	t.Helper()
	resp := s.do(t, http.MethodGet, "/complaints", nil, session)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var list complaintList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return list
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "a@x.com", "secret1")

	resp := s.do(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"}, "email": {"b@y.com"}, "password": {"secret2"},
	}, "")
	expectError(t, resp, http.StatusConflict, "DUPLICATE_USERNAME")

	resp = s.do(t, http.MethodPost, "/register", url.Values{
		"username": {"al"}, "email": {"c@y.com"}, "password": {"secret2"},
	}, "")
	expectError(t, resp, http.StatusBadRequest, "VALIDATION_FAILED")

	resp = s.do(t, http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}}, "")
	expectError(t, resp, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	if len(resp.Cookies()) != 0 {
		t.Fatal("failed login must not set a cookie")
	}

	session := s.login(t, "a@x.com", "secret1", "/dashboard")
	resp = s.do(t, http.MethodGet, "/dashboard", nil, session)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/dashboard", "/complaints", "/complaint/new", "/logout", "/admin"} {
		resp := s.do(t, http.MethodGet, path, nil, "")
		expectError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
	}
}

func TestLogoutTerminatesSession(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "a@x.com", "secret1")
	session := s.login(t, "a@x.com", "secret1", "/dashboard")

	expectRedirect(t, s.do(t, http.MethodGet, "/logout", nil, session), "/login")
	expectError(t, s.do(t, http.MethodGet, "/dashboard", nil, session), http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestComplaintLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "a@x.com", "secret1")
	s.register(t, "bob", "b@x.com", "secret2")
	alice := s.login(t, "a@x.com", "secret1", "/dashboard")
	bob := s.login(t, "b@x.com", "secret2", "/dashboard")
	admin := s.seedAdmin(t)

	resp := s.do(t, http.MethodPost, "/complaint/new", url.Values{
		"title": {"Broken faucet"}, "description": {"Water leaking under sink"},
	}, alice)
	expectRedirect(t, resp, "/complaints")

	list := s.listComplaints(t, alice)
	if len(list.Data) != 1 || list.Data[0].Status != "PENDING" {
		t.Fatalf("expected one pending complaint, got %+v", list.Data)
	}
	id := list.Data[0].ID
	if other := s.listComplaints(t, bob); len(other.Data) != 0 {
		t.Fatalf("bob must not see alice's complaints: %+v", other.Data)
	}

	edit := url.Values{"title": {"Stolen title"}, "description": {"Not bob's complaint to edit"}}
	expectError(t, s.do(t, http.MethodPost, "/complaint/"+id+"/edit", edit, bob), http.StatusForbidden, "FORBIDDEN")
	expectError(t, s.do(t, http.MethodGet, "/complaint/"+id+"/delete", nil, bob), http.StatusForbidden, "FORBIDDEN")
	expectError(t, s.do(t, http.MethodGet, "/admin/complaint/"+id+"/progress", nil, bob), http.StatusForbidden, "FORBIDDEN")
	expectError(t, s.do(t, http.MethodGet, "/admin", nil, alice), http.StatusForbidden, "FORBIDDEN")

	expectRedirect(t, s.do(t, http.MethodGet, "/admin/complaint/"+id+"/progress", nil, admin), "/admin")
	if got := s.listComplaints(t, alice).Data[0].Status; got != "IN_PROGRESS" {
		t.Fatalf("expected IN_PROGRESS, got %s", got)
	}

	expectRedirect(t, s.do(t, http.MethodPost, "/admin/complaint/"+id+"/resolve", url.Values{"note": {"Fixed"}}, admin), "/admin")
	resolved := s.listComplaints(t, alice).Data[0]
	if resolved.Status != "RESOLVED" || resolved.ResolveNote == nil || *resolved.ResolveNote != "Fixed" || resolved.ResolvedAt == nil {
		t.Fatalf("unexpected resolved complaint %+v", resolved)
	}

	resp = s.do(t, http.MethodGet, "/admin", nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin dashboard: expected 200, got %d", resp.StatusCode)
	}
	var dashboard struct {
		Data struct {
			TotalUsers int `json:"total_users"`
			Summary    struct {
				Total    int `json:"total"`
				Resolved int `json:"resolved"`
			} `json:"summary"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dashboard); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dashboard.Data.TotalUsers != 3 || dashboard.Data.Summary.Total != 1 || dashboard.Data.Summary.Resolved != 1 {
		t.Fatalf("unexpected dashboard %+v", dashboard.Data)
	}

	expectRedirect(t, s.do(t, http.MethodGet, "/complaint/"+id+"/delete", nil, alice), "/complaints")
	if left := s.listComplaints(t, alice); len(left.Data) != 0 {
		t.Fatalf("deleted complaint still listed: %+v", left.Data)
	}
}

func TestUnknownComplaintIsNotFound(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "a@x.com", "secret1")
	alice := s.login(t, "a@x.com", "secret1", "/dashboard")
	admin := s.seedAdmin(t)

	expectError(t, s.do(t, http.MethodGet, "/complaint/"+uuid.NewString()+"/edit", nil, alice), http.StatusNotFound, "NOT_FOUND")
	expectError(t, s.do(t, http.MethodGet, "/complaint/123/delete", nil, alice), http.StatusNotFound, "NOT_FOUND")
	expectError(t, s.do(t, http.MethodPost, "/admin/complaint/"+uuid.NewString()+"/resolve", url.Values{"note": {"x"}}, admin), http.StatusNotFound, "NOT_FOUND")
}

func TestFormsAndHealth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/", "/register", "/login", "/health/live", "/health/metrics"} {
		if resp := s.do(t, http.MethodGet, path, nil, ""); resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
	expectError(t, s.do(t, http.MethodGet, "/health/ready", nil, ""), http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE")
	expectError(t, s.do(t, http.MethodGet, "/no-such-page", nil, ""), http.StatusNotFound, "NOT_FOUND")
}
