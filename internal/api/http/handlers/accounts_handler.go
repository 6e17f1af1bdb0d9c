package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AccountsHandler exposes registration, login, and logout.
type AccountsHandler struct {
	auth    *service.AuthService
	cookies *auth.AuthMiddleware
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService, cookies *auth.AuthMiddleware) *AccountsHandler {
	return &AccountsHandler{auth: authService, cookies: cookies}
}

// RegisterForm handles GET /register.
func (h *AccountsHandler) RegisterForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"form": dto.RegisterForm()})
}

// Register handles POST /register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if _, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// LoginForm handles GET /login.
func (h *AccountsHandler) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"form": dto.LoginForm()})
}

// Login handles POST /login and redirects by role.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	h.cookies.SetSessionCookie(c, token, exp)

	if account.CanManageComplaints() {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout handles GET /logout.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	if err := h.auth.TerminateSession(c.UserContext(), principal.Session); err != nil {
		return err
	}
	h.cookies.ClearSessionCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
