package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AdminHandler exposes the admin dashboard and workflow actions.
type AdminHandler struct {
	service *service.ComplaintService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaintService *service.ComplaintService) *AdminHandler {
	return &AdminHandler{service: complaintService}
}

// Dashboard GET /admin.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	overview, err := h.service.AdminOverview(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminDashboardResponse{
		TotalUsers: overview.TotalAccounts,
		Summary:    summaryResponse(overview.Summary),
		Complaints: complaintResponses(overview.Complaints),
	}})
}

// MarkInProgress GET /admin/complaint/:id/progress.
func (h *AdminHandler) MarkInProgress(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if _, err := h.service.MarkInProgress(c.UserContext(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

// Resolve POST /admin/complaint/:id/resolve.
func (h *AdminHandler) Resolve(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ResolveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if _, err := h.service.Resolve(c.UserContext(), principal.Account, c.Params("id"), req.Note); err != nil {
		return err
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}
