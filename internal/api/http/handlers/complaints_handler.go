package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages the owner-facing complaint pages.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Dashboard GET /dashboard.
func (h *ComplaintsHandler) Dashboard(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	summary, err := h.service.SummarizeForOwner(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"account": accountResponse(principal.Account),
		"summary": summaryResponse(summary),
	}})
}

// NewForm GET /complaint/new.
func (h *ComplaintsHandler) NewForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"form": dto.ComplaintForm("/complaint/new", "", "")})
}

// Create POST /complaint/new.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.service.Create(c.UserContext(), principal.Account, complaintInput(req)); err != nil {
		return err
	}
	return c.Redirect("/complaints", fiber.StatusSeeOther)
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaints, err := h.service.ListForOwner(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// EditForm GET /complaint/:id/edit.
func (h *ComplaintsHandler) EditForm(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	complaint, err := h.service.GetForOwner(c.UserContext(), principal.Account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": complaintResponse(complaint),
		"form": dto.ComplaintForm("/complaint/"+complaint.ID+"/edit", complaint.Title, complaint.Description),
	})
}

// Edit POST /complaint/:id/edit.
func (h *ComplaintsHandler) Edit(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.service.Edit(c.UserContext(), principal.Account, c.Params("id"), complaintInput(req)); err != nil {
		return err
	}
	return c.Redirect("/complaints", fiber.StatusSeeOther)
}

// Delete GET /complaint/:id/delete.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.Account, c.Params("id")); err != nil {
		return err
	}
	return c.Redirect("/complaints", fiber.StatusSeeOther)
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("login required")
	}
	return principal, nil
}

func complaintInput(req dto.ComplaintRequest) service.ComplaintInput {
	return service.ComplaintInput{Title: req.Title, Description: req.Description}
}

func complaintResponse(c *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		StatusLabel: c.Status.Label(),
		CreatedAt:   c.CreatedAt,
		ResolvedAt:  c.ResolvedAt,
		ResolveNote: c.ResolveNote,
	}
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return items
}

func summaryResponse(s domain.ComplaintSummary) dto.SummaryResponse {
	return dto.SummaryResponse{
		Total:      s.Total,
		Pending:    s.Pending,
		InProgress: s.InProgress,
		Resolved:   s.Resolved,
	}
}

func accountResponse(a *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt,
	}
}
