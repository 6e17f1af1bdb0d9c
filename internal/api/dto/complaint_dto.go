package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintRequest payload for creating or editing a complaint.
type ComplaintRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// ResolveRequest payload for the admin resolve action.
type ResolveRequest struct {
	Note string `json:"note" form:"note"`
}

// ComplaintResponse represents a complaint in list and detail views.
type ComplaintResponse struct {
	ID          string                 `json:"id"`
	OwnerID     string                 `json:"owner_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      domain.ComplaintStatus `json:"status"`
	StatusLabel string                 `json:"status_label"`
	CreatedAt   time.Time              `json:"created_at"`
	ResolvedAt  *time.Time             `json:"resolved_at"`
	ResolveNote *string                `json:"resolve_note"`
}

// SummaryResponse holds per-status counts.
type SummaryResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// AdminDashboardResponse is the admin landing view.
type AdminDashboardResponse struct {
	TotalUsers int                 `json:"total_users"`
	Summary    SummaryResponse     `json:"summary"`
	Complaints []ComplaintResponse `json:"complaints"`
}
