package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintUpdated       EventType = "complaint_updated"
	EventComplaintDeleted       EventType = "complaint_deleted"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventAccountRegistered      EventType = "account_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AccountID string `json:"account_id"`
	IsAdmin   bool   `json:"is_admin"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
}

// ComplaintUpdatedPayload payload.
type ComplaintUpdatedPayload struct {
	Title string `json:"title"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	OwnerID string `json:"owner_id"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OwnerID   string                 `json:"owner_id"`
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      *string                `json:"note,omitempty"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
