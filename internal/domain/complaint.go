package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "PENDING"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
)

// Valid reports whether s is one of the known statuses.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// Label returns the human readable form used in views.
func (s ComplaintStatus) Label() string {
	switch s {
	case ComplaintStatusPending:
		return "Pending"
	case ComplaintStatusInProgress:
		return "In Progress"
	case ComplaintStatusResolved:
		return "Resolved"
	}
	return string(s)
}

// Complaint is a unit of work filed by an account and tracked to resolution.
// ResolvedAt and ResolveNote are only populated while Status is RESOLVED.
type Complaint struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      ComplaintStatus
	CreatedAt   time.Time
	ResolvedAt  *time.Time
	ResolveNote *string
}

// IsResolved reports whether the complaint reached the terminal state.
func (c *Complaint) IsResolved() bool {
	return c.Status == ComplaintStatusResolved
}

// ComplaintSummary holds per-status counts for a set of complaints.
type ComplaintSummary struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}
