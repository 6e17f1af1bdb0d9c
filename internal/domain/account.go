package domain

import "time"

// Account is the identity behind a principal.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// CanManageComplaints reports whether the account may see every complaint and
// move complaints through the workflow.
func (a *Account) CanManageComplaints() bool {
	return a != nil && a.IsAdmin
}

// Owns reports whether the complaint was filed by this account.
func (a *Account) Owns(c *Complaint) bool {
	return a != nil && c != nil && a.ID != "" && c.OwnerID == a.ID
}
