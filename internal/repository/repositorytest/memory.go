// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// Accounts is an in-memory repository.AccountRepository.
type Accounts struct {
	mu   sync.Mutex
	byID map[string]domain.Account
	// Err, when set, is returned from every call.
	Err error
}

// NewAccounts returns an empty account store.
func NewAccounts() *Accounts {
	return &Accounts{byID: make(map[string]domain.Account)}
}

var _ repository.AccountRepository = (*Accounts)(nil)

func (a *Accounts) Create(_ context.Context, account *domain.Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	for _, existing := range a.byID {
		if existing.Username == account.Username {
			return repository.ErrDuplicateUsername
		}
		if strings.EqualFold(existing.Email, account.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	account.ID = uuid.NewString()
	account.CreatedAt = time.Now().UTC()
	a.byID[account.ID] = *account
	return nil
}

func (a *Accounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	return a.find(func(acc domain.Account) bool { return acc.ID == id })
}

func (a *Accounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	return a.find(func(acc domain.Account) bool { return strings.EqualFold(acc.Email, email) })
}

func (a *Accounts) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	return a.find(func(acc domain.Account) bool { return acc.Username == username })
}

func (a *Accounts) Count(_ context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return 0, a.Err
	}
	return len(a.byID), nil
}

// Put stores an account as-is, bypassing uniqueness checks.
func (a *Accounts) Put(account domain.Account) *domain.Account {
	a.mu.Lock()
	defer a.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	a.byID[account.ID] = account
	return &account
}

func (a *Accounts) find(match func(domain.Account) bool) (*domain.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	for _, acc := range a.byID {
		if match(acc) {
			found := acc
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Complaints is an in-memory repository.ComplaintRepository.
type Complaints struct {
	mu   sync.Mutex
	byID map[string]domain.Complaint
	// Now stamps created_at; tests override it for deterministic ordering.
	Now func() time.Time
}

// NewComplaints returns an empty complaint store.
func NewComplaints() *Complaints {
	return &Complaints{byID: make(map[string]domain.Complaint), Now: func() time.Time { return time.Now().UTC() }}
}

var _ repository.ComplaintRepository = (*Complaints)(nil)

func (r *Complaints) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = uuid.NewString()
	complaint.CreatedAt = r.Now()
	r.byID[complaint.ID] = *complaint
	return nil
}

func (r *Complaints) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *Complaints) ListByOwner(_ context.Context, ownerID string) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Complaint{}
	for _, c := range r.byID {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i], out[j]) })
	return out, nil
}

func (r *Complaints) ListAll(_ context.Context) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Complaint, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsResolved() != out[j].IsResolved() {
			return !out[i].IsResolved()
		}
		return newerFirst(out[i], out[j])
	})
	return out, nil
}

func (r *Complaints) UpdateContent(_ context.Context, id, ownerID, title, description string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	c.Title = title
	c.Description = description
	r.byID[id] = c
	return &c, nil
}

func (r *Complaints) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Complaints) MarkInProgress(_ context.Context, id string) (*domain.Complaint, domain.ComplaintStatus, error) {
	return r.transition(id, func(c *domain.Complaint) {
		c.Status = domain.ComplaintStatusInProgress
		c.ResolvedAt = nil
		c.ResolveNote = nil
	})
}

func (r *Complaints) Resolve(_ context.Context, id string, note *string, resolvedAt time.Time) (*domain.Complaint, domain.ComplaintStatus, error) {
	return r.transition(id, func(c *domain.Complaint) {
		c.Status = domain.ComplaintStatusResolved
		c.ResolveNote = note
		c.ResolvedAt = &resolvedAt
	})
}

func (r *Complaints) Summarize(_ context.Context, ownerID *string) (domain.ComplaintSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s domain.ComplaintSummary
	for _, c := range r.byID {
		if ownerID != nil && c.OwnerID != *ownerID {
			continue
		}
		s.Total++
		switch c.Status {
		case domain.ComplaintStatusPending:
			s.Pending++
		case domain.ComplaintStatusInProgress:
			s.InProgress++
		case domain.ComplaintStatusResolved:
			s.Resolved++
		default:
			return domain.ComplaintSummary{}, fmt.Errorf("unknown status %q", c.Status)
		}
	}
	return s, nil
}

// Len reports how many complaints are stored.
func (r *Complaints) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Complaints) transition(id string, apply func(*domain.Complaint)) (*domain.Complaint, domain.ComplaintStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, "", repository.ErrNotFound
	}
	previous := c.Status
	apply(&c)
	r.byID[id] = c
	return &c, previous, nil
}

func newerFirst(a, b domain.Complaint) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
