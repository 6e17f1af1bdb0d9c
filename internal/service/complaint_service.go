package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintInput carries the complaint form used for create and edit.
type ComplaintInput struct {
	Title       string `validate:"required,min=5,max=200"`
	Description string `validate:"required,min=10"`
}

// AdminOverview is everything the admin dashboard shows.
type AdminOverview struct {
	Complaints    []domain.Complaint
	Summary       domain.ComplaintSummary
	TotalAccounts int
}

// ComplaintService coordinates the complaint lifecycle. Every operation takes
// the requesting account explicitly and re-reads it from the store before
// checking ownership or role.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	AccountRepo   repository.AccountRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
		now:        clock,
	}
}

// Create files a new PENDING complaint owned by the requester.
func (s *ComplaintService) Create(ctx context.Context, requester *domain.Account, input ComplaintInput) (*domain.Complaint, error) {
	owner, err := s.reload(ctx, requester)
	if err != nil {
		return nil, err
	}
	input = normalizeComplaintInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	complaint := &domain.Complaint{
		OwnerID:     owner.ID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.ComplaintStatusPending,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actorOf(owner),
		Payload: events.ComplaintCreatedPayload{
			OwnerID: owner.ID,
			Title:   complaint.Title,
		},
	})
	return complaint, nil
}

// ListForOwner returns the requester's complaints, newest first.
func (s *ComplaintService) ListForOwner(ctx context.Context, requester *domain.Account) ([]domain.Complaint, error) {
	owner, err := s.reload(ctx, requester)
	if err != nil {
		return nil, err
	}
	return s.complaints.ListByOwner(ctx, owner.ID)
}

// ListAllForAdmin returns every complaint, unresolved ones first.
func (s *ComplaintService) ListAllForAdmin(ctx context.Context, requester *domain.Account) ([]domain.Complaint, error) {
	if _, err := s.requireAdmin(ctx, requester); err != nil {
		return nil, err
	}
	return s.complaints.ListAll(ctx)
}

// GetForOwner fetches a complaint the requester filed.
func (s *ComplaintService) GetForOwner(ctx context.Context, requester *domain.Account, complaintID string) (*domain.Complaint, error) {
	owner, err := s.reload(ctx, requester)
	if err != nil {
		return nil, err
	}
	return s.ownedComplaint(ctx, owner, complaintID)
}

// Edit replaces title and description. Status and timestamps are untouched.
func (s *ComplaintService) Edit(ctx context.Context, requester *domain.Account, complaintID string, input ComplaintInput) (*domain.Complaint, error) {
	owner, err := s.reload(ctx, requester)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedComplaint(ctx, owner, complaintID); err != nil {
		return nil, err
	}
	input = normalizeComplaintInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	updated, err := s.complaints.UpdateContent(ctx, complaintID, owner.ID, input.Title, input.Description)
	if err != nil {
		return nil, mapComplaintErr(err, complaintID)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintUpdated,
		ComplaintID: updated.ID,
		Actor:       actorOf(owner),
		Payload:     events.ComplaintUpdatedPayload{Title: updated.Title},
	})
	return updated, nil
}

// Delete permanently removes a complaint the requester filed.
func (s *ComplaintService) Delete(ctx context.Context, requester *domain.Account, complaintID string) error {
	owner, err := s.reload(ctx, requester)
	if err != nil {
		return err
	}
	if _, err := s.ownedComplaint(ctx, owner, complaintID); err != nil {
		return err
	}
	if err := s.complaints.Delete(ctx, complaintID, owner.ID); err != nil {
		return mapComplaintErr(err, complaintID)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: complaintID,
		Actor:       actorOf(owner),
		Payload:     events.ComplaintDeletedPayload{OwnerID: owner.ID},
	})
	return nil
}

// MarkInProgress moves a complaint to IN_PROGRESS regardless of its current
// status.
func (s *ComplaintService) MarkInProgress(ctx context.Context, requester *domain.Account, complaintID string) (*domain.Complaint, error) {
	admin, err := s.requireAdmin(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !validID(complaintID) {
		return nil, complaintNotFound(complaintID)
	}
	complaint, previous, err := s.complaints.MarkInProgress(ctx, complaintID)
	if err != nil {
		return nil, mapComplaintErr(err, complaintID)
	}
	s.publishStatusChange(ctx, admin, complaint, previous)
	return complaint, nil
}

// Resolve sets RESOLVED together with the note and resolution time. A blank
// note is stored as absent.
func (s *ComplaintService) Resolve(ctx context.Context, requester *domain.Account, complaintID, note string) (*domain.Complaint, error) {
	admin, err := s.requireAdmin(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !validID(complaintID) {
		return nil, complaintNotFound(complaintID)
	}
	var notePtr *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		notePtr = &trimmed
	}
	complaint, previous, err := s.complaints.Resolve(ctx, complaintID, notePtr, s.now().UTC())
	if err != nil {
		return nil, mapComplaintErr(err, complaintID)
	}
	s.publishStatusChange(ctx, admin, complaint, previous)
	return complaint, nil
}

// SummarizeForOwner counts the requester's complaints per status.
func (s *ComplaintService) SummarizeForOwner(ctx context.Context, requester *domain.Account) (domain.ComplaintSummary, error) {
	owner, err := s.reload(ctx, requester)
	if err != nil {
		return domain.ComplaintSummary{}, err
	}
	return s.complaints.Summarize(ctx, &owner.ID)
}

// SummarizeAll counts every complaint per status.
func (s *ComplaintService) SummarizeAll(ctx context.Context, requester *domain.Account) (domain.ComplaintSummary, error) {
	if _, err := s.requireAdmin(ctx, requester); err != nil {
		return domain.ComplaintSummary{}, err
	}
	return s.complaints.Summarize(ctx, nil)
}

// AdminOverview gathers the admin dashboard: all complaints, global counts,
// and the number of registered accounts.
func (s *ComplaintService) AdminOverview(ctx context.Context, requester *domain.Account) (*AdminOverview, error) {
	if _, err := s.requireAdmin(ctx, requester); err != nil {
		return nil, err
	}
	complaints, err := s.complaints.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.complaints.Summarize(ctx, nil)
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminOverview{Complaints: complaints, Summary: summary, TotalAccounts: total}, nil
}

// reload re-reads the requester so decisions never rest on stale session data.
func (s *ComplaintService) reload(ctx context.Context, requester *domain.Account) (*domain.Account, error) {
	if requester == nil || requester.ID == "" {
		return nil, apperrors.NewUnauthorized("login required")
	}
	account, err := s.accounts.GetByID(ctx, requester.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("account not found")
		}
		return nil, err
	}
	return account, nil
}

func (s *ComplaintService) requireAdmin(ctx context.Context, requester *domain.Account) (*domain.Account, error) {
	account, err := s.reload(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !account.CanManageComplaints() {
		return nil, apperrors.NewForbidden("admin only")
	}
	return account, nil
}

func (s *ComplaintService) ownedComplaint(ctx context.Context, owner *domain.Account, complaintID string) (*domain.Complaint, error) {
	if !validID(complaintID) {
		return nil, complaintNotFound(complaintID)
	}
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, mapComplaintErr(err, complaintID)
	}
	if !owner.Owns(complaint) {
		return nil, apperrors.NewForbidden("only the owner may change this complaint")
	}
	return complaint, nil
}

func (s *ComplaintService) publishStatusChange(ctx context.Context, admin *domain.Account, complaint *domain.Complaint, previous domain.ComplaintStatus) {
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       actorOf(admin),
		Payload: events.ComplaintStatusChangedPayload{
			OwnerID:   complaint.OwnerID,
			OldStatus: previous,
			NewStatus: complaint.Status,
			Note:      complaint.ResolveNote,
		},
	})
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, s.now, event)
}

func normalizeComplaintInput(input ComplaintInput) ComplaintInput {
	return ComplaintInput{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func complaintNotFound(id string) error {
	return apperrors.NewNotFound("complaint", map[string]any{"id": id})
}

func mapComplaintErr(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return complaintNotFound(id)
	}
	return err
}
