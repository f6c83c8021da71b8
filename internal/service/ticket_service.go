package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/opsdesk/ticketflow/internal/domain"
	"github.com/opsdesk/ticketflow/internal/events"
	"github.com/opsdesk/ticketflow/internal/observability"
	"github.com/opsdesk/ticketflow/internal/persistence"
	"github.com/opsdesk/ticketflow/internal/repository"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

// Operation names for the collector.
const (
	opCreate         = "ticket.create"
	opAssign         = "ticket.assign"
	opReassign       = "ticket.reassign"
	opUpdateStatus   = "ticket.update_status"
	opClose          = "ticket.close"
	opUpdatePriority = "ticket.update_priority"
)

// TicketWorkflowService orchestrates the ticket lifecycle. Every mutating
// operation runs in a single transaction that locks the target ticket row,
// authorizes the actor, validates the change, and commits the field changes
// together with exactly one audit entry.
type TicketWorkflowService struct {
	tx           persistence.TxRunner
	tickets      repository.TicketRepository
	history      repository.TicketHistoryRepository
	sequences    repository.SequenceRepository
	categories   repository.CategoryRepository
	closureCodes repository.ClosureCodeRepository
	users        repository.UserRepository
	resolver     *ActorResolver
	dispatcher   events.Dispatcher
	collector    observability.Collector
	logger       *zap.Logger
	clock        func() time.Time
}

// WorkflowDependencies bundles collaborators for the workflow service.
type WorkflowDependencies struct {
	TxRunner     persistence.TxRunner
	TicketRepo   repository.TicketRepository
	HistoryRepo  repository.TicketHistoryRepository
	SequenceRepo repository.SequenceRepository
	CategoryRepo repository.CategoryRepository
	ClosureRepo  repository.ClosureCodeRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Collector    observability.Collector
	Logger       *zap.Logger
	Clock        func() time.Time
}

// NewTicketWorkflowService constructs the service.
func NewTicketWorkflowService(deps WorkflowDependencies) *TicketWorkflowService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketWorkflowService{
		tx:           deps.TxRunner,
		tickets:      deps.TicketRepo,
		history:      deps.HistoryRepo,
		sequences:    deps.SequenceRepo,
		categories:   deps.CategoryRepo,
		closureCodes: deps.ClosureRepo,
		users:        deps.UserRepo,
		resolver:     NewActorResolver(deps.UserRepo),
		dispatcher:   deps.Dispatcher,
		collector:    deps.Collector,
		logger:       logger,
		clock:        clock,
	}
}

// FormatTicketNumber renders a sequence number as TKT-YYYYMMDD-NNNNN.
func FormatTicketNumber(date time.Time, seq int) string {
	return fmt.Sprintf("TKT-%s-%05d", date.Format("20060102"), seq)
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	Title         string
	Description   string
	CategoryID    string
	SubcategoryID string
}

// AssignTicketInput describes assignment payload. A nil AssignToID means
// self-assignment.
type AssignTicketInput struct {
	TicketID        string
	AssignToID      *string
	Note            string
	ExpectedVersion *int
}

// StatusUpdateInput describes a status change.
type StatusUpdateInput struct {
	TicketID        string
	Status          domain.TicketStatus
	Note            string
	ExpectedVersion *int
}

// CloseTicketInput describes ticket closure.
type CloseTicketInput struct {
	TicketID        string
	ClosureCodeID   string
	Note            string
	ExpectedVersion *int
}

// PriorityUpdateInput describes a priority change.
type PriorityUpdateInput struct {
	TicketID        string
	Priority        int
	Note            string
	ExpectedVersion *int
}

// Create validates classification, allocates a ticket number and creates the
// ticket in New status at version 1, together with the creation audit entry.
func (s *TicketWorkflowService) Create(ctx context.Context, actorID string, input CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, s.fail(opCreate, apperrors.NewValidationError("title and description are required", nil))
	}

	var ticket *domain.Ticket
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		category, err := s.categories.GetActiveCategory(ctx, input.CategoryID)
		if err != nil {
			return notFoundOr(err, "category")
		}
		subcategory, err := s.categories.GetActiveSubcategory(ctx, input.SubcategoryID)
		if err != nil {
			return notFoundOr(err, "subcategory")
		}
		if subcategory.CategoryID != category.ID {
			return apperrors.NewNotFound("subcategory")
		}

		now := s.clock()
		seq, err := s.sequences.Allocate(ctx, tx, now)
		if err != nil {
			return err
		}

		t := &domain.Ticket{
			TicketNumber:  FormatTicketNumber(now, seq),
			Title:         title,
			Description:   description,
			CategoryID:    category.ID,
			SubcategoryID: subcategory.ID,
			DepartmentID:  subcategory.DepartmentID,
			CreatedByID:   actorID,
			Status:        domain.TicketStatusNew,
			Version:       1,
		}
		if err := s.tickets.Create(ctx, tx, t); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, tx, t, "", domain.TicketStatusNew, domain.CreationNote, actorID, now); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, s.fail(opCreate, err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("actor_id", actorID),
	)
	s.emit(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		ActorID:      actorID,
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			CategoryID:   ticket.CategoryID,
			Title:        ticket.Title,
		},
	})
	s.record(opCreate)
	return ticket, nil
}

// Assign assigns a ticket, defaulting to self-assignment. A New ticket moves
// to Assigned as part of the same commit.
func (s *TicketWorkflowService) Assign(ctx context.Context, actorID string, input AssignTicketInput) (*domain.Ticket, error) {
	return s.assign(ctx, actorID, input, false)
}

// Reassign is the manager/admin variant of Assign with a mandatory note.
func (s *TicketWorkflowService) Reassign(ctx context.Context, actorID string, input AssignTicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Note) == "" {
		return nil, s.fail(opReassign, apperrors.NewNoteRequired())
	}
	return s.assign(ctx, actorID, input, true)
}

func (s *TicketWorkflowService) assign(ctx context.Context, actorID string, input AssignTicketInput, reassignment bool) (*domain.Ticket, error) {
	op := opAssign
	if reassignment {
		op = opReassign
	}

	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		actor, err := s.resolver.Resolve(ctx, actorID)
		if err != nil {
			return err
		}
		if reassignment && !actor.HasAnyRole(domain.RoleManager, domain.RoleAdmin) {
			return apperrors.NewForbidden("only managers can reassign tickets")
		}

		t, err := s.tickets.GetForUpdate(ctx, tx, input.TicketID)
		if err != nil {
			return notFoundOr(err, "ticket")
		}
		if !CanView(actor, t) {
			return apperrors.NewNotFound("ticket")
		}
		if err := checkMutable(t); err != nil {
			return err
		}
		if err := checkVersion(t, input.ExpectedVersion); err != nil {
			return err
		}

		targetID := actorID
		if input.AssignToID != nil {
			targetID = *input.AssignToID
		}
		target, err := s.users.GetByID(ctx, targetID)
		if err != nil {
			return notFoundOr(err, "target user")
		}
		if err := ValidateAssignment(actor, target.ID); err != nil {
			return err
		}

		oldStatus = t.Status
		now := s.clock()
		t.AssignedToID = &target.ID
		t.AssignedAt = &now
		if t.Status == domain.TicketStatusNew {
			t.Status = domain.TicketStatusAssigned
		}
		if err := s.commit(ctx, tx, t); err != nil {
			return err
		}

		note := strings.TrimSpace(input.Note)
		if note == "" {
			note = "Ticket assigned to " + target.Name
		}
		if err := s.appendHistory(ctx, tx, t, oldStatus, t.Status, note, actorID, now); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.emit(ctx, events.Event{
		Type:         events.EventTicketAssigned,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		ActorID:      actorID,
		Payload: events.TicketAssignedPayload{
			AssignedToID: *ticket.AssignedToID,
			OldStatus:    oldStatus,
			NewStatus:    ticket.Status,
		},
	})
	s.record(op)
	return ticket, nil
}

// UpdateStatus moves a ticket along the workflow table. Closure goes through
// Close, never through this operation, so the closure invariant cannot be
// bypassed.
func (s *TicketWorkflowService) UpdateStatus(ctx context.Context, actorID string, input StatusUpdateInput) (*domain.Ticket, error) {
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return nil, s.fail(opUpdateStatus, apperrors.NewNoteRequired())
	}
	if input.Status == domain.TicketStatusClosed {
		return nil, s.fail(opUpdateStatus, apperrors.NewValidationError("closing requires the close operation with a closure code", nil))
	}

	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		t, err := s.authorizeMutation(ctx, tx, actorID, input.TicketID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if err := ValidateTransition(t.Status, input.Status); err != nil {
			return err
		}

		oldStatus = t.Status
		t.Status = input.Status
		if err := s.commit(ctx, tx, t); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, tx, t, oldStatus, t.Status, note, actorID, t.UpdatedAt); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, s.fail(opUpdateStatus, err)
	}

	s.emit(ctx, events.Event{
		Type:         events.EventTicketStatusChanged,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		ActorID:      actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Note:      note,
		},
	})
	s.record(opUpdateStatus)
	return ticket, nil
}

// Close transitions a ticket to Closed with an active closure code, flips
// the immutability flag and stamps closed_at. Closed tickets reject every
// further mutation.
func (s *TicketWorkflowService) Close(ctx context.Context, actorID string, input CloseTicketInput) (*domain.Ticket, error) {
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return nil, s.fail(opClose, apperrors.NewNoteRequired())
	}

	var ticket *domain.Ticket
	var oldStatus domain.TicketStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		code, err := s.closureCodes.GetActive(ctx, input.ClosureCodeID)
		if err != nil {
			return notFoundOr(err, "closure code")
		}
		t, err := s.authorizeMutation(ctx, tx, actorID, input.TicketID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if err := ValidateTransition(t.Status, domain.TicketStatusClosed); err != nil {
			return err
		}

		oldStatus = t.Status
		now := s.clock()
		t.Status = domain.TicketStatusClosed
		t.IsClosed = true
		t.ClosureCodeID = &code.ID
		t.ClosedAt = &now
		if err := s.commit(ctx, tx, t); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, tx, t, oldStatus, domain.TicketStatusClosed, note, actorID, now); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, s.fail(opClose, err)
	}

	s.logger.Info("ticket closed",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("actor_id", actorID),
	)
	s.emit(ctx, events.Event{
		Type:         events.EventTicketClosed,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		ActorID:      actorID,
		Payload: events.TicketClosedPayload{
			ClosureCodeID: *ticket.ClosureCodeID,
			OldStatus:     oldStatus,
			Note:          note,
		},
	})
	s.record(opClose)
	return ticket, nil
}

// UpdatePriority sets the internal priority (P1-P4). Base-role creators hold
// view-only access and are rejected by the modify policy.
func (s *TicketWorkflowService) UpdatePriority(ctx context.Context, actorID string, input PriorityUpdateInput) (*domain.Ticket, error) {
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return nil, s.fail(opUpdatePriority, apperrors.NewNoteRequired())
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, s.fail(opUpdatePriority, apperrors.NewValidationError("priority must be 1, 2, 3 or 4", nil))
	}

	var ticket *domain.Ticket
	var oldPriority *int
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		t, err := s.authorizeMutation(ctx, tx, actorID, input.TicketID, input.ExpectedVersion)
		if err != nil {
			return err
		}

		oldPriority = t.Priority
		priority := input.Priority
		t.Priority = &priority
		if err := s.commit(ctx, tx, t); err != nil {
			return err
		}
		if err := s.appendHistory(ctx, tx, t, t.Status, t.Status, note, actorID, t.UpdatedAt); err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, s.fail(opUpdatePriority, err)
	}

	s.emit(ctx, events.Event{
		Type:         events.EventTicketPriorityChanged,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		ActorID:      actorID,
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: input.Priority,
		},
	})
	s.record(opUpdatePriority)
	return ticket, nil
}

// GetTicket fetches a ticket. A visibility denial is indistinguishable from
// a missing ticket.
func (s *TicketWorkflowService) GetTicket(ctx context.Context, actorID, ticketID string) (*domain.Ticket, error) {
	actor, err := s.resolver.Resolve(ctx, actorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(notFoundOr(err, "ticket"))
	}
	if !CanView(actor, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	return ticket, nil
}

// GetTicketByNumber fetches a ticket by its human-facing number, with the
// same visibility merge as GetTicket.
func (s *TicketWorkflowService) GetTicketByNumber(ctx context.Context, actorID, number string) (*domain.Ticket, error) {
	actor, err := s.resolver.Resolve(ctx, actorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, apperrors.MapError(notFoundOr(err, "ticket"))
	}
	if !CanView(actor, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	return ticket, nil
}

// ListOwnTickets returns tickets created by the actor.
func (s *TicketWorkflowService) ListOwnTickets(ctx context.Context, actorID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CreatedByID: &actorID,
		Limit:       limit,
		Offset:      offset,
	})
	return tickets, apperrors.MapError(err)
}

// ListQueue returns unassigned open tickets in the departments the actor
// can work: their own for employees, plus departments owned by managed
// teams for managers.
func (s *TicketWorkflowService) ListQueue(ctx context.Context, actorID string, limit, offset int) ([]domain.Ticket, error) {
	actor, err := s.resolver.Resolve(ctx, actorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	departments := make([]string, 0, len(actor.DepartmentIDs)+len(actor.ManagedDepartmentIDs))
	for id := range actor.DepartmentIDs {
		departments = append(departments, id)
	}
	for id := range actor.ManagedDepartmentIDs {
		if !actor.InDepartment(id) {
			departments = append(departments, id)
		}
	}
	if len(departments) == 0 {
		return []domain.Ticket{}, nil
	}

	open := false
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		DepartmentIDs: departments,
		Unassigned:    true,
		IsClosed:      &open,
		Limit:         limit,
		Offset:        offset,
		OrderBy:       "created_at ASC",
	})
	return tickets, apperrors.MapError(err)
}

// ListAssignedTickets returns tickets currently assigned to the actor.
func (s *TicketWorkflowService) ListAssignedTickets(ctx context.Context, actorID string, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		AssignedToIDs: []string{actorID},
		Limit:         limit,
		Offset:        offset,
		OrderBy:       "assigned_at DESC",
	})
	return tickets, apperrors.MapError(err)
}

// ListTeamTickets returns tickets assigned to members of teams the actor
// manages. A manager with no team receives an empty result, not an error.
func (s *TicketWorkflowService) ListTeamTickets(ctx context.Context, actorID string, limit, offset int) ([]domain.Ticket, error) {
	actor, err := s.resolver.Resolve(ctx, actorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !actor.HasAnyRole(domain.RoleManager, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("manager role required")
	}
	if len(actor.TeamMemberIDs) == 0 {
		return []domain.Ticket{}, nil
	}
	members := make([]string, 0, len(actor.TeamMemberIDs))
	for id := range actor.TeamMemberIDs {
		members = append(members, id)
	}

	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		AssignedToIDs: members,
		Limit:         limit,
		Offset:        offset,
	})
	return tickets, apperrors.MapError(err)
}

// ListHistory returns the audit trail of a ticket the actor may view.
func (s *TicketWorkflowService) ListHistory(ctx context.Context, actorID, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if _, err := s.GetTicket(ctx, actorID, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, limit, offset)
	return entries, apperrors.MapError(err)
}

// authorizeMutation locks the ticket row and runs the shared pre-mutation
// checks: visibility (merged to not-found), modify permission, closure
// immutability and the optimistic version check, in that order.
func (s *TicketWorkflowService) authorizeMutation(ctx context.Context, tx pgx.Tx, actorID, ticketID string, expectedVersion *int) (*domain.Ticket, error) {
	actor, err := s.resolver.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetForUpdate(ctx, tx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if !CanView(actor, ticket) {
		return nil, apperrors.NewNotFound("ticket")
	}
	if !CanModify(actor, ticket) {
		return nil, apperrors.NewForbidden("you cannot modify this ticket")
	}
	if err := checkMutable(ticket); err != nil {
		return nil, err
	}
	if err := checkVersion(ticket, expectedVersion); err != nil {
		return nil, err
	}
	return ticket, nil
}

// commit is the single code path that advances a ticket's version.
func (s *TicketWorkflowService) commit(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	ticket.Version++
	ticket.UpdatedAt = s.clock()
	return s.tickets.Update(ctx, tx, ticket)
}

func (s *TicketWorkflowService) appendHistory(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket, oldStatus, newStatus domain.TicketStatus, note, actorID string, at time.Time) error {
	return s.history.Create(ctx, tx, &domain.TicketHistory{
		TicketID:    ticket.ID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Note:        note,
		ChangedByID: actorID,
		ChangedAt:   at,
	})
}

func (s *TicketWorkflowService) emit(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *TicketWorkflowService) record(operation string) {
	if s.collector != nil {
		s.collector.RecordOperation(operation)
	}
}

func (s *TicketWorkflowService) fail(operation string, err error) error {
	mapped := apperrors.ToDomainError(err)
	if s.collector != nil {
		s.collector.RecordError(operation, mapped.Code)
	}
	if mapped.Code == apperrors.CodeInternal {
		s.logger.Error("operation failed", zap.String("operation", operation), zap.Error(err))
	}
	return mapped
}

func checkMutable(ticket *domain.Ticket) error {
	if ticket.IsClosed {
		return apperrors.NewImmutableTicket()
	}
	return nil
}

func checkVersion(ticket *domain.Ticket, expected *int) error {
	if expected != nil && *expected != ticket.Version {
		return apperrors.NewVersionConflict()
	}
	return nil
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource)
	}
	return err
}
