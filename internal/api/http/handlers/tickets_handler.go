package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticketflow/internal/api/dto"
	"github.com/opsdesk/ticketflow/internal/auth"
	"github.com/opsdesk/ticketflow/internal/domain"
	"github.com/opsdesk/ticketflow/internal/service"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// staffRoles may see the internal priority field.
var staffRoles = []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin}

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketWorkflowService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(workflow *service.TicketWorkflowService) *TicketsHandler {
	return &TicketsHandler{service: workflow}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.CategoryID == "" || req.SubcategoryID == "" {
		return apperrors.NewValidationError("title, description, category_id, subcategory_id required", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), principal.User.ID, service.CreateTicketInput{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

// GetTicketByNumber GET /tickets/number/:number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicketByNumber(c.UserContext(), principal.User.ID, c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := pagination(c)
	entries, err := h.service.ListHistory(c.UserContext(), principal.User.ID, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponses(entries)})
}

// ListOwnTickets GET /tickets/mine.
func (h *TicketsHandler) ListOwnTickets(c *fiber.Ctx) error {
	return h.list(c, h.service.ListOwnTickets)
}

// ListQueue GET /tickets/queue.
func (h *TicketsHandler) ListQueue(c *fiber.Ctx) error {
	return h.list(c, h.service.ListQueue)
}

// ListAssigned GET /tickets/assigned.
func (h *TicketsHandler) ListAssigned(c *fiber.Ctx) error {
	return h.list(c, h.service.ListAssignedTickets)
}

// ListTeamTickets GET /tickets/team.
func (h *TicketsHandler) ListTeamTickets(c *fiber.Ctx) error {
	return h.list(c, h.service.ListTeamTickets)
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	return h.assign(c, h.service.Assign)
}

// ReassignTicket POST /tickets/:id/reassign.
func (h *TicketsHandler) ReassignTicket(c *fiber.Ctx) error {
	return h.assign(c, h.service.Reassign)
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), principal.User.ID, service.StatusUpdateInput{
		TicketID:        c.Params("id"),
		Status:          req.Status,
		Note:            req.Note,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClosureCodeID == "" {
		return apperrors.NewValidationError("closure_code_id required", nil)
	}

	ticket, err := h.service.Close(c.UserContext(), principal.User.ID, service.CloseTicketInput{
		TicketID:        c.Params("id"),
		ClosureCodeID:   req.ClosureCodeID,
		Note:            req.Note,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

// UpdatePriority PATCH /tickets/:id/priority.
func (h *TicketsHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdatePriority(c.UserContext(), principal.User.ID, service.PriorityUpdateInput{
		TicketID:        c.Params("id"),
		Priority:        req.Priority,
		Note:            req.Note,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

func (h *TicketsHandler) list(c *fiber.Ctx, fn func(ctx context.Context, actorID string, limit, offset int) ([]domain.Ticket, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := pagination(c)
	tickets, err := fn(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets, h.includePriority(principal))})
}

func (h *TicketsHandler) assign(c *fiber.Ctx, fn func(ctx context.Context, actorID string, input service.AssignTicketInput) (*domain.Ticket, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := fn(c.UserContext(), principal.User.ID, service.AssignTicketInput{
		TicketID:        c.Params("id"),
		AssignToID:      req.AssignedTo,
		Note:            req.Note,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.includePriority(principal))})
}

func (h *TicketsHandler) includePriority(principal *auth.Principal) bool {
	return principal.HasAnyRole(staffRoles...)
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	offset = (page - 1) * limit
	return limit, offset
}
