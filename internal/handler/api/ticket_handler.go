package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smmdesk/internal/models"
	"smmdesk/internal/ticket"
)

// TicketHandler serves the customer support-ticket endpoints.
type TicketHandler struct {
	svc    *ticket.Service
	repos  *Repos
	logger *zap.Logger
}

func NewTicketHandler(svc *ticket.Service, repos *Repos, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{svc: svc, repos: repos, logger: logger}
}

// CreateTicketRequest is the ticket submission payload.
type CreateTicketRequest struct {
	Subject       string   `json:"subject" validate:"required,max=500"`
	Message       string   `json:"message" validate:"required"`
	Category      string   `json:"category" validate:"required,max=200"`
	Subcategory   string   `json:"subcategory" validate:"omitempty,max=200"`
	Priority      string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	TicketType    string   `json:"ticketType" validate:"omitempty,oneof=Human AI"`
	AISubcategory string   `json:"aiSubcategory" validate:"omitempty,oneof=Refill Cancel 'Speed Up' Restart 'Fake Complete'"`
	OrderIDs      []string `json:"orderIds" validate:"required,min=1,max=10,dive,numeric"`
	Attachments   []string `json:"attachments" validate:"omitempty,max=5"`
}

// Create handles POST /api/support-tickets.
func (h *TicketHandler) Create(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return customerError(c, http.StatusUnauthorized, "Authentication required")
	}

	var req CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		return customerError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Validation failed",
			"errors":  validationDetails(err),
		})
	}

	ticketType := req.TicketType
	if ticketType == "" {
		ticketType = models.TicketTypeHuman
	}

	tkt, err := h.svc.CreateTicket(c.Request().Context(), user.ID, ticket.CreateTicketInput{
		Subject:       req.Subject,
		Message:       req.Message,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Priority:      req.Priority,
		TicketType:    ticketType,
		AISubcategory: req.AISubcategory,
		OrderIDs:      req.OrderIDs,
	})
	if err != nil {
		var ownErr *ticket.OwnershipError
		switch {
		case errors.Is(err, ticket.ErrTicketSystemDisabled):
			return customerError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, ticket.ErrTooManyPendingTickets):
			return customerError(c, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, ticket.ErrDuplicateSubmission):
			return customerError(c, http.StatusConflict, err.Error())
		case errors.As(err, &ownErr):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"success":   false,
				"message":   "Some orders do not belong to your account",
				"order_ids": ownErr.OrderIDs,
			})
		default:
			h.logger.Error("ticket creation failed", zap.Uint("user_id", user.ID), zap.Error(err))
			return customerError(c, http.StatusInternalServerError, "Failed to create support ticket")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Support ticket created successfully",
		"ticket": map[string]interface{}{
			"id":        tkt.ID,
			"subject":   tkt.Subject,
			"status":    tkt.Status,
			"category":  tkt.Category,
			"priority":  tkt.Priority,
			"createdAt": tkt.CreatedAt,
		},
	})
}

// List handles GET /api/support-tickets.
func (h *TicketHandler) List(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return customerError(c, http.StatusUnauthorized, "Authentication required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := c.QueryParam("status")
	category := c.QueryParam("category")

	tickets, total, err := h.repos.Ticket.FindAllForUser(user.ID, limit, page, status, category)
	if err != nil {
		h.logger.Error("failed to list tickets", zap.Uint("user_id", user.ID), zap.Error(err))
		return customerError(c, http.StatusInternalServerError, "Failed to retrieve tickets")
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"tickets": tickets,
		"pagination": map[string]interface{}{
			"total":        total,
			"current_page": page,
			"per_page":     limit,
			"total_pages":  totalPages(total, limit),
		},
	})
}

// Get handles GET /api/support-tickets/:id and includes the message thread.
func (h *TicketHandler) Get(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return customerError(c, http.StatusUnauthorized, "Authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return customerError(c, http.StatusBadRequest, "Invalid ticket id")
	}

	tkt, err := h.repos.Ticket.FindByIDForUser(uint(id), user.ID)
	if err != nil {
		return customerError(c, http.StatusNotFound, "Ticket not found")
	}

	messages, err := h.repos.Ticket.FindMessages(tkt.ID)
	if err != nil {
		h.logger.Error("failed to load ticket messages", zap.Uint("ticket_id", tkt.ID), zap.Error(err))
		return customerError(c, http.StatusInternalServerError, "Failed to retrieve ticket")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"ticket":   tkt,
		"messages": messages,
	})
}
