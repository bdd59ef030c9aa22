package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smmdesk/internal/models"
	"smmdesk/internal/provider"
)

// AdminRequestsHandler moderates refill and cancel requests raised by the
// automated ticket actions.
type AdminRequestsHandler struct {
	repos   *Repos
	factory provider.Factory
	logger  *zap.Logger
}

func NewAdminRequestsHandler(repos *Repos, factory provider.Factory, logger *zap.Logger) *AdminRequestsHandler {
	if factory == nil {
		factory = provider.NewClient
	}
	return &AdminRequestsHandler{repos: repos, factory: factory, logger: logger}
}

type moderateRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// ListRefills handles GET /api/admin/refill-requests.
func (h *AdminRequestsHandler) ListRefills(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := c.QueryParam("status")

	requests, total, err := h.repos.Request.FindRefills(limit, page, status)
	if err != nil {
		h.logger.Error("failed to list refill requests", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to retrieve refill requests")
	}
	return paginatedResponse(c, requests, total, page, limit)
}

// ListCancels handles GET /api/admin/cancel-requests.
func (h *AdminRequestsHandler) ListCancels(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := c.QueryParam("status")

	requests, total, err := h.repos.Request.FindCancels(limit, page, status)
	if err != nil {
		h.logger.Error("failed to list cancel requests", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to retrieve cancel requests")
	}
	return paginatedResponse(c, requests, total, page, limit)
}

// ApproveRefill handles POST /api/admin/refill-requests/:id/approve. When the
// order is provider backed and no upstream refill was submitted yet, the
// refill is forwarded to the provider before the request is marked approved.
func (h *AdminRequestsHandler) ApproveRefill(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request id")
	}
	var body moderateRequest
	_ = c.Bind(&body)

	req, err := h.repos.Request.FindRefillByID(uint(id))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "refill request not found")
	}
	if req.Status != models.RequestStatusPending {
		return errorResponse(c, http.StatusBadRequest, "request is not pending")
	}

	updates := map[string]interface{}{
		"status":       models.RequestStatusApproved,
		"admin_notes":  body.AdminNotes,
		"processed_at": time.Now(),
	}

	if req.ProviderRefillID == nil {
		if refillID, ok := h.submitProviderRefill(c, req); ok {
			updates["provider_refill_id"] = refillID
		}
	}

	if err := h.repos.Request.UpdateRefill(req.ID, updates); err != nil {
		h.logger.Error("failed to approve refill request", zap.Uint("request_id", req.ID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to approve request")
	}
	return successResponse(c, "refill request approved", nil)
}

// submitProviderRefill forwards an approved refill upstream. Failures are
// logged without blocking the approval so the admin can retry manually.
func (h *AdminRequestsHandler) submitProviderRefill(c echo.Context, req *models.RefillRequest) (string, bool) {
	order, err := h.repos.Order.FindByIDForUser(req.OrderID, req.UserID)
	if err != nil || order.ProviderID == nil || order.ProviderOrderID == nil {
		return "", false
	}
	prov, err := h.repos.Provider.FindByID(*order.ProviderID)
	if err != nil {
		h.logger.Warn("provider lookup failed for refill approval",
			zap.Uint("request_id", req.ID), zap.Error(err))
		return "", false
	}
	client, err := h.factory(prov)
	if err != nil {
		h.logger.Warn("provider client build failed for refill approval",
			zap.Uint("request_id", req.ID), zap.Error(err))
		return "", false
	}
	refillID, err := client.Refill(c.Request().Context(), *order.ProviderOrderID)
	if err != nil {
		h.logger.Warn("provider refill submission failed on approval",
			zap.Uint("request_id", req.ID),
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return "", false
	}
	return refillID, true
}

// DeclineRefill handles POST /api/admin/refill-requests/:id/decline.
func (h *AdminRequestsHandler) DeclineRefill(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request id")
	}
	var body moderateRequest
	_ = c.Bind(&body)

	req, err := h.repos.Request.FindRefillByID(uint(id))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "refill request not found")
	}
	if req.Status != models.RequestStatusPending {
		return errorResponse(c, http.StatusBadRequest, "request is not pending")
	}

	err = h.repos.Request.UpdateRefill(req.ID, map[string]interface{}{
		"status":       models.RequestStatusDeclined,
		"admin_notes":  body.AdminNotes,
		"processed_at": time.Now(),
	})
	if err != nil {
		h.logger.Error("failed to decline refill request", zap.Uint("request_id", req.ID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to decline request")
	}
	return successResponse(c, "refill request declined", nil)
}

// ApproveCancel handles POST /api/admin/cancel-requests/:id/approve. Approval
// cancels the order and refunds the snapshotted amount in one transaction.
func (h *AdminRequestsHandler) ApproveCancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request id")
	}
	var body moderateRequest
	_ = c.Bind(&body)

	req, err := h.repos.Request.FindCancelByID(uint(id))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "cancel request not found")
	}
	if req.Status != models.RequestStatusPending {
		return errorResponse(c, http.StatusBadRequest, "request is not pending")
	}

	if err := h.repos.Order.CancelWithRefund(req.OrderID, req.UserID, req.RefundAmount); err != nil {
		h.logger.Error("cancel approval transaction failed",
			zap.Uint("request_id", req.ID),
			zap.Uint("order_id", req.OrderID),
			zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to cancel order and refund")
	}

	err = h.repos.Request.UpdateCancel(req.ID, map[string]interface{}{
		"status":       models.RequestStatusApproved,
		"admin_notes":  body.AdminNotes,
		"processed_at": time.Now(),
	})
	if err != nil {
		h.logger.Error("failed to mark cancel request approved", zap.Uint("request_id", req.ID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "order cancelled but request update failed")
	}
	return successResponse(c, "cancel request approved and order refunded", nil)
}

// DeclineCancel handles POST /api/admin/cancel-requests/:id/decline.
func (h *AdminRequestsHandler) DeclineCancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request id")
	}
	var body moderateRequest
	_ = c.Bind(&body)

	req, err := h.repos.Request.FindCancelByID(uint(id))
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "cancel request not found")
	}
	if req.Status != models.RequestStatusPending {
		return errorResponse(c, http.StatusBadRequest, "request is not pending")
	}

	err = h.repos.Request.UpdateCancel(req.ID, map[string]interface{}{
		"status":       models.RequestStatusDeclined,
		"admin_notes":  body.AdminNotes,
		"processed_at": time.Now(),
	})
	if err != nil {
		h.logger.Error("failed to decline cancel request", zap.Uint("request_id", req.ID), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "failed to decline request")
	}
	return successResponse(c, "cancel request declined", nil)
}
