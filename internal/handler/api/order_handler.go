package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrderHandler serves the customer order listing the dashboard tickets
// reference orders from.
type OrderHandler struct {
	repos  *Repos
	logger *zap.Logger
}

func NewOrderHandler(repos *Repos, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{repos: repos, logger: logger}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return customerError(c, http.StatusUnauthorized, "Authentication required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	status := c.QueryParam("status")

	orders, total, err := h.repos.Order.FindAllForUser(user.ID, limit, page, status)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Uint("user_id", user.ID), zap.Error(err))
		return customerError(c, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
		"pagination": map[string]interface{}{
			"total":        total,
			"current_page": page,
			"per_page":     limit,
			"total_pages":  totalPages(total, limit),
		},
	})
}
