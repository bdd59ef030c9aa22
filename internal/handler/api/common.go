package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"smmdesk/internal/models"
	"smmdesk/internal/repository"
)

var validate = validator.New()

// Admin response helpers keep the status/msg/obj envelope of the admin panel.
func successResponse(c echo.Context, msg string, obj interface{}) error {
	return c.JSON(http.StatusOK, models.APIResponse{
		Status: true,
		Msg:    msg,
		Obj:    obj,
	})
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, models.APIResponse{
		Status: false,
		Msg:    msg,
		Obj:    nil,
	})
}

// Customer endpoints answer with a success/message body and proper HTTP
// status codes.
func customerError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]interface{}{
		"success": false,
		"message": msg,
	})
}

func validationDetails(err error) []map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := make([]map[string]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"error": fe.Tag(),
		})
	}
	return details
}

func paginatedResponse(c echo.Context, data interface{}, total int64, page, limit int) error {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return c.JSON(http.StatusOK, models.APIResponse{
		Status: true,
		Msg:    "ok",
		Obj: models.PaginatedResponse{
			Data:       data,
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	})
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		limit = 50
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

// currentUser returns the authenticated user placed in context by the
// UserAuth middleware.
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get("user").(*models.User)
	return user
}

// Repos bundles all repositories needed by API handlers.
type Repos struct {
	User     *repository.UserRepository
	Order    *repository.OrderRepository
	Service  *repository.ServiceRepository
	Provider *repository.ProviderRepository
	Request  *repository.RequestRepository
	Ticket   *repository.TicketRepository
	Setting  *repository.SettingRepository
}
