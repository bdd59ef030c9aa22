package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smmdesk/internal/handler/api"
	"smmdesk/internal/middleware"
	"smmdesk/internal/repository"
	"smmdesk/internal/ticket"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	ticketSvc *ticket.Service,
	logger *zap.Logger,
	apiKey string,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	repos := &api.Repos{
		User:     repository.NewUserRepository(db),
		Order:    repository.NewOrderRepository(db),
		Service:  repository.NewServiceRepository(db),
		Provider: repository.NewProviderRepository(db),
		Request:  repository.NewRequestRepository(db),
		Ticket:   repository.NewTicketRepository(db),
		Setting:  repository.NewSettingRepository(db),
	}

	// Handlers
	ticketHandler := api.NewTicketHandler(ticketSvc, repos, logger)
	orderHandler := api.NewOrderHandler(repos, logger)
	adminRequestsHandler := api.NewAdminRequestsHandler(repos, nil, logger)

	// Customer endpoints, authenticated by panel API token.
	customerGroup := e.Group("/api")
	customerGroup.Use(middleware.UserAuth(repos.User))

	customerGroup.POST("/support-tickets", ticketHandler.Create)
	customerGroup.GET("/support-tickets", ticketHandler.List)
	customerGroup.GET("/support-tickets/:id", ticketHandler.Get)
	customerGroup.GET("/orders", orderHandler.List)

	// Admin moderation endpoints, authenticated by the admin API key.
	adminGroup := e.Group("/api/admin")
	adminGroup.Use(middleware.APIAuth(apiKey))

	adminGroup.GET("/refill-requests", adminRequestsHandler.ListRefills)
	adminGroup.POST("/refill-requests/:id/approve", adminRequestsHandler.ApproveRefill)
	adminGroup.POST("/refill-requests/:id/decline", adminRequestsHandler.DeclineRefill)
	adminGroup.GET("/cancel-requests", adminRequestsHandler.ListCancels)
	adminGroup.POST("/cancel-requests/:id/approve", adminRequestsHandler.ApproveCancel)
	adminGroup.POST("/cancel-requests/:id/decline", adminRequestsHandler.DeclineCancel)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
