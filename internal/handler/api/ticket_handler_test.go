package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"smmdesk/internal/models"
	"smmdesk/internal/notify"
	"smmdesk/internal/repository"
	"smmdesk/internal/ticket"
)

type apiTestEnv struct {
	db      *gorm.DB
	repos   *Repos
	handler *TicketHandler
	user    *models.User
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Service{},
		&models.Order{},
		&models.RefillRequest{},
		&models.CancelRequest{},
		&models.SupportTicket{},
		&models.TicketMessage{},
		&models.Setting{},
	))
	require.NoError(t, db.Create(&models.Setting{
		TicketSystemEnabled: true,
		MaxPendingTickets:   3,
	}).Error)

	repos := &Repos{
		User:     repository.NewUserRepository(db),
		Order:    repository.NewOrderRepository(db),
		Service:  repository.NewServiceRepository(db),
		Provider: repository.NewProviderRepository(db),
		Request:  repository.NewRequestRepository(db),
		Ticket:   repository.NewTicketRepository(db),
		Setting:  repository.NewSettingRepository(db),
	}

	user := &models.User{Username: "alice", APIToken: "tok-alice", Status: models.UserStatusActive}
	require.NoError(t, db.Create(user).Error)

	logger := zap.NewNop()
	processor := ticket.NewProcessor(&ticket.ProcessorRepos{
		Order:    repos.Order,
		Service:  repos.Service,
		User:     repos.User,
		Request:  repos.Request,
		Provider: repos.Provider,
	}, nil, notify.Nop{}, logger)
	svc := ticket.NewService(repos.Ticket, repos.Order, repos.User, repos.Setting,
		processor, notify.Nop{}, nil, logger)

	return &apiTestEnv{
		db:      db,
		repos:   repos,
		handler: NewTicketHandler(svc, repos, logger),
		user:    user,
	}
}

func (env *apiTestEnv) postTicket(t *testing.T, body string, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/support-tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if authenticated {
		c.Set("user", env.user)
	}
	require.NoError(t, env.handler.Create(c))
	return rec
}

func (env *apiTestEnv) seedOwnedOrder(t *testing.T, status string) *models.Order {
	t.Helper()
	svc := &models.Service{Name: "Likes", Refill: true, Cancel: true, Status: "active"}
	require.NoError(t, env.db.Create(svc).Error)
	order := &models.Order{
		UserID:    env.user.ID,
		ServiceID: svc.ID,
		Quantity:  100,
		Price:     5,
		Status:    status,
	}
	require.NoError(t, env.db.Create(order).Error)
	return order
}

func ticketBody(aiSubcategory string, orderIDs ...uint) string {
	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	payload := map[string]interface{}{
		"subject":    "Refill please",
		"message":    "Drops on my order",
		"category":   "Orders",
		"ticketType": "AI",
		"orderIds":   ids,
	}
	if aiSubcategory != "" {
		payload["aiSubcategory"] = aiSubcategory
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func TestTicketHandlerCreate(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		env := newAPITestEnv(t)
		rec := env.postTicket(t, ticketBody("Refill", 1), false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("validates the payload", func(t *testing.T) {
		env := newAPITestEnv(t)
		rec := env.postTicket(t, `{"message":"no subject","category":"Orders","orderIds":["1"]}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Validation failed")
	})

	t.Run("rejects non numeric order ids at the schema", func(t *testing.T) {
		env := newAPITestEnv(t)
		body := `{"subject":"s","message":"m","category":"Orders","ticketType":"AI","aiSubcategory":"Refill","orderIds":["12a"]}`
		rec := env.postTicket(t, body, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("403 when the ticket system is disabled", func(t *testing.T) {
		env := newAPITestEnv(t)
		require.NoError(t, env.db.Model(&models.Setting{}).Where("1 = 1").
			Update("ticket_system_enabled", false).Error)
		order := env.seedOwnedOrder(t, models.OrderStatusCompleted)

		rec := env.postTicket(t, ticketBody("Refill", order.ID), true)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("429 at the pending ticket limit", func(t *testing.T) {
		env := newAPITestEnv(t)
		order := env.seedOwnedOrder(t, models.OrderStatusCompleted)
		for i := 0; i < 3; i++ {
			require.NoError(t, env.db.Create(&models.SupportTicket{
				UserID: env.user.ID, Subject: "open", Status: models.TicketStatusOpen,
			}).Error)
		}

		rec := env.postTicket(t, ticketBody("Refill", order.ID), true)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("400 with the foreign order ids listed", func(t *testing.T) {
		env := newAPITestEnv(t)
		order := env.seedOwnedOrder(t, models.OrderStatusCompleted)

		other := &models.User{Username: "bob", APIToken: "tok-bob", Status: models.UserStatusActive}
		require.NoError(t, env.db.Create(other).Error)
		foreign := &models.Order{
			UserID: other.ID, ServiceID: order.ServiceID,
			Status: models.OrderStatusCompleted, Price: 5,
		}
		require.NoError(t, env.db.Create(foreign).Error)

		rec := env.postTicket(t, ticketBody("Refill", order.ID, foreign.ID), true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		ids, ok := resp["order_ids"].([]interface{})
		require.True(t, ok)
		require.Len(t, ids, 1)
		assert.Equal(t, strconv.FormatUint(uint64(foreign.ID), 10), ids[0])
	})

	t.Run("creates a refill ticket and reports it closed", func(t *testing.T) {
		env := newAPITestEnv(t)
		order := env.seedOwnedOrder(t, models.OrderStatusCompleted)

		rec := env.postTicket(t, ticketBody("Refill", order.ID), true)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool `json:"success"`
			Ticket  struct {
				ID       uint   `json:"id"`
				Status   string `json:"status"`
				Subject  string `json:"subject"`
				Priority string `json:"priority"`
			} `json:"ticket"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, models.TicketStatusClosed, resp.Ticket.Status)
		assert.Equal(t, "medium", resp.Ticket.Priority)

		var req models.RefillRequest
		require.NoError(t, env.db.Where("order_id = ?", order.ID).First(&req).Error)
		assert.Equal(t, models.RequestStatusPending, req.Status)
	})
}
