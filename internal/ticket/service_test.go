package ticket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smmdesk/internal/models"
	"smmdesk/internal/notify"
	"smmdesk/internal/repository"
)

type stubSettings struct {
	cfg repository.TicketSettings
	err error
}

func (s stubSettings) TicketSettings() (repository.TicketSettings, error) {
	return s.cfg, s.err
}

func enabledSettings() stubSettings {
	return stubSettings{cfg: repository.TicketSettings{Enabled: true, MaxPendingTickets: 3}}
}

type stubDeduper struct{ dup bool }

func (s stubDeduper) Seen(context.Context, uint, string, string) (bool, error) {
	return s.dup, nil
}

func newTestService(db *gorm.DB, settings repository.TicketSettingsProvider, deduper SubmissionDeduper) *Service {
	repos := newTestRepos(db)
	processor := NewProcessor(repos, nil, notify.Nop{}, zap.NewNop())
	return NewService(
		repository.NewTicketRepository(db),
		repos.Order,
		repos.User,
		settings,
		processor,
		notify.Nop{},
		deduper,
		zap.NewNop(),
	)
}

func humanInput() CreateTicketInput {
	return CreateTicketInput{
		Subject:    "Need help",
		Message:    "My order looks stuck",
		Category:   "Orders",
		TicketType: models.TicketTypeHuman,
	}
}

func TestCreateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected while the ticket system is disabled", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		svc := newTestService(db, stubSettings{cfg: repository.TicketSettings{Enabled: false, MaxPendingTickets: 3}}, nil)

		_, err := svc.CreateTicket(ctx, user.ID, humanInput())
		assert.ErrorIs(t, err, ErrTicketSystemDisabled)
	})

	t.Run("pending ticket limit", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		for i := 0; i < 3; i++ {
			require.NoError(t, db.Create(&models.SupportTicket{
				UserID: user.ID, Subject: "open", Status: models.TicketStatusOpen,
			}).Error)
		}

		svc := newTestService(db, enabledSettings(), nil)
		_, err := svc.CreateTicket(ctx, user.ID, humanInput())
		assert.ErrorIs(t, err, ErrTooManyPendingTickets)
	})

	t.Run("closed tickets do not count against the limit", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		for i := 0; i < 5; i++ {
			require.NoError(t, db.Create(&models.SupportTicket{
				UserID: user.ID, Subject: "done", Status: models.TicketStatusClosed,
			}).Error)
		}

		svc := newTestService(db, enabledSettings(), nil)
		tkt, err := svc.CreateTicket(ctx, user.ID, humanInput())
		require.NoError(t, err)
		assert.NotZero(t, tkt.ID)
	})

	t.Run("duplicate submission is rejected", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		svc := newTestService(db, enabledSettings(), stubDeduper{dup: true})

		_, err := svc.CreateTicket(ctx, user.ID, humanInput())
		assert.ErrorIs(t, err, ErrDuplicateSubmission)
	})

	t.Run("foreign order id rejects the whole submission", func(t *testing.T) {
		db := newTestDB(t)
		owner := seedUser(t, db, 0)
		stranger := seedUser(t, db, 0)
		service := seedService(t, db, serviceOpts{refill: true})
		mine := seedOrder(t, db, stranger.ID, service.ID, models.OrderStatusCompleted, 10, nil)
		foreign := seedOrder(t, db, owner.ID, service.ID, models.OrderStatusCompleted, 10, nil)

		svc := newTestService(db, enabledSettings(), nil)
		in := humanInput()
		in.TicketType = models.TicketTypeAI
		in.AISubcategory = models.AIActionRefill
		in.OrderIDs = []string{idStr(mine.ID), idStr(foreign.ID)}

		_, err := svc.CreateTicket(ctx, stranger.ID, in)

		var ownErr *OwnershipError
		require.ErrorAs(t, err, &ownErr)
		assert.Equal(t, []string{idStr(foreign.ID)}, ownErr.OrderIDs)

		// Nothing was processed, not even the caller's own order.
		var count int64
		require.NoError(t, db.Model(&models.SupportTicket{}).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, db.Model(&models.RefillRequest{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("non numeric order id is treated as foreign", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)

		svc := newTestService(db, enabledSettings(), nil)
		in := humanInput()
		in.TicketType = models.TicketTypeAI
		in.AISubcategory = models.AIActionRefill
		in.OrderIDs = []string{"not-a-number"}

		_, err := svc.CreateTicket(ctx, user.ID, in)

		var ownErr *OwnershipError
		require.ErrorAs(t, err, &ownErr)
		assert.Equal(t, []string{"not-a-number"}, ownErr.OrderIDs)
	})

	t.Run("refill ticket posts a system reply and closes", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		service := seedService(t, db, serviceOpts{refill: true})
		good := seedOrder(t, db, user.ID, service.ID, models.OrderStatusCompleted, 10, nil)
		bad := seedOrder(t, db, user.ID, service.ID, models.OrderStatusPending, 10, nil)

		svc := newTestService(db, enabledSettings(), nil)
		in := humanInput()
		in.TicketType = models.TicketTypeAI
		in.AISubcategory = models.AIActionRefill
		in.OrderIDs = []string{idStr(good.ID), idStr(bad.ID)}

		tkt, err := svc.CreateTicket(ctx, user.ID, in)
		require.NoError(t, err)

		assert.Equal(t, models.TicketStatusClosed, tkt.Status)
		assert.NotEmpty(t, tkt.Tracking)
		assert.Equal(t, []string{idStr(good.ID), idStr(bad.ID)}, tkt.OrderIDList())

		assert.Contains(t, tkt.SystemMessage, idStr(good.ID))
		assert.Contains(t, tkt.SystemMessage, idStr(bad.ID))
		assert.Contains(t, tkt.SystemMessage, "Details:")

		var messages []models.TicketMessage
		require.NoError(t, db.Where("ticket_id = ?", tkt.ID).Order("id").Find(&messages).Error)
		require.Len(t, messages, 2)
		assert.Equal(t, models.SenderCustomer, messages[0].Sender)
		assert.Equal(t, models.SenderSystem, messages[1].Sender)
		assert.Equal(t, tkt.SystemMessage, messages[1].Message)
	})

	t.Run("speed up ticket stays open for follow-up", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		service := seedService(t, db, serviceOpts{})
		order := seedOrder(t, db, user.ID, service.ID, models.OrderStatusInProgress, 10, nil)

		svc := newTestService(db, enabledSettings(), nil)
		in := humanInput()
		in.TicketType = models.TicketTypeAI
		in.AISubcategory = models.AIActionSpeedUp
		in.OrderIDs = []string{idStr(order.ID)}

		tkt, err := svc.CreateTicket(ctx, user.ID, in)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusOpen, tkt.Status)
		assert.NotEmpty(t, tkt.SystemMessage)
	})

	t.Run("human ticket has no system reply", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)

		svc := newTestService(db, enabledSettings(), nil)
		tkt, err := svc.CreateTicket(ctx, user.ID, humanInput())
		require.NoError(t, err)

		assert.Equal(t, models.TicketStatusOpen, tkt.Status)
		assert.Empty(t, tkt.SystemMessage)

		var messages []models.TicketMessage
		require.NoError(t, db.Where("ticket_id = ?", tkt.ID).Find(&messages).Error)
		require.Len(t, messages, 1)
		assert.Equal(t, models.SenderCustomer, messages[0].Sender)
	})

	t.Run("duplicate order ids are collapsed", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, 0)
		service := seedService(t, db, serviceOpts{refill: true})
		order := seedOrder(t, db, user.ID, service.ID, models.OrderStatusCompleted, 10, nil)

		svc := newTestService(db, enabledSettings(), nil)
		in := humanInput()
		in.TicketType = models.TicketTypeAI
		in.AISubcategory = models.AIActionRefill
		in.OrderIDs = []string{idStr(order.ID), " " + idStr(order.ID) + " "}

		tkt, err := svc.CreateTicket(ctx, user.ID, in)
		require.NoError(t, err)
		assert.Equal(t, []string{idStr(order.ID)}, tkt.OrderIDList())

		var count int64
		require.NoError(t, db.Model(&models.RefillRequest{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestSystemMessage(t *testing.T) {
	t.Run("all succeeded", func(t *testing.T) {
		batch := &BatchResult{Action: models.AIActionRefill}
		batch.add(success("1", "ok"))
		batch.add(success("2", "ok"))

		msg := SystemMessage(models.AIActionRefill, batch)
		assert.Contains(t, msg, "Good news!")
		assert.Contains(t, msg, "1, 2")
		assert.NotContains(t, msg, "Details:")
	})

	t.Run("none succeeded", func(t *testing.T) {
		batch := &BatchResult{Action: models.AIActionCancel}
		batch.add(failure("7", "order not found"))

		msg := SystemMessage(models.AIActionCancel, batch)
		assert.Contains(t, msg, "Unfortunately")
		assert.Contains(t, msg, "cancellation request")
		assert.Contains(t, msg, "- Order 7: order not found")
	})

	t.Run("mixed lists both groups", func(t *testing.T) {
		batch := &BatchResult{Action: models.AIActionRefill}
		batch.add(success("1", "ok"))
		batch.add(failure("2", "window expired"))

		msg := SystemMessage(models.AIActionRefill, batch)
		assert.Contains(t, msg, "has been processed for order(s): 1")
		assert.Contains(t, msg, "could not process order(s): 2")
		assert.Contains(t, msg, "- Order 2: window expired")
	})

	t.Run("status actions skip the failure details", func(t *testing.T) {
		batch := &BatchResult{Action: models.AIActionSpeedUp}
		batch.add(failure("3", "order in status completed cannot be sped up"))

		msg := SystemMessage(models.AIActionSpeedUp, batch)
		assert.Contains(t, msg, "speed up request")
		assert.NotContains(t, msg, "Details:")
	})
}
