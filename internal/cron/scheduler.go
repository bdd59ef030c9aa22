package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"smmdesk/internal/models"
	"smmdesk/internal/notify"
	"smmdesk/internal/provider"
	"smmdesk/internal/repository"
)

// statusSyncBatchSize bounds how many in-flight orders one sync run touches.
const statusSyncBatchSize = 200

// CronRepos bundles repositories needed by cron jobs.
type CronRepos struct {
	Order    *repository.OrderRepository
	Provider *repository.ProviderRepository
	Request  *repository.RequestRepository
	Ticket   *repository.TicketRepository
}

// Scheduler manages all cron jobs.
type Scheduler struct {
	cron     *cron.Cron
	repos    *CronRepos
	factory  provider.Factory
	notifier notify.Notifier
	logger   *zap.Logger
}

// New creates a new cron scheduler.
func New(repos *CronRepos, factory provider.Factory, notifier notify.Notifier, logger *zap.Logger) *Scheduler {
	if factory == nil {
		factory = provider.NewClient
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		repos:    repos,
		factory:  factory,
		notifier: notifier,
		logger:   logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Sync in-flight provider orders - every 10 minutes
	s.cron.AddFunc("0 */10 * * * *", func() {
		s.logger.Debug("Running: order status sync")
		s.syncOrderStatuses()
	})

	// Daily ticket and request report - 23:45
	s.cron.AddFunc("0 45 23 * * *", func() {
		s.logger.Debug("Running: daily report")
		s.sendDailyReport()
	})

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop stops the cron scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler stopped")
}

// syncOrderStatuses pulls live statuses for provider-backed orders that are
// still moving and writes back status, start count and remains. Provider
// clients are built once per provider id per run.
func (s *Scheduler) syncOrderStatuses() {
	orders, err := s.repos.Order.FindInFlightProviderOrders(statusSyncBatchSize)
	if err != nil {
		s.logger.Error("status sync: failed to load in-flight orders", zap.Error(err))
		return
	}
	if len(orders) == 0 {
		return
	}

	clients := make(map[uint]provider.Client)
	updated := 0

	for _, order := range orders {
		client, ok := clients[*order.ProviderID]
		if !ok {
			prov, err := s.repos.Provider.FindByID(*order.ProviderID)
			if err != nil {
				s.logger.Warn("status sync: provider lookup failed",
					zap.Uint("provider_id", *order.ProviderID), zap.Error(err))
				continue
			}
			client, err = s.factory(prov)
			if err != nil {
				s.logger.Warn("status sync: provider client build failed",
					zap.Uint("provider_id", *order.ProviderID), zap.Error(err))
				continue
			}
			clients[*order.ProviderID] = client
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		info, err := client.OrderStatus(ctx, *order.ProviderOrderID)
		cancel()
		if err != nil {
			s.logger.Debug("status sync: provider status fetch failed",
				zap.Uint("order_id", order.ID), zap.Error(err))
			continue
		}

		status := models.NormalizeOrderStatus(info.Status)
		if status == "" {
			continue
		}

		updates := map[string]interface{}{
			"start_count": info.StartCount,
			"remains":     info.Remains,
		}
		if status != models.NormalizeOrderStatus(order.Status) {
			updates["status"] = status
		}
		if err := s.repos.Order.Update(order.ID, updates); err != nil {
			s.logger.Warn("status sync: order update failed",
				zap.Uint("order_id", order.ID), zap.Error(err))
			continue
		}
		updated++
	}

	s.logger.Info("Order status sync completed",
		zap.Int("checked", len(orders)),
		zap.Int("updated", updated))
}

// sendDailyReport summarizes the day's ticket and moderation load for admins.
func (s *Scheduler) sendDailyReport() {
	openTickets, err := s.repos.Ticket.CountByStatus(models.TicketStatusOpen)
	if err != nil {
		s.logger.Error("daily report: ticket count failed", zap.Error(err))
		return
	}
	inProgress, err := s.repos.Ticket.CountByStatus(models.TicketStatusInProgress)
	if err != nil {
		s.logger.Error("daily report: ticket count failed", zap.Error(err))
		return
	}
	pendingRefills, err := s.repos.Request.CountPendingRefills()
	if err != nil {
		s.logger.Error("daily report: refill count failed", zap.Error(err))
		return
	}
	pendingCancels, err := s.repos.Request.CountPendingCancels()
	if err != nil {
		s.logger.Error("daily report: cancel count failed", zap.Error(err))
		return
	}

	report := fmt.Sprintf(
		"<b>Daily support report</b>\n"+
			"Open tickets: %d\n"+
			"In progress: %d\n"+
			"Pending refill requests: %d\n"+
			"Pending cancel requests: %d",
		openTickets, inProgress, pendingRefills, pendingCancels)

	if err := s.notifier.AdminDailyReport(report); err != nil {
		s.logger.Warn("daily report: notification failed", zap.Error(err))
	}
}
