package ticket

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smmdesk/internal/models"
)

// ProcessCancel files cancel requests for the given orders. Self-service
// orders are cancelled and refunded on the spot; provider-backed orders get a
// pending request plus a best-effort upstream submission.
func (p *Processor) ProcessCancel(ctx context.Context, userID uint, orderIDs []string) *BatchResult {
	batch := &BatchResult{Action: models.AIActionCancel}
	for _, rawID := range orderIDs {
		batch.add(p.cancelOrder(ctx, userID, rawID))
	}
	return batch
}

var cancellableStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusInProgress: true,
}

func (p *Processor) cancelOrder(ctx context.Context, userID uint, rawID string) ActionResult {
	order, ok := p.loadOwnedOrder(rawID, userID)
	if !ok {
		return failure(rawID, "order not found")
	}

	svc, err := p.repos.Service.FindByID(order.ServiceID)
	if err != nil {
		return failure(rawID, "service not found for order")
	}
	if !svc.Cancel {
		return failure(rawID, "this service does not support cancellation")
	}

	if !cancellableStatuses[models.NormalizeOrderStatus(order.Status)] {
		return failure(rawID, fmt.Sprintf("order cannot be cancelled in status %s", order.Status))
	}

	// Any prior cancel request blocks a new one, whatever its status ended
	// up as. Stricter than the refill duplicate rule.
	exists, err := p.repos.Request.HasAnyCancel(order.ID)
	if err != nil {
		return failure(rawID, "failed to check existing cancel requests")
	}
	if exists {
		return failure(rawID, "a cancel request for this order already exists")
	}

	// Refund always snapshots the price paid, not the current rate.
	refund := order.Price
	isSelfService := !svc.ProviderBacked()

	if isSelfService {
		now := time.Now()
		req := &models.CancelRequest{
			OrderID:      order.ID,
			UserID:       userID,
			Reason:       "Requested via support ticket automation",
			Status:       models.RequestStatusApproved,
			RefundAmount: refund,
			AdminNotes:   "Self-service order: cancelled automatically with full refund",
			ProcessedAt:  &now,
		}
		if err := p.repos.Request.CreateCancel(req); err != nil {
			p.logger.Error("failed to create cancel request", zap.String("order_id", rawID), zap.Error(err))
			return failure(rawID, "failed to create cancel request")
		}

		if err := p.repos.Order.CancelWithRefund(order.ID, userID, refund); err != nil {
			p.logger.Error("self-service cancel transaction failed",
				zap.String("order_id", rawID), zap.Error(err))
			p.bestEffort("mark cancel request failed", func() error {
				return p.repos.Request.UpdateCancel(req.ID, map[string]interface{}{
					"status":      models.RequestStatusFailed,
					"admin_notes": "Refund transaction failed: " + err.Error(),
				})
			})
			return failure(rawID, "failed to cancel order")
		}

		return success(rawID, fmt.Sprintf("order cancelled, %.2f refunded to your balance", refund))
	}

	req := &models.CancelRequest{
		OrderID:      order.ID,
		UserID:       userID,
		Reason:       "Requested via support ticket automation",
		Status:       models.RequestStatusPending,
		RefundAmount: refund,
	}
	if err := p.repos.Request.CreateCancel(req); err != nil {
		p.logger.Error("failed to create cancel request", zap.String("order_id", rawID), zap.Error(err))
		return failure(rawID, "failed to create cancel request")
	}

	p.bestEffort("admin cancel notification", func() error {
		user, err := p.repos.User.FindByID(userID)
		if err != nil {
			return err
		}
		return p.notifier.AdminNewCancelRequest(order, user, req)
	})

	// Quirk kept from the legacy panel: a failed provider submission flips
	// the request to failed, yet the order still reports success here. The
	// ticket reply means "your cancel request was filed", not "the provider
	// accepted it".
	if err := p.submitProviderCancel(ctx, svc, order); err != nil {
		p.logger.Warn("provider cancel submission failed",
			zap.String("order_id", rawID), zap.Error(err))
		p.bestEffort("mark cancel request failed", func() error {
			return p.repos.Request.UpdateCancel(req.ID, map[string]interface{}{
				"status":      models.RequestStatusFailed,
				"admin_notes": "Provider cancellation submission failed: " + err.Error(),
			})
		})
	}

	return success(rawID, "cancel request submitted")
}

func (p *Processor) submitProviderCancel(ctx context.Context, svc *models.Service, order *models.Order) error {
	if order.ProviderOrderID == nil {
		return fmt.Errorf("order has no provider order id")
	}
	prov, err := p.repos.Provider.FindByID(*svc.ProviderID)
	if err != nil {
		return fmt.Errorf("provider lookup failed: %w", err)
	}
	client, err := p.factory(prov)
	if err != nil {
		return err
	}
	return client.Cancel(ctx, *order.ProviderOrderID)
}
