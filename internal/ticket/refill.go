package ticket

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smmdesk/internal/models"
)

// ProcessRefill files refill requests for the given orders. Each order is
// validated independently; a rejection only fails that order's entry.
func (p *Processor) ProcessRefill(ctx context.Context, userID uint, orderIDs []string) *BatchResult {
	batch := &BatchResult{Action: models.AIActionRefill}
	for _, rawID := range orderIDs {
		batch.add(p.refillOrder(ctx, userID, rawID))
	}
	return batch
}

func (p *Processor) refillOrder(ctx context.Context, userID uint, rawID string) ActionResult {
	order, ok := p.loadOwnedOrder(rawID, userID)
	if !ok {
		return failure(rawID, "order not found")
	}

	if models.NormalizeOrderStatus(order.Status) != models.OrderStatusCompleted {
		return failure(rawID, fmt.Sprintf("only completed orders can be refilled (current status: %s)", order.Status))
	}

	svc, err := p.repos.Service.FindByID(order.ServiceID)
	if err != nil {
		return failure(rawID, "service not found for order")
	}
	if !svc.Refill {
		return failure(rawID, "this service does not support refill")
	}

	exists, err := p.repos.Request.HasActiveRefill(order.ID)
	if err != nil {
		return failure(rawID, "failed to check existing refill requests")
	}
	if exists {
		return failure(rawID, "a refill request for this order already exists")
	}

	// nil RefillDays means the refill window never closes.
	if svc.RefillDays != nil {
		window := time.Duration(*svc.RefillDays) * 24 * time.Hour
		if time.Since(order.UpdatedAt) > window {
			return failure(rawID, fmt.Sprintf("the %d-day refill window for this order has expired", *svc.RefillDays))
		}
	}

	var prov *models.Provider
	if svc.ProviderBacked() && order.ProviderOrderID != nil {
		prov, err = p.repos.Provider.FindByID(*svc.ProviderID)
		if err != nil {
			// Missing provider record degrades like a failed status call.
			p.logger.Warn("provider record missing for refill eligibility",
				zap.Uint("provider_id", *svc.ProviderID), zap.Error(err))
			prov = nil
		} else {
			eligible, reason := p.checkProviderRefillEligibility(ctx, prov, *order.ProviderOrderID)
			if !eligible {
				return failure(rawID, reason)
			}
		}
	}

	req := &models.RefillRequest{
		OrderID: order.ID,
		UserID:  userID,
		Reason:  "Requested via support ticket automation",
		Status:  models.RequestStatusPending,
	}
	if err := p.repos.Request.CreateRefill(req); err != nil {
		p.logger.Error("failed to create refill request", zap.String("order_id", rawID), zap.Error(err))
		return failure(rawID, "failed to create refill request")
	}

	p.bestEffort("admin refill notification", func() error {
		user, err := p.repos.User.FindByID(userID)
		if err != nil {
			return err
		}
		return p.notifier.AdminNewRefillRequest(order, user, req)
	})

	// Provider submission is best-effort: the request stays pending for admin
	// review either way, the provider refill id is just recorded when we get
	// one.
	if prov != nil {
		p.bestEffort("provider refill submission", func() error {
			client, err := p.factory(prov)
			if err != nil {
				return err
			}
			refillID, err := client.Refill(ctx, *order.ProviderOrderID)
			if err != nil {
				return err
			}
			return p.repos.Request.UpdateRefill(req.ID, map[string]interface{}{
				"provider_refill_id": refillID,
			})
		})
	}

	return success(rawID, "refill request submitted")
}
