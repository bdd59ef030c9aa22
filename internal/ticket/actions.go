package ticket

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"smmdesk/internal/models"
)

// ProcessStatusAction handles the three direct status-overwrite actions:
// Speed Up, Restart and Fake Complete. No provider calls, no side records;
// the order's status is simply replaced with the action's sentinel string
// when the status gate passes.
func (p *Processor) ProcessStatusAction(ctx context.Context, action string, userID uint, orderIDs []string) *BatchResult {
	batch := &BatchResult{Action: action}
	for _, rawID := range orderIDs {
		batch.add(p.statusActionOrder(action, userID, rawID))
	}
	batch.Message = statusActionSummary(action, batch)
	return batch
}

func (p *Processor) statusActionOrder(action string, userID uint, rawID string) ActionResult {
	order, ok := p.loadOwnedOrder(rawID, userID)
	if !ok {
		return failure(rawID, "order not found")
	}

	status := models.NormalizeOrderStatus(order.Status)
	var target string

	switch action {
	case models.AIActionSpeedUp:
		if status == models.OrderStatusCompleted || status == models.OrderStatusCancelled || status == models.OrderStatusRefunded {
			return failure(rawID, fmt.Sprintf("order in status %s cannot be sped up", order.Status))
		}
		target = models.OrderStatusSpeedUpApproved
	case models.AIActionRestart:
		if status != models.OrderStatusPartial && status != models.OrderStatusProcessing && status != models.OrderStatusInProgress {
			return failure(rawID, fmt.Sprintf("order in status %s cannot be restarted", order.Status))
		}
		target = models.OrderStatusRestarted
	case models.AIActionFakeComplete:
		if status == models.OrderStatusCompleted || order.Status == models.OrderStatusFakeCompleted {
			return failure(rawID, "order is already completed")
		}
		target = models.OrderStatusFakeCompleted
	default:
		return failure(rawID, "unsupported action: "+action)
	}

	if err := p.repos.Order.UpdateStatus(order.ID, target); err != nil {
		p.logger.Error("failed to update order status",
			zap.String("order_id", rawID), zap.String("action", action), zap.Error(err))
		return failure(rawID, "failed to update order status")
	}
	return success(rawID, target)
}

// statusActionSummary builds the single combined message these actions
// return instead of an itemized list.
func statusActionSummary(action string, batch *BatchResult) string {
	verb := map[string]string{
		models.AIActionSpeedUp:      "Speed up approved",
		models.AIActionRestart:      "Restart initiated",
		models.AIActionFakeComplete: "Marked as completed",
	}[action]

	ok := batch.SuccessIDs()
	bad := batch.FailedIDs()
	switch {
	case len(bad) == 0:
		return fmt.Sprintf("%s for order(s) %s.", verb, strings.Join(ok, ", "))
	case len(ok) == 0:
		return fmt.Sprintf("%s could not be applied to order(s) %s.", verb, strings.Join(bad, ", "))
	default:
		return fmt.Sprintf("%s for order(s) %s; order(s) %s could not be processed.",
			verb, strings.Join(ok, ", "), strings.Join(bad, ", "))
	}
}
