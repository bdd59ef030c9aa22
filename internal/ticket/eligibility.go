package ticket

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"smmdesk/internal/models"
)

// checkProviderRefillEligibility asks the provider whether an order can be
// refilled. The check fails open: when the provider call errors out, the
// refill is allowed through rather than blocking a legitimate request on a
// flaky upstream.
func (p *Processor) checkProviderRefillEligibility(ctx context.Context, prov *models.Provider, providerOrderID string) (bool, string) {
	client, err := p.factory(prov)
	if err != nil {
		p.logger.Warn("refill eligibility check skipped",
			zap.String("provider", prov.Name), zap.Error(err))
		return true, ""
	}

	info, err := client.OrderStatus(ctx, providerOrderID)
	if err != nil {
		p.logger.Warn("refill eligibility check failed open",
			zap.String("provider", prov.Name),
			zap.String("provider_order_id", providerOrderID),
			zap.Error(err))
		return true, ""
	}

	status := models.NormalizeOrderStatus(info.Status)
	if status != models.OrderStatusCompleted && status != models.OrderStatusPartial {
		return false, fmt.Sprintf("order is not refillable yet (provider status: %s)", info.Status)
	}

	if info.RefillAvailable != nil && !*info.RefillAvailable {
		return false, "provider reports refill is not available for this order"
	}

	return true, ""
}
