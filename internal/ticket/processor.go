package ticket

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"smmdesk/internal/models"
	"smmdesk/internal/notify"
	"smmdesk/internal/provider"
	"smmdesk/internal/repository"
)

// ProcessorRepos bundles the repositories the action processors need.
type ProcessorRepos struct {
	Order    *repository.OrderRepository
	Service  *repository.ServiceRepository
	User     *repository.UserRepository
	Request  *repository.RequestRepository
	Provider *repository.ProviderRepository
}

// Processor runs the automated order actions behind AI support tickets.
// Orders inside one ticket are processed strictly one at a time, in the order
// the caller listed them; a failing order never aborts its siblings.
type Processor struct {
	repos    *ProcessorRepos
	factory  provider.Factory
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewProcessor creates an action processor. factory defaults to the real
// provider client factory when nil.
func NewProcessor(repos *ProcessorRepos, factory provider.Factory, notifier notify.Notifier, logger *zap.Logger) *Processor {
	if factory == nil {
		factory = provider.NewClient
	}
	return &Processor{
		repos:    repos,
		factory:  factory,
		notifier: notifier,
		logger:   logger,
	}
}

// Process dispatches one AI subcategory action over the given order ids.
func (p *Processor) Process(ctx context.Context, action string, userID uint, orderIDs []string) *BatchResult {
	switch action {
	case models.AIActionRefill:
		return p.ProcessRefill(ctx, userID, orderIDs)
	case models.AIActionCancel:
		return p.ProcessCancel(ctx, userID, orderIDs)
	case models.AIActionSpeedUp, models.AIActionRestart, models.AIActionFakeComplete:
		return p.ProcessStatusAction(ctx, action, userID, orderIDs)
	default:
		return &BatchResult{Action: action, Message: "unsupported action: " + action}
	}
}

// loadOwnedOrder parses a raw order id and loads the order scoped to the
// caller. A missing order and a foreign order are indistinguishable on
// purpose.
func (p *Processor) loadOwnedOrder(rawID string, userID uint) (*models.Order, bool) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, false
	}
	order, err := p.repos.Order.FindByIDForUser(uint(id), userID)
	if err != nil {
		return nil, false
	}
	return order, true
}

// bestEffort runs a side-effect whose failure must never surface to the
// caller; errors are logged and dropped.
func (p *Processor) bestEffort(name string, fn func() error) {
	if err := fn(); err != nil {
		p.logger.Warn("best-effort side effect failed",
			zap.String("effect", name), zap.Error(err))
	}
}
