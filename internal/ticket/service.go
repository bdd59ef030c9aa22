package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smmdesk/internal/models"
	"smmdesk/internal/notify"
	"smmdesk/internal/repository"
)

// Terminal submission errors the handler maps to HTTP statuses.
var (
	ErrTicketSystemDisabled  = errors.New("the ticket system is currently disabled")
	ErrTooManyPendingTickets = errors.New("you have too many pending tickets; wait for a reply before opening another")
	ErrDuplicateSubmission   = errors.New("an identical ticket was just submitted")
)

// SubmissionDeduper suppresses repeated identical submissions within a short
// window. A nil deduper disables the check.
type SubmissionDeduper interface {
	Seen(ctx context.Context, userID uint, subject, message string) (bool, error)
}

// OwnershipError reports order ids in a submission that do not belong to the
// caller. The whole submission is rejected; nothing is processed.
type OwnershipError struct {
	OrderIDs []string
}

func (e *OwnershipError) Error() string {
	return "orders do not belong to you: " + strings.Join(e.OrderIDs, ", ")
}

// MaxOrderIDsPerTicket bounds how many orders one ticket may reference.
const MaxOrderIDsPerTicket = 10

// CreateTicketInput is the validated ticket submission.
type CreateTicketInput struct {
	Subject       string
	Message       string
	Category      string
	Subcategory   string
	Priority      string
	TicketType    string
	AISubcategory string
	OrderIDs      []string
}

// Service orchestrates ticket submission: limits, ownership verification,
// AI action dispatch, and persistence of the ticket with its message thread.
type Service struct {
	tickets   *repository.TicketRepository
	orders    *repository.OrderRepository
	users     *repository.UserRepository
	settings  repository.TicketSettingsProvider
	processor *Processor
	notifier  notify.Notifier
	deduper   SubmissionDeduper
	logger    *zap.Logger
}

func NewService(
	tickets *repository.TicketRepository,
	orders *repository.OrderRepository,
	users *repository.UserRepository,
	settings repository.TicketSettingsProvider,
	processor *Processor,
	notifier notify.Notifier,
	deduper SubmissionDeduper,
	logger *zap.Logger,
) *Service {
	return &Service{
		tickets:   tickets,
		orders:    orders,
		users:     users,
		settings:  settings,
		processor: processor,
		notifier:  notifier,
		deduper:   deduper,
		logger:    logger,
	}
}

// CreateTicket runs the full submission flow. The ticket is created whenever
// limits, schema and ownership pass; per-order action failures are reported
// only through the synthesized system message, never as a request error.
func (s *Service) CreateTicket(ctx context.Context, userID uint, in CreateTicketInput) (*models.SupportTicket, error) {
	cfg, err := s.settings.TicketSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket settings: %w", err)
	}
	if !cfg.Enabled {
		return nil, ErrTicketSystemDisabled
	}

	pending, err := s.tickets.CountPendingForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending tickets: %w", err)
	}
	if pending >= int64(cfg.MaxPendingTickets) {
		return nil, ErrTooManyPendingTickets
	}

	if s.deduper != nil {
		dup, err := s.deduper.Seen(ctx, userID, in.Subject, in.Message)
		if err != nil {
			s.logger.Warn("ticket dedup check failed", zap.Uint("user_id", userID), zap.Error(err))
		} else if dup {
			return nil, ErrDuplicateSubmission
		}
	}

	orderIDs := dedupeTrimmed(in.OrderIDs)
	if err := s.verifyOwnership(orderIDs, userID); err != nil {
		return nil, err
	}

	status := models.TicketStatusOpen
	systemMessage := ""
	if in.TicketType == models.TicketTypeAI && in.AISubcategory != "" {
		batch := s.processor.Process(ctx, in.AISubcategory, userID, orderIDs)
		systemMessage = SystemMessage(in.AISubcategory, batch)

		// Refill and Cancel are fully answered by automation; the other
		// actions leave the ticket open for a human follow-up.
		if in.AISubcategory == models.AIActionRefill || in.AISubcategory == models.AIActionCancel {
			status = models.TicketStatusClosed
		}
	}

	encodedIDs, err := json.Marshal(orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order ids: %w", err)
	}

	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}

	tkt := &models.SupportTicket{
		Tracking:      uuid.New().String(),
		UserID:        userID,
		Subject:       in.Subject,
		Message:       in.Message,
		Category:      in.Category,
		Subcategory:   in.Subcategory,
		Priority:      priority,
		TicketType:    in.TicketType,
		AISubcategory: in.AISubcategory,
		SystemMessage: systemMessage,
		OrderIDs:      string(encodedIDs),
		Status:        status,
	}
	if err := s.tickets.CreateWithMessages(tkt); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if in.TicketType != models.TicketTypeAI {
		if err := s.notifyAdminTicket(tkt, userID); err != nil {
			s.logger.Warn("admin ticket notification failed",
				zap.Uint("ticket_id", tkt.ID), zap.Error(err))
		}
	}

	return tkt, nil
}

func (s *Service) notifyAdminTicket(tkt *models.SupportTicket, userID uint) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	return s.notifier.AdminSupportTicket(tkt, user)
}

// verifyOwnership rejects the whole submission when any id is not the
// caller's, listing the offending ids.
func (s *Service) verifyOwnership(orderIDs []string, userID uint) error {
	if len(orderIDs) == 0 {
		return nil
	}

	numeric := make([]uint, 0, len(orderIDs))
	for _, raw := range orderIDs {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return &OwnershipError{OrderIDs: []string{raw}}
		}
		numeric = append(numeric, uint(id))
	}

	owned, err := s.orders.FindOwnedIDs(numeric, userID)
	if err != nil {
		return fmt.Errorf("failed to verify order ownership: %w", err)
	}

	ownedSet := make(map[string]bool, len(owned))
	for _, id := range owned {
		ownedSet[strconv.FormatUint(uint64(id), 10)] = true
	}

	var foreign []string
	for _, raw := range orderIDs {
		if !ownedSet[raw] {
			foreign = append(foreign, raw)
		}
	}
	if len(foreign) > 0 {
		return &OwnershipError{OrderIDs: foreign}
	}
	return nil
}

// dedupeTrimmed trims each id and drops duplicates, preserving input order.
func dedupeTrimmed(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
