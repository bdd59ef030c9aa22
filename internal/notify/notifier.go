package notify

import (
	"fmt"

	"smmdesk/internal/models"
)

// Notifier delivers admin alerts. Every call is best-effort: callers log
// failures and move on, a broken notification channel never blocks ticket
// processing.
type Notifier interface {
	AdminNewRefillRequest(order *models.Order, user *models.User, req *models.RefillRequest) error
	AdminNewCancelRequest(order *models.Order, user *models.User, req *models.CancelRequest) error
	AdminSupportTicket(ticket *models.SupportTicket, user *models.User) error
	AdminDailyReport(text string) error
}

// Nop is a Notifier that does nothing; used when no bot token is configured.
type Nop struct{}

func (Nop) AdminNewRefillRequest(*models.Order, *models.User, *models.RefillRequest) error {
	return nil
}
func (Nop) AdminNewCancelRequest(*models.Order, *models.User, *models.CancelRequest) error {
	return nil
}
func (Nop) AdminSupportTicket(*models.SupportTicket, *models.User) error { return nil }
func (Nop) AdminDailyReport(string) error                                { return nil }

func refillRequestText(order *models.Order, user *models.User, req *models.RefillRequest) string {
	return fmt.Sprintf(
		"🔄 <b>New Refill Request</b>\nOrder: #%d\nUser: %s (#%d)\nRequest: #%d\nStatus: %s",
		order.ID, user.Username, user.ID, req.ID, req.Status)
}

func cancelRequestText(order *models.Order, user *models.User, req *models.CancelRequest) string {
	return fmt.Sprintf(
		"❌ <b>New Cancel Request</b>\nOrder: #%d\nUser: %s (#%d)\nRefund: %.2f\nStatus: %s",
		order.ID, user.Username, user.ID, req.RefundAmount, req.Status)
}

func supportTicketText(ticket *models.SupportTicket, user *models.User) string {
	return fmt.Sprintf(
		"🎫 <b>New Support Ticket</b>\nTicket: #%d\nUser: %s (#%d)\nCategory: %s\nSubject: %s",
		ticket.ID, user.Username, user.ID, ticket.Category, ticket.Subject)
}
