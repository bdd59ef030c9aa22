package repository

import (
	"time"

	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// TicketRepository handles support tickets and their message threads.
type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// CountPendingForUser counts the caller's tickets still awaiting resolution.
func (r *TicketRepository) CountPendingForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SupportTicket{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.TicketStatusOpen, models.TicketStatusInProgress}).
		Count(&count).Error
	return count, err
}

// CountByStatus counts tickets in the given status.
func (r *TicketRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.SupportTicket{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CreateWithMessages persists the ticket, the initial customer message and,
// when the ticket carries a synthesized system message, the system reply plus
// an updated_at bump, all in one transaction.
func (r *TicketRepository) CreateWithMessages(ticket *models.SupportTicket) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}

		customerMsg := &models.TicketMessage{
			TicketID: ticket.ID,
			Sender:   models.SenderCustomer,
			Message:  ticket.Message,
		}
		if err := tx.Create(customerMsg).Error; err != nil {
			return err
		}

		if ticket.SystemMessage == "" {
			return nil
		}

		systemMsg := &models.TicketMessage{
			TicketID: ticket.ID,
			Sender:   models.SenderSystem,
			Message:  ticket.SystemMessage,
		}
		if err := tx.Create(systemMsg).Error; err != nil {
			return err
		}
		return tx.Model(&models.SupportTicket{}).Where("id = ?", ticket.ID).
			Update("updated_at", time.Now()).Error
	})
}

// FindAllForUser returns the caller's tickets with pagination and optional
// status/category filters.
func (r *TicketRepository) FindAllForUser(userID uint, limit, page int, status, category string) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket
	var total int64

	db := r.db.Model(&models.SupportTicket{}).Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if category != "" {
		db = db.Where("category = ?", category)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// FindByIDForUser loads a ticket scoped to its owner.
func (r *TicketRepository) FindByIDForUser(ticketID, userID uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.Where("id = ? AND user_id = ?", ticketID, userID).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindMessages returns a ticket's message thread in chronological order.
func (r *TicketRepository) FindMessages(ticketID uint) ([]models.TicketMessage, error) {
	var messages []models.TicketMessage
	err := r.db.Where("ticket_id = ?", ticketID).Order("id ASC").Find(&messages).Error
	return messages, err
}
