package models

import (
	"encoding/json"
	"time"
)

// Ticket types and statuses.
const (
	TicketTypeHuman = "Human"
	TicketTypeAI    = "AI"

	TicketStatusOpen       = "Open"
	TicketStatusAnswered   = "Answered"
	TicketStatusInProgress = "In Progress"
	TicketStatusClosed     = "Closed"
)

// AI ticket subcategories; each maps to one automated order action.
const (
	AIActionRefill       = "Refill"
	AIActionCancel       = "Cancel"
	AIActionSpeedUp      = "Speed Up"
	AIActionRestart      = "Restart"
	AIActionFakeComplete = "Fake Complete"
)

// Message senders on a ticket thread.
const (
	SenderCustomer = "customer"
	SenderSystem   = "system"
	SenderAdmin    = "admin"
)

// SupportTicket maps to the `support_ticket` table. OrderIDs is a
// JSON-encoded string array; SystemMessage holds the synthesized summary for
// AI tickets.
type SupportTicket struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Tracking      string    `gorm:"column:tracking;size:100;index" json:"tracking"`
	UserID        uint      `gorm:"column:user_id;index" json:"user_id"`
	Subject       string    `gorm:"column:subject;size:500" json:"subject"`
	Message       string    `gorm:"column:message;type:text" json:"message"`
	Category      string    `gorm:"column:category;size:200" json:"category"`
	Subcategory   string    `gorm:"column:subcategory;size:200" json:"subcategory"`
	Priority      string    `gorm:"column:priority;size:50;default:medium" json:"priority"`
	TicketType    string    `gorm:"column:ticket_type;size:50;default:Human" json:"ticket_type"`
	AISubcategory string    `gorm:"column:ai_subcategory;size:100" json:"ai_subcategory"`
	SystemMessage string    `gorm:"column:system_message;type:text" json:"system_message"`
	OrderIDs      string    `gorm:"column:order_ids;type:text" json:"order_ids"`
	Status        string    `gorm:"column:status;size:50;default:Open" json:"status"`
	IsRead        bool      `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (SupportTicket) TableName() string {
	return "support_ticket"
}

// OrderIDList decodes the JSON-encoded order id array.
func (t *SupportTicket) OrderIDList() []string {
	if t.OrderIDs == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(t.OrderIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// TicketMessage maps to the `ticket_message` table.
type TicketMessage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TicketID  uint      `gorm:"column:ticket_id;index" json:"ticket_id"`
	Sender    string    `gorm:"column:sender;size:50" json:"sender"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TicketMessage) TableName() string {
	return "ticket_message"
}
