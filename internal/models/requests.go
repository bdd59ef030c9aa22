package models

import "time"

// Refill/cancel request statuses.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusDeclined  = "declined"
	RequestStatusCompleted = "completed"
	RequestStatusFailed    = "failed"
)

// RefillRequest maps to the `refill_request` table. At most one pending or
// approved request is tolerated per order; the check is an existence query,
// not a DB constraint.
type RefillRequest struct {
	ID               uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID          uint       `gorm:"column:order_id;index" json:"order_id"`
	UserID           uint       `gorm:"column:user_id;index" json:"user_id"`
	Reason           string     `gorm:"column:reason;type:text" json:"reason"`
	Status           string     `gorm:"column:status;size:50;default:pending" json:"status"`
	ProviderRefillID *string    `gorm:"column:provider_refill_id;size:100" json:"provider_refill_id"`
	AdminNotes       string     `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	ProcessedAt      *time.Time `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (RefillRequest) TableName() string {
	return "refill_request"
}

// CancelRequest maps to the `cancel_request` table. RefundAmount snapshots
// order.Price at request time. Any existing request for an order, whatever
// its status, blocks a new one.
type CancelRequest struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID      uint       `gorm:"column:order_id;index" json:"order_id"`
	UserID       uint       `gorm:"column:user_id;index" json:"user_id"`
	Reason       string     `gorm:"column:reason;type:text" json:"reason"`
	Status       string     `gorm:"column:status;size:50;default:pending" json:"status"`
	RefundAmount float64    `gorm:"column:refund_amount;default:0" json:"refund_amount"`
	AdminNotes   string     `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	ProcessedAt  *time.Time `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (CancelRequest) TableName() string {
	return "cancel_request"
}
