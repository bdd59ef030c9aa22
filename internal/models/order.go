package models

import (
	"strings"
	"time"
)

// Canonical order statuses. Stored values coming from providers or legacy
// imports vary in casing ("Completed", "In progress"); always compare through
// NormalizeOrderStatus.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusInProgress = "in_progress"
	OrderStatusPartial    = "partial"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusFailed     = "failed"
)

// Sentinel statuses written by the ticket automation. Stored verbatim so the
// admin panel shows exactly what the automation did.
const (
	OrderStatusSpeedUpApproved = "Speed Up Approved"
	OrderStatusRestarted       = "Restarted"
	OrderStatusFakeCompleted   = "Marked as Completed (Fake Complete)"
)

// NormalizeOrderStatus lowercases a status and collapses separator variants
// so "In progress", "in-progress" and "in_progress" compare equal.
func NormalizeOrderStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), "_")
	switch s {
	case "canceled":
		return OrderStatusCancelled
	case "inprogress":
		return OrderStatusInProgress
	}
	return s
}

// Order maps to the `order` table. Price is the amount charged at purchase
// time; cancellation refunds snapshot this value, never the current rate.
type Order struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"column:user_id;index" json:"user_id"`
	ServiceID       uint      `gorm:"column:service_id;index" json:"service_id"`
	Link            string    `gorm:"column:link;size:2000" json:"link"`
	Quantity        int       `gorm:"column:quantity;default:0" json:"quantity"`
	Price           float64   `gorm:"column:price;default:0" json:"price"`
	Status          string    `gorm:"column:status;size:100;default:pending" json:"status"`
	StartCount      int       `gorm:"column:start_count;default:0" json:"start_count"`
	Remains         int       `gorm:"column:remains;default:0" json:"remains"`
	ProviderID      *uint     `gorm:"column:provider_id;index" json:"provider_id"`
	ProviderOrderID *string   `gorm:"column:provider_order_id;size:100" json:"provider_order_id"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string {
	return "order"
}
