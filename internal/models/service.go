package models

import "time"

// Service maps to the `service` table. A service with a nil ProviderID is
// self-service: orders against it are fulfilled locally and cancellations
// refund without any upstream call.
type Service struct {
	ID                uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"column:name;size:500" json:"name"`
	Category          string    `gorm:"column:category;size:300" json:"category"`
	Rate              float64   `gorm:"column:rate;default:0" json:"rate"`
	Refill            bool      `gorm:"column:refill;default:false" json:"refill"`
	RefillDays        *int      `gorm:"column:refill_days" json:"refill_days"` // nil = unlimited window
	Cancel            bool      `gorm:"column:cancel;default:false" json:"cancel"`
	ProviderID        *uint     `gorm:"column:provider_id;index" json:"provider_id"`
	ProviderServiceID *string   `gorm:"column:provider_service_id;size:100" json:"provider_service_id"`
	Status            string    `gorm:"column:status;size:50;default:active" json:"status"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Service) TableName() string {
	return "service"
}

// ProviderBacked reports whether orders on this service are fulfilled by an
// upstream provider.
func (s *Service) ProviderBacked() bool {
	return s.ProviderID != nil
}
