package models

import "time"

// Provider API types supported by the provider factory.
const (
	ProviderAPIv1   = "smm_v1"   // classic form-encoded SMM panel API
	ProviderAPIJSON = "smm_json" // JSON-body API
)

// Provider maps to the `provider` table and holds the connection
// details for one upstream SMM panel.
type Provider struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name;size:200" json:"name"`
	APIURL         string    `gorm:"column:api_url;size:2000" json:"api_url"`
	APIKey         string    `gorm:"column:api_key;size:500" json:"-"`
	APIType        string    `gorm:"column:api_type;size:50;default:smm_v1" json:"api_type"`
	TimeoutSeconds int       `gorm:"column:timeout_seconds;default:0" json:"timeout_seconds"`
	Status         string    `gorm:"column:status;size:50;default:active" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Provider) TableName() string {
	return "provider"
}
