package repository

import (
	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// SettingRepository reads and writes the single-row setting table.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the singleton settings row.
func (r *SettingRepository) Get() (*models.Setting, error) {
	var s models.Setting
	if err := r.db.First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Update updates setting fields.
func (r *SettingRepository) Update(updates map[string]interface{}) error {
	return r.db.Model(&models.Setting{}).Where("1 = 1").Updates(updates).Error
}

// DB exposes the underlying connection for callers that need ad-hoc queries.
func (r *SettingRepository) DB() *gorm.DB {
	return r.db
}

// TicketSettings is the runtime ticket configuration consulted on every
// ticket submission. Injected as an interface so tests substitute values.
type TicketSettings struct {
	Enabled           bool
	MaxPendingTickets int
	DedupWindowMin    int
	AdminChatID       string
}

// TicketSettingsProvider yields the current ticket configuration.
type TicketSettingsProvider interface {
	TicketSettings() (TicketSettings, error)
}

// TicketSettings implements TicketSettingsProvider against the setting row.
func (r *SettingRepository) TicketSettings() (TicketSettings, error) {
	s, err := r.Get()
	if err != nil {
		return TicketSettings{}, err
	}
	max := s.MaxPendingTickets
	if max <= 0 {
		max = 3
	}
	return TicketSettings{
		Enabled:           s.TicketSystemEnabled,
		MaxPendingTickets: max,
		DedupWindowMin:    s.TicketDedupWindowMinutes,
		AdminChatID:       s.AdminChatID,
	}, nil
}
