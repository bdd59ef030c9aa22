package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// MigrateAndSeed ensures required tables exist and inserts baseline rows for singleton tables.
func MigrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Provider{},
		&models.Service{},
		&models.Order{},
		&models.RefillRequest{},
		&models.CancelRequest{},
		&models.SupportTicket{},
		&models.TicketMessage{},
		&models.Setting{},
	}
}

func seedDefaults(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return ensureDefaultSetting(tx)
	})
}

func ensureDefaultSetting(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Setting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	row := models.Setting{
		TicketSystemEnabled:      true,
		MaxPendingTickets:        3,
		TicketDedupWindowMinutes: 5,
		PanelName:                "SMM Desk",
	}
	return tx.Create(&row).Error
}
