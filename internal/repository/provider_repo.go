package repository

import (
	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// ProviderRepository handles upstream provider records.
type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// FindByID finds a provider by primary key.
func (r *ProviderRepository) FindByID(id uint) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActive returns all active providers.
func (r *ProviderRepository) FindActive() ([]models.Provider, error) {
	var providers []models.Provider
	err := r.db.Where("status = ?", "active").Find(&providers).Error
	return providers, err
}

// Create inserts a new provider.
func (r *ProviderRepository) Create(p *models.Provider) error {
	return r.db.Create(p).Error
}
