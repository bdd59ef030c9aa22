package repository

import (
	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// ServiceRepository handles service catalog lookups.
type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// FindByID finds a service by primary key.
func (r *ServiceRepository) FindByID(id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create inserts a new service.
func (r *ServiceRepository) Create(svc *models.Service) error {
	return r.db.Create(svc).Error
}
