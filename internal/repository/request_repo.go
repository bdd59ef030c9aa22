package repository

import (
	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// RequestRepository handles refill and cancel request records.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// HasActiveRefill reports whether a pending or approved refill request
// already exists for the order.
func (r *RequestRepository) HasActiveRefill(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.RefillRequest{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]string{models.RequestStatusPending, models.RequestStatusApproved}).
		Count(&count).Error
	return count > 0, err
}

// HasAnyCancel reports whether any cancel request exists for the order,
// regardless of status. Stricter than the refill duplicate check.
func (r *RequestRepository) HasAnyCancel(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CancelRequest{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

// CreateRefill inserts a refill request.
func (r *RequestRepository) CreateRefill(req *models.RefillRequest) error {
	return r.db.Create(req).Error
}

// CreateCancel inserts a cancel request.
func (r *RequestRepository) CreateCancel(req *models.CancelRequest) error {
	return r.db.Create(req).Error
}

// UpdateRefill updates refill request fields.
func (r *RequestRepository) UpdateRefill(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.RefillRequest{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateCancel updates cancel request fields.
func (r *RequestRepository) UpdateCancel(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.CancelRequest{}).Where("id = ?", id).Updates(updates).Error
}

// FindRefillByID finds a refill request by primary key.
func (r *RequestRepository) FindRefillByID(id uint) (*models.RefillRequest, error) {
	var req models.RefillRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindCancelByID finds a cancel request by primary key.
func (r *RequestRepository) FindCancelByID(id uint) (*models.CancelRequest, error) {
	var req models.CancelRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindCancelByOrder finds the cancel request for an order, if any.
func (r *RequestRepository) FindCancelByOrder(orderID uint) (*models.CancelRequest, error) {
	var req models.CancelRequest
	if err := r.db.Where("order_id = ?", orderID).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindRefills returns refill requests with pagination and optional status filter.
func (r *RequestRepository) FindRefills(limit, page int, status string) ([]models.RefillRequest, int64, error) {
	var reqs []models.RefillRequest
	var total int64

	db := r.db.Model(&models.RefillRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	if err := db.Limit(limit).Offset((page - 1) * limit).Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// FindCancels returns cancel requests with pagination and optional status filter.
func (r *RequestRepository) FindCancels(limit, page int, status string) ([]models.CancelRequest, int64, error) {
	var reqs []models.CancelRequest
	var total int64

	db := r.db.Model(&models.CancelRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	if err := db.Limit(limit).Offset((page - 1) * limit).Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

// CountPendingRefills counts refill requests awaiting review.
func (r *RequestRepository) CountPendingRefills() (int64, error) {
	var count int64
	err := r.db.Model(&models.RefillRequest{}).
		Where("status = ?", models.RequestStatusPending).Count(&count).Error
	return count, err
}

// CountPendingCancels counts cancel requests awaiting review.
func (r *RequestRepository) CountPendingCancels() (int64, error) {
	var count int64
	err := r.db.Model(&models.CancelRequest{}).
		Where("status = ?", models.RequestStatusPending).Count(&count).Error
	return count, err
}
