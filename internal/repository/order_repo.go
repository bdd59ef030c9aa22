package repository

import (
	"time"

	"gorm.io/gorm"

	"smmdesk/internal/models"
)

// OrderRepository handles all order database operations.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByIDForUser loads an order scoped to its owner.
func (r *OrderRepository) FindByIDForUser(orderID, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAllForUser returns the caller's orders with pagination.
func (r *OrderRepository) FindAllForUser(userID uint, limit, page int, status string) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	db := r.db.Model(&models.Order{}).Where("user_id = ?", userID)
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
	offset := (page - 1) * limit

	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// CountOwned returns how many of the given order ids belong to the user.
func (r *OrderRepository) CountOwned(orderIDs []uint, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("id IN ? AND user_id = ?", orderIDs, userID).
		Count(&count).Error
	return count, err
}

// FindOwnedIDs returns the subset of the given order ids owned by the user.
func (r *OrderRepository) FindOwnedIDs(orderIDs []uint, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Order{}).
		Where("id IN ? AND user_id = ?", orderIDs, userID).
		Pluck("id", &ids).Error
	return ids, err
}

// UpdateStatus overwrites an order's status.
func (r *OrderRepository) UpdateStatus(orderID uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", status).Error
}

// Update updates order fields.
func (r *OrderRepository) Update(orderID uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

// Create inserts a new order.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// CancelWithRefund marks the order cancelled and credits the refund to the
// user's balance in a single transaction. Either both writes land or neither
// does.
func (r *OrderRepository) CancelWithRefund(orderID, userID uint, refund float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusCancelled,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", refund)).Error
	})
}

// FindInFlightProviderOrders returns provider-backed orders whose status is
// still moving; used by the status sync job.
func (r *OrderRepository) FindInFlightProviderOrders(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("provider_id IS NOT NULL AND provider_order_id IS NOT NULL").
		Where("status IN ?", []string{
			models.OrderStatusPending,
			models.OrderStatusProcessing,
			models.OrderStatusInProgress,
			models.OrderStatusPartial,
		}).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
