package models

import "time"

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User maps to the `user` table.
// APIToken authenticates dashboard/API requests for this user.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;size:200;uniqueIndex" json:"username"`
	Email     string    `gorm:"column:email;size:300" json:"email"`
	APIToken  string    `gorm:"column:api_token;size:100;index" json:"-"`
	Balance   float64   `gorm:"column:balance;default:0" json:"balance"`
	Status    string    `gorm:"column:status;size:50;default:active" json:"status"`
	Role      string    `gorm:"column:role;size:50;default:customer" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
