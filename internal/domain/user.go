package domain

import (
	"strconv"
	"time"
)

// User roles as stored in the role column. RoleStaff is the privileged
// literal; it is resolved into a session capability exactly once, at token
// issue time.
const (
	RoleCustomer = "customer"
	RoleStaff    = "worker"
)

type User struct {
	ID            int64       `gorm:"primaryKey" json:"id,string" form:"id"`
	Name          string      `json:"name" form:"name"`
	Email         string      `gorm:"uniqueIndex;size:256" json:"email" form:"email"`
	Password      string      `json:"-" form:"-"`
	Phone         string      `json:"phone" form:"phone"`
	Address       string      `json:"address" form:"address"`
	Role          string      `gorm:"size:32;default:'customer'" json:"role" form:"role"`
	CartItems     QuantityMap `gorm:"type:text" json:"cart_items"`
	FavoriteItems FlagMap     `gorm:"type:text" json:"favorite_items"`
	Status        string      `gorm:"size:20;default:'enabled'" json:"status"`
	LastLogin     time.Time   `json:"last_login"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}

// UserKey renders a user identifier as a document key.
func UserKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
