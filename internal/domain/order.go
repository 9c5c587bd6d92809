package domain

import "time"

// Order is an immutable snapshot of a user's cart ledger at checkout time.
// Created exactly once per checkout; the only mutation afterwards is an
// administrative delete.
type Order struct {
	ID        string      `gorm:"primaryKey;size:32" json:"id"`
	UserID    int64       `gorm:"index" json:"user_id,string"`
	CartItems QuantityMap `gorm:"type:text" json:"cart_items"`
	Timestamp time.Time   `gorm:"index" json:"timestamp"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}
