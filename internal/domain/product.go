package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog record. Prices are fixed-point decimals;
// string-encoded prices from imports are parsed and rejected at the ingestion
// boundary, never at aggregation time.
type Product struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Title       string          `gorm:"index" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:64;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`        // list price
	ActualPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"actual_price"` // discounted price charged
	Images      StringList      `gorm:"type:text" json:"images"`
	Status      string          `gorm:"size:20;index;default:'enabled'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ProductIndex builds an id-keyed lookup over a catalog subset.
func ProductIndex(products []Product) map[string]Product {
	idx := make(map[string]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
