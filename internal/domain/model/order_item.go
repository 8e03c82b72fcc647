package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 購入時点のスナップショット。商品が後で変わっても明細は変えない。
type OrderItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64           `gorm:"not null;index" json:"order_id"`
	ProductID    int64           `gorm:"not null;index" json:"product_id"`
	ProductName  string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
