package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusWaitingContact OrderStatus = "WAITING_CONTACT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// 通常の遷移グラフ。ここに無い遷移は管理者のforce指定が必要。
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingPayment: {OrderStatusWaitingContact, OrderStatusCancelled},
	OrderStatusWaitingContact: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusDelivered, OrderStatusCancelled},

	//DELIVERED / CANCELLED は終端
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusWaitingContact, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo は通常権限で許可された遷移かどうか。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`

	//配送先
	ShippingFullName  string `gorm:"type:varchar(255);not null" json:"shipping_full_name"`
	ShippingPhone     string `gorm:"type:varchar(20);not null" json:"shipping_phone"`
	ShippingAddress   string `gorm:"type:varchar(500);not null" json:"shipping_address"`
	ShippingDistrict  string `gorm:"type:varchar(100);not null" json:"shipping_district"`
	ShippingCity      string `gorm:"type:varchar(100);not null" json:"shipping_city"`
	ShippingReference string `gorm:"type:varchar(255)" json:"shipping_reference,omitempty"`

	//金額。total = subtotal + tax + shipping_cost が不変条件。
	Subtotal     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping_cost"`
	Total        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`

	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReceiptURL string      `gorm:"type:varchar(500)" json:"receipt_url,omitempty"`
	Notes      string      `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
