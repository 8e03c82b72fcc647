package repository

import (
	"context"
	"errors"
	"time"

	"minimarket/internal/domain/model"
)

// 注文番号のユニーク制約違反。呼び出し側が番号を作り直してリトライする。
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string

	//注文番号または宛名の部分一致
	Search string

	From *time.Time
	To   *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	//ステータス更新。notesがnilなら既存の備考は残す。
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes *string) error

	//領収書URLの記録とステータス遷移を同時に行う。
	SetReceipt(ctx context.Context, orderID int64, receiptURL string, status model.OrderStatus) error

	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
