package usecase

import (
	"errors"
	"fmt"

	"minimarket/internal/domain/model"
)

// 入力不正。ストアに触る前に弾く。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// 参照された商品が存在しないか非公開。注文全体を拒否する。
type ProductUnavailableError struct {
	ProductID int64
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d is unavailable", e.ProductID)
}

// 在庫不足。呼び出し側が表示できるように現在の在庫を持つ。
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d", e.ProductName, e.Available)
}

// 注文番号の衝突。1回は再生成してリトライ済み。
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// 対象が見つからない。
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// 遷移グラフに無いステータス変更（force無し）。
type InvalidTransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// DB等の内部失敗。詳細は呼び出し側に漏らさない。
var ErrPersistence = errors.New("persistence failure")
