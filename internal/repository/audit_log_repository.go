package repository

import (
	"context"
	"time"

	"minimarket/internal/domain/model"
)

//監査ログの絞り込み条件。

type AuditLogFilter struct {
	UserID      *int64
	Action      *model.AuditAction
	EntityType  *model.AuditEntityType
	EntityID    *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// 在庫履歴ビュー用の1行。商品は消えている可能性があるのでnullableに取る。
type StockHistoryRow struct {
	ID          int64
	EntityID    int64
	OldValue    string
	NewValue    string
	UserEmail   string
	ProductName *string
	CreatedAt   time.Time
}

// 監査ログの保存・一覧取得の約束。更新・削除は提供しない（追記のみ）。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//監査ログを条件で一覧取得。
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)

	//在庫調整履歴（ユーザーはJOIN、商品はLEFT JOIN）。新しい順。
	ListStockHistory(ctx context.Context, limit int) ([]StockHistoryRow, error)
}
