package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算。足りなければ false（条件付きUPDATE）。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 符号付きの在庫調整。結果が負になるなら適用せず false。
	AdjustStockIfValid(ctx context.Context, productID int64, delta int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
