package repository

import (
	"context"
	"errors"

	"minimarket/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（取得）だけを約束。商品CRUD自体はこのサービスの外。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//有効な商品だけをまとめて取得（1回の読み取り）
	FindActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
}
