package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"
)

type StockUsecase struct {
	tx repo.TransactionManager
}

func NewStockUsecase(tx repo.TransactionManager) *StockUsecase {
	return &StockUsecase{tx: tx}
}

type AdjustStockInput struct {
	ProductID int64

	//正=入荷、負=訂正・ロス
	Adjustment int64

	Reason string

	//リクエストのメタ情報（任意）
	IPAddress string
	UserAgent string
}

type StockResult struct {
	ProductID    int64 `json:"product_id"`
	CurrentStock int64 `json:"current_stock"`
}

// AdjustStock は在庫の手動調整。更新と監査ログを同一トランザクションで書く。
// 調整で在庫が負になることはない。
func (u *StockUsecase) AdjustStock(ctx context.Context, actorUserID int64, in AdjustStockInput) (StockResult, error) {
	if actorUserID <= 0 {
		return StockResult{}, NewValidationError("actor required")
	}
	if in.ProductID <= 0 {
		return StockResult{}, NewValidationError("invalid product id")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return StockResult{}, NewValidationError("reason required")
	}

	var out StockResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//条件付きUPDATE。負になる調整は1行も更新しない。
		ok, err := r.Inventory().AdjustStockIfValid(ctx, in.ProductID, in.Adjustment)
		if err != nil {
			return ErrPersistence
		}

		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "product"}
		}
		if err != nil {
			return ErrPersistence
		}

		if !ok {
			return &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
			}
		}

		newStock := p.Stock
		oldStock := newStock - in.Adjustment

		oldValue, err := json.Marshal(model.StockChangeOld{Stock: oldStock})
		if err != nil {
			return ErrPersistence
		}
		newValue, err := json.Marshal(model.StockChangeNew{
			Stock:      newStock,
			Difference: in.Adjustment,
			Reason:     strings.TrimSpace(in.Reason),
		})
		if err != nil {
			return ErrPersistence
		}

		//監査ログ（ADJUST_STOCK）。調整と同じトランザクション。
		actor := actorUserID
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			UserID:     &actor,
			Action:     model.AuditActionAdjustStock,
			EntityType: model.AuditEntityProduct,
			EntityID:   in.ProductID,
			OldValue:   string(oldValue),
			NewValue:   string(newValue),
			IPAddress:  in.IPAddress,
			UserAgent:  in.UserAgent,
			CreatedAt:  time.Now(),
		}); err != nil {
			return ErrPersistence
		}

		out = StockResult{ProductID: in.ProductID, CurrentStock: newStock}
		return nil
	})

	if err != nil {
		return StockResult{}, err
	}
	return out, nil
}

type StockHistoryItem struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	OldStock    int64     `json:"old_stock"`
	NewStock    int64     `json:"new_stock"`
	Difference  int64     `json:"difference"`
	Reason      string    `json:"reason"`
	UserEmail   string    `json:"user_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetStockHistory は在庫調整履歴を新しい順で返す。
// 商品が消えていても行は返す（代替ラベル）。壊れたペイロードの行は飛ばす。
func (u *StockUsecase) GetStockHistory(ctx context.Context, limit int) ([]StockHistoryItem, error) {
	var rows []repo.StockHistoryRow

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		rows, err = r.AuditLogs().ListStockHistory(ctx, limit)
		if err != nil {
			return ErrPersistence
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := make([]StockHistoryItem, 0, len(rows))
	for _, row := range rows {
		var oldVal model.StockChangeOld
		var newVal model.StockChangeNew

		if row.OldValue != "" {
			if err := json.Unmarshal([]byte(row.OldValue), &oldVal); err != nil {
				continue
			}
		}
		if row.NewValue != "" {
			if err := json.Unmarshal([]byte(row.NewValue), &newVal); err != nil {
				continue
			}
		}

		items = append(items, StockHistoryItem{
			ID:          row.ID,
			ProductName: productLabel(row.ProductName, row.EntityID),
			OldStock:    oldVal.Stock,
			NewStock:    newVal.Stock,
			Difference:  newVal.Difference,
			Reason:      newVal.Reason,
			UserEmail:   row.UserEmail,
			CreatedAt:   row.CreatedAt,
		})
	}

	return items, nil
}

// 商品が削除済みならIDから代替ラベルを作る
func productLabel(name *string, entityID int64) string {
	if name != nil && *name != "" {
		return *name
	}
	return "Product ID " + strconv.FormatInt(entityID, 10)
}
