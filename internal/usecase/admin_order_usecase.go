package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminUpdateOrderStatusInput struct {
	Status string

	//nilなら備考は変更しない
	Notes *string

	//遷移グラフに無い変更を通す（サポート向けの手動上書き）
	Force bool
}

// 注文一覧（管理者）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return ErrPersistence
		}
		total = n

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return ErrPersistence
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, 0, err
	}
	return outs, total, nil
}

// 注文詳細（管理者）
func (u *AdminOrderUsecase) GetDetail(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "order"}
		}
		if err != nil {
			return ErrPersistence
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return ErrPersistence
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// UpdateStatus は注文ステータスを更新する。
// 通常は遷移グラフに従う。グラフ外はForce指定時のみ通し、どちらも監査ログを残す。
// CANCELLEDへの遷移では在庫を戻す。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorUserID <= 0 {
		return OrderOutput{}, NewValidationError("actor required")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !newStatus.IsValid() {
		return OrderOutput{}, NewValidationError("invalid status %q", in.Status)
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "order"}
		}
		if err != nil {
			return ErrPersistence
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return ErrPersistence
		}

		//同じステータスへの上書きは何もしない
		if o.Status == newStatus {
			out = toOrderOutput(o, items)
			return nil
		}

		if !o.Status.CanTransitionTo(newStatus) && !in.Force {
			return &InvalidTransitionError{From: o.Status, To: newStatus}
		}

		//キャンセルなら明細分の在庫を戻す
		if newStatus == model.OrderStatusCancelled {
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return ErrPersistence
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, in.Notes); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return &NotFoundError{Resource: "order"}
			}
			return ErrPersistence
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		oldValue, err := json.Marshal(model.OrderStatusChange{Status: o.Status})
		if err != nil {
			return ErrPersistence
		}
		newValue, err := json.Marshal(model.OrderStatusChange{Status: newStatus})
		if err != nil {
			return ErrPersistence
		}

		actor := actorUserID
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			UserID:     &actor,
			Action:     model.AuditActionUpdateOrderStatus,
			EntityType: model.AuditEntityOrder,
			EntityID:   orderID,
			OldValue:   string(oldValue),
			NewValue:   string(newValue),
			CreatedAt:  time.Now(),
		}); err != nil {
			return ErrPersistence
		}

		o.Status = newStatus
		if in.Notes != nil {
			o.Notes = *in.Notes
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
