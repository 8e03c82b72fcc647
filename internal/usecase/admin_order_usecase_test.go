package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"
	"minimarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderUsecase(repos *TxReposMock) *usecase.AdminOrderUsecase {
	return usecase.NewAdminOrderUsecase(&TxManagerMock{Repos: repos})
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	repos.OrdersMock.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusWaitingContact}, nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(1)).
		Return([]model.OrderItem{}, nil)
	repos.OrdersMock.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusPaid, (*string)(nil)).
		Return(nil)
	repos.AuditLogsMock.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		if l.Action != model.AuditActionUpdateOrderStatus || l.EntityType != model.AuditEntityOrder {
			return false
		}
		var before, after model.OrderStatusChange
		if err := json.Unmarshal([]byte(l.OldValue), &before); err != nil {
			return false
		}
		if err := json.Unmarshal([]byte(l.NewValue), &after); err != nil {
			return false
		}
		return before.Status == model.OrderStatusWaitingContact && after.Status == model.OrderStatusPaid
	})).Return(nil)

	out, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "PAID",
	})

	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)
	repos.AssertExpectations(t)
}

func TestUpdateStatus_IllegalTransitionRejected(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	//DELIVERED -> PENDING_PAYMENT はグラフに無い
	repos.OrdersMock.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusDelivered}, nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(1)).
		Return([]model.OrderItem{}, nil)

	_, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "PENDING_PAYMENT",
	})

	var it *usecase.InvalidTransitionError
	assert.ErrorAs(t, err, &it)
	assert.Equal(t, model.OrderStatusDelivered, it.From)
	repos.OrdersMock.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repos.AuditLogsMock.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateStatus_ForceOverridesGraph(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	//サポート向けの手動上書き。監査ログは必ず残る。
	repos.OrdersMock.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusDelivered}, nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(1)).
		Return([]model.OrderItem{}, nil)
	repos.OrdersMock.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusPaid, (*string)(nil)).
		Return(nil)
	repos.AuditLogsMock.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "PAID",
		Force:  true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)
	repos.AssertExpectations(t)
}

func TestUpdateStatus_CancelReturnsStock(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	items := []model.OrderItem{
		{OrderID: 1, ProductID: 7, Quantity: 2},
		{OrderID: 1, ProductID: 8, Quantity: 1},
	}

	repos.OrdersMock.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusPendingPayment}, nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(1)).
		Return(items, nil)
	repos.InventoryMock.On("IncreaseStock", mock.Anything, int64(7), int64(2)).Return(nil)
	repos.InventoryMock.On("IncreaseStock", mock.Anything, int64(8), int64(1)).Return(nil)
	repos.OrdersMock.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusCancelled, (*string)(nil)).
		Return(nil)
	repos.AuditLogsMock.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "CANCELLED",
	})

	assert.NoError(t, err)
	repos.InventoryMock.AssertExpectations(t)
}

func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	repos.OrdersMock.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusPaid}, nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(1)).
		Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "PAID",
	})

	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)
	repos.OrdersMock.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repos.AuditLogsMock.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateStatus_NotesOverwrite(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	notes := "cliente contactado por telefono"

	repos.OrdersMock.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{ID: 1, Status: model.OrderStatusPendingPayment}, nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(1)).
		Return([]model.OrderItem{}, nil)
	repos.OrdersMock.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusWaitingContact, &notes).
		Return(nil)
	repos.AuditLogsMock.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "WAITING_CONTACT",
		Notes:  &notes,
	})

	assert.NoError(t, err)
	assert.Equal(t, notes, out.Notes)
}

func TestUpdateStatus_InvalidStatusValue(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	_, err := uc.UpdateStatus(context.Background(), 10, 1, usecase.AdminUpdateOrderStatusInput{
		Status: "REFUNDED",
	})

	var ve *usecase.ValidationError
	assert.ErrorAs(t, err, &ve)
	repos.OrdersMock.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	repos.OrdersMock.On("FindByID", mock.Anything, int64(404)).
		Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.UpdateStatus(context.Background(), 10, 404, usecase.AdminUpdateOrderStatusInput{
		Status: "PAID",
	})

	var nf *usecase.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestAdminList_PassesFilter(t *testing.T) {
	repos := newTxReposMock()
	uc := newAdminOrderUsecase(repos)

	f := repo.AdminOrderListFilter{Page: 2, Limit: 20, Status: "PAID", Search: "ORD-17"}

	repos.OrdersMock.On("ListAdmin", mock.Anything, f).
		Return([]model.Order{{ID: 5, Status: model.OrderStatusPaid}}, int64(21), nil)
	repos.OrderItemsMock.On("ListByOrderID", mock.Anything, int64(5)).
		Return([]model.OrderItem{}, nil)

	outs, total, err := uc.List(context.Background(), f)

	assert.NoError(t, err)
	assert.Equal(t, int64(21), total)
	assert.Len(t, outs, 1)
	assert.Equal(t, int64(5), outs[0].ID)
}
