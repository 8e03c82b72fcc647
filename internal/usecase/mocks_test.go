package usecase_test

import (
	"context"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	OrdersMock     *OrderRepoMock
	OrderItemsMock *OrderItemRepoMock
	ProductsMock   *ProductRepoMock
	InventoryMock  *InventoryRepoMock
	AuditLogsMock  *AuditLogRepoMock
}

func newTxReposMock() *TxReposMock {
	return &TxReposMock{
		OrdersMock:     &OrderRepoMock{},
		OrderItemsMock: &OrderItemRepoMock{},
		ProductsMock:   &ProductRepoMock{},
		InventoryMock:  &InventoryRepoMock{},
		AuditLogsMock:  &AuditLogRepoMock{},
	}
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.OrdersMock }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.OrderItemsMock }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.ProductsMock }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.InventoryMock }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.AuditLogsMock }

func (r *TxReposMock) AssertExpectations(t mock.TestingT) {
	r.OrdersMock.AssertExpectations(t)
	r.OrderItemsMock.AssertExpectations(t)
	r.ProductsMock.AssertExpectations(t)
	r.InventoryMock.AssertExpectations(t)
	r.AuditLogsMock.AssertExpectations(t)
}

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindActiveByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, notes *string) error {
	args := m.Called(ctx, orderID, status, notes)
	return args.Error(0)
}

func (m *OrderRepoMock) SetReceipt(ctx context.Context, orderID int64, receiptURL string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, receiptURL, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) AdjustStockIfValid(ctx context.Context, productID int64, delta int64) (bool, error) {
	args := m.Called(ctx, productID, delta)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

func (m *AuditLogRepoMock) ListStockHistory(ctx context.Context, limit int) ([]repo.StockHistoryRow, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]repo.StockHistoryRow)
	return rows, args.Error(1)
}
