package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"

	"github.com/shopspring/decimal"
)

// 保存した証憑のURLを返す。
type ReceiptStore interface {
	Save(orderNumber string, ext string, src io.Reader) (string, error)
}

type OrderUsecase struct {
	tx          repo.TransactionManager
	receipts    ReceiptStore
	guestUserID int64
}

func NewOrderUsecase(tx repo.TransactionManager, receipts ReceiptStore, guestUserID int64) *OrderUsecase {
	return &OrderUsecase{tx: tx, receipts: receipts, guestUserID: guestUserID}
}

type CartItemInput struct {
	ProductID int64
	Quantity  int64
}

type PlaceOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	District        string
	City            string
	Reference       string
	Notes           string
	Items           []CartItemInput
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"product_name"`
	Price     decimal.Decimal `json:"product_price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID           int64             `json:"id"`
	OrderNumber  string            `json:"order_number"`
	UserID       int64             `json:"user_id"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	Tax          decimal.Decimal   `json:"tax"`
	ShippingCost decimal.Decimal   `json:"shipping_cost"`
	Total        decimal.Decimal   `json:"total"`
	Status       string            `json:"status"`
	ReceiptURL   string            `json:"receipt_url,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Items        []OrderItemOutput `json:"items"`
}

// PlaceOrder はカートを1回のトランザクションで注文に確定する。
// 検証・明細作成・在庫減算のどれかが失敗したら全部ロールバック。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, actorUserID *int64, in PlaceOrderInput) (OrderOutput, error) {
	if len(in.Items) == 0 {
		return OrderOutput{}, NewValidationError("cart is empty")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 {
			return OrderOutput{}, NewValidationError("invalid product_id")
		}
		if it.Quantity <= 0 {
			return OrderOutput{}, NewValidationError("quantity must be > 0")
		}
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return OrderOutput{}, NewValidationError("customer_name required")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return OrderOutput{}, NewValidationError("customer_phone required")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return OrderOutput{}, NewValidationError("shipping_address required")
	}
	if strings.TrimSpace(in.District) == "" {
		return OrderOutput{}, NewValidationError("district required")
	}
	if strings.TrimSpace(in.City) == "" {
		return OrderOutput{}, NewValidationError("city required")
	}

	//未認証ならゲストに帰属させる
	userID := u.guestUserID
	if actorUserID != nil {
		userID = *actorUserID
	}

	var out OrderOutput

	//注文番号衝突は天文学的に稀。1回だけ作り直してやり直す。
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		orderNumber := newOrderNumber(time.Now())
		err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			o, items, txErr := u.placeOrderTx(ctx, r, userID, orderNumber, in)
			if txErr != nil {
				return txErr
			}
			out = toOrderOutput(o, items)
			return nil
		})
		if !errors.Is(err, repo.ErrDuplicateOrderNumber) {
			break
		}
	}
	if errors.Is(err, repo.ErrDuplicateOrderNumber) {
		return OrderOutput{}, &ConflictError{Message: "order number conflict, please retry"}
	}
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) placeOrderTx(ctx context.Context, r repo.TxRepos, userID int64, orderNumber string, in PlaceOrderInput) (model.Order, []model.OrderItem, error) {
	//参照された商品を1回の読み取りで取得（有効なもののみ）
	distinct := distinctProductIDs(in.Items)
	products, err := r.Products().FindActiveByIDs(ctx, distinct)
	if err != nil {
		return model.Order{}, nil, ErrPersistence
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	//件数が合わない＝存在しないか非公開の商品がある。部分的な注文は作らない。
	if len(byID) < len(distinct) {
		for _, id := range distinct {
			if _, ok := byID[id]; !ok {
				return model.Order{}, nil, &ProductUnavailableError{ProductID: id}
			}
		}
	}

	//送信順に検証して最初の不足を報告する
	subtotal := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(in.Items))
	now := time.Now()

	for _, it := range in.Items {
		p := byID[it.ProductID]
		if it.Quantity > p.Stock {
			return model.Order{}, nil, &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
			}
		}

		//明細小計は固定小数点の正確な積
		lineSubtotal := p.Price.Mul(decimal.NewFromInt(it.Quantity))
		subtotal = subtotal.Add(lineSubtotal)

		//スナップショット
		orderItems = append(orderItems, model.OrderItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			Quantity:     it.Quantity,
			Subtotal:     lineSubtotal,
			CreatedAt:    now,
		})
	}

	//税・送料は今は固定0（将来のルール用プレースホルダ）
	tax := decimal.Zero
	shippingCost := decimal.Zero
	total := subtotal.Add(tax).Add(shippingCost)

	order := model.Order{
		OrderNumber:       orderNumber,
		UserID:            userID,
		ShippingFullName:  strings.TrimSpace(in.CustomerName),
		ShippingPhone:     strings.TrimSpace(in.CustomerPhone),
		ShippingAddress:   strings.TrimSpace(in.ShippingAddress),
		ShippingDistrict:  strings.TrimSpace(in.District),
		ShippingCity:      strings.TrimSpace(in.City),
		ShippingReference: strings.TrimSpace(in.Reference),
		Subtotal:          subtotal,
		Tax:               tax,
		ShippingCost:      shippingCost,
		Total:             total,
		Status:            model.OrderStatusPendingPayment,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	orderID, err := r.Orders().Create(ctx, order)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateOrderNumber) {
			return model.Order{}, nil, err
		}
		return model.Order{}, nil, ErrPersistence
	}
	order.ID = orderID

	if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
		return model.Order{}, nil, ErrPersistence
	}

	//在庫減算は条件付きUPDATE。0行なら同時注文に先を越されたので全体を巻き戻す。
	for _, it := range in.Items {
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
		if err != nil {
			return model.Order{}, nil, ErrPersistence
		}
		if !ok {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err != nil {
				p = byID[it.ProductID]
			}
			return model.Order{}, nil, &InsufficientStockError{
				ProductID:   it.ProductID,
				ProductName: p.Name,
				Available:   p.Stock,
			}
		}
	}

	return order, orderItems, nil
}

// ListMyOrders は認証済みユーザー自身の注文一覧。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, int64, error) {
	if userID <= 0 {
		return nil, 0, NewValidationError("invalid user id")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListByUserID(ctx, userID, page, limit)
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
		return nil, 0, err
	}
	return outs, total, nil
}

// GetOrder は注文と明細を返す（注文確認画面用）。
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (OrderOutput, error) {
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

type ReceiptOutput struct {
	ReceiptURL  string `json:"receipt_url"`
	OrderStatus string `json:"order_status"`
}

// ConfirmReceipt は支払い証憑を受け付けて PENDING_PAYMENT -> WAITING_CONTACT に遷移させる。
func (u *OrderUsecase) ConfirmReceipt(ctx context.Context, orderID int64, ext string, file io.Reader) (ReceiptOutput, error) {
	if orderID <= 0 {
		return ReceiptOutput{}, NewValidationError("invalid order id")
	}

	var out ReceiptOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "order"}
		}
		if err != nil {
			return ErrPersistence
		}

		if !o.Status.CanTransitionTo(model.OrderStatusWaitingContact) {
			return &InvalidTransitionError{From: o.Status, To: model.OrderStatusWaitingContact}
		}

		url, err := u.receipts.Save(o.OrderNumber, ext, file)
		if err != nil {
			return ErrPersistence
		}

		if err := r.Orders().SetReceipt(ctx, orderID, url, model.OrderStatusWaitingContact); err != nil {
			return ErrPersistence
		}

		out = ReceiptOutput{
			ReceiptURL:  url,
			OrderStatus: string(model.OrderStatusWaitingContact),
		}
		return nil
	})
	if err != nil {
		return ReceiptOutput{}, err
	}
	return out, nil
}

// ORD-<unixタイムスタンプ>-<4桁乱数>
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.Unix(), 1000+rand.Intn(9000))
}

// 送信順を保ったまま重複を除く
func distinctProductIDs(items []CartItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.ProductPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}

	return OrderOutput{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		UserID:       o.UserID,
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		ShippingCost: o.ShippingCost,
		Total:        o.Total,
		Status:       string(o.Status),
		ReceiptURL:   o.ReceiptURL,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		Items:        outItems,
	}
}
