package model

import "time"

// 在庫更新、注文ステータス更新など。
type AuditAction string

const (
	//在庫を調整した操作。
	AuditActionAdjustStock AuditAction = "ADJUST_STOCK"

	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditEntityType string

const (
	AuditEntityProduct AuditEntityType = "product"
	AuditEntityOrder   AuditEntityType = "order"
	AuditEntityUser    AuditEntityType = "user"
)

// 監査ログ（在庫・注文に影響する操作の記録）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。追記のみ。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。ユーザー削除後はNULLになる。
	UserID *int64 `gorm:"index" json:"user_id"`

	Action     AuditAction     `gorm:"column:action_type;type:varchar(100);not null;index" json:"action_type"`
	EntityType AuditEntityType `gorm:"type:varchar(100);not null" json:"entity_type"`
	EntityID   int64           `gorm:"index" json:"entity_id"`

	//変更前後のペイロード。JSON文字列で保存する。
	OldValue string `gorm:"type:text" json:"old_value"`
	NewValue string `gorm:"type:text" json:"new_value"`

	//リクエストのメタ情報（任意）
	IPAddress string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent string `gorm:"type:varchar(500)" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// ADJUST_STOCK の old_value ペイロード。
type StockChangeOld struct {
	Stock int64 `json:"stock"`
}

// ADJUST_STOCK の new_value ペイロード。
type StockChangeNew struct {
	Stock      int64  `json:"stock"`
	Difference int64  `json:"difference"`
	Reason     string `json:"reason"`
}

// UPDATE_ORDER_STATUS の前後ペイロード。
type OrderStatusChange struct {
	Status OrderStatus `json:"status"`
}
