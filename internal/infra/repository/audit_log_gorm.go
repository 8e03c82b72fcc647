package repository

import (
	"context"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != nil {
		q = q.Where("action_type = ?", *filter.Action)
	}
	if filter.EntityType != nil {
		q = q.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	//新しい順
	q = q.Order("id DESC")

	// limit/offset
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	q = q.Limit(limit).Offset(filter.Offset)

	var logs []model.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// 在庫調整履歴。商品は削除済みでも行は返したいのでLEFT JOIN。
func (r *auditLogGormRepository) ListStockHistory(ctx context.Context, limit int) ([]repo.StockHistoryRow, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []repo.StockHistoryRow
	err := r.db.WithContext(ctx).
		Table("audit_logs").
		Select(`audit_logs.id,
			audit_logs.entity_id,
			audit_logs.old_value,
			audit_logs.new_value,
			audit_logs.created_at,
			users.email AS user_email,
			products.name AS product_name`).
		Joins("JOIN users ON users.id = audit_logs.user_id").
		Joins("LEFT JOIN products ON products.id = audit_logs.entity_id").
		Where("audit_logs.action_type = ?", model.AuditActionAdjustStock).
		Order("audit_logs.created_at DESC").
		Order("audit_logs.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
