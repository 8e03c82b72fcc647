package usecase

import (
	"context"

	"minimarket/internal/domain/model"
	repo "minimarket/internal/repository"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type ListAuditLogsInput struct {
	Action     string
	EntityType string
	EntityID   *int64
	UserID     *int64
	Limit      int
	Offset     int
}

// 監査ログの一覧（管理者の履歴ビュー用）。新しい順。
func (u *AuditLogUsecase) List(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return nil, NewValidationError("invalid limit")
	}
	if in.Offset < 0 {
		return nil, NewValidationError("invalid offset")
	}

	f := repo.AuditLogFilter{
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.EntityType != "" {
		et := model.AuditEntityType(in.EntityType)
		f.EntityType = &et
	}
	f.EntityID = in.EntityID
	f.UserID = in.UserID

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, ErrPersistence
	}
	return logs, nil
}
