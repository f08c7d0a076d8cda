package repository

import (
	"context"

	"app/internal/domain/model"
)

// 監査ログの絞り込み条件。
type AuditLogFilter struct {
	Type   *model.AuditType
	Action *model.AuditAction
	Page   int
	Limit  int
}

// 監査ログ＋操作者名。
type AuditLogRow struct {
	model.AuditLog `gorm:"embedded"`
	UserName       string `json:"user_name"`
}

// 監査ログの保存・取得の約束。
// 追記専用：更新・削除のメソッドは存在しない。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// timestamp降順。件数も返す。
	List(ctx context.Context, filter AuditLogFilter) ([]AuditLogRow, int64, error)

	FindByID(ctx context.Context, id int64) (AuditLogRow, error)
}
