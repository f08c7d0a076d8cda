package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type auditLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewAuditLogGormRepository(db *gorm.DB) repo.AuditLogRepository {
	return &auditLogGormRepository{db: db}
}

// 監査ログを1件追記
func (r *auditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

// 条件で一覧取得。timestamp降順、件数付き。操作者名をJOINで付ける。
func (r *auditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]repo.AuditLogRow, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.Type != nil {
		q = q.Where("audit_logs.type = ?", *filter.Type)
	}
	if filter.Action != nil {
		q = q.Where("audit_logs.action = ?", *filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 操作者が消えていてもログは返す
	q = q.Select("audit_logs.*, COALESCE(users.name, '') AS user_name").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.timestamp DESC").Order("audit_logs.id DESC")

	// limit/offset
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	q = q.Limit(limit).Offset((page - 1) * limit)

	var rows []repo.AuditLogRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *auditLogGormRepository) FindByID(ctx context.Context, id int64) (repo.AuditLogRow, error) {
	var row repo.AuditLogRow

	err := r.db.WithContext(ctx).
		Model(&model.AuditLog{}).
		Select("audit_logs.*, COALESCE(users.name, '') AS user_name").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Where("audit_logs.id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.AuditLogRow{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.AuditLogRow{}, err
	}
	return row, nil
}
