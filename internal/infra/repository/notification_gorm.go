package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type notificationGormRepository struct {
	db *gorm.DB
}

// DI
func NewNotificationGormRepository(db *gorm.DB) repo.NotificationRepository {
	return &notificationGormRepository{db: db}
}

func (r *notificationGormRepository) Create(ctx context.Context, n model.Notification) error {
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return err
	}
	return nil
}

// 作成時刻の新しい順。対象の表示名をitem_typeで引き分けて付ける。
// 対象が削除済みならitem_nameはNULLのまま返す（エラーにしない）。
func (r *notificationGormRepository) List(ctx context.Context, filter repo.NotificationFilter) ([]repo.NotificationRow, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Select("notifications.*, " +
			"CASE WHEN notifications.item_type = 'chemical' THEN chemicals.name " +
			"WHEN notifications.item_type = 'equipment' THEN equipment.name " +
			"ELSE NULL END AS item_name").
		Joins("LEFT JOIN chemicals ON notifications.item_type = 'chemical' AND notifications.item_id = chemicals.id").
		Joins("LEFT JOIN equipment ON notifications.item_type = 'equipment' AND notifications.item_id = equipment.id")

	if filter.IsRead != nil {
		q = q.Where("notifications.is_read = ?", *filter.IsRead)
	}

	q = q.Order("notifications.created_at DESC").Order("notifications.id DESC")

	// limit/offset
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	q = q.Limit(limit).Offset((page - 1) * limit)

	var rows []repo.NotificationRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// 未読の同種通知が指すitem_idの集合。
func (r *notificationGormRepository) ListUnreadItemIDs(ctx context.Context, typ model.NotificationType) (map[int64]struct{}, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("type = ? AND is_read = ? AND item_id IS NOT NULL", typ, false).
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *notificationGormRepository) MarkRead(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *notificationGormRepository) MarkAllRead(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true).Error
}

func (r *notificationGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *notificationGormRepository) UnreadCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("is_read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
