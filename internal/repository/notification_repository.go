package repository

import (
	"context"

	"app/internal/domain/model"
)

// 通知の絞り込み条件。
type NotificationFilter struct {
	IsRead *bool
	Page   int
	Limit  int
}

// 通知＋対象の表示名。
// 対象が削除済み（dangling）ならItemNameはnil。
type NotificationRow struct {
	model.Notification `gorm:"embedded"`
	ItemName           *string `json:"item_name"`
}

// 通知の永続化だけを約束。
// 作成後に変えられるのはis_readだけ。
type NotificationRepository interface {
	Create(ctx context.Context, n model.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]NotificationRow, error)

	// 指定種別の未読通知が指すitem_idの集合。スイープの重複排除に使う。
	ListUnreadItemIDs(ctx context.Context, typ model.NotificationType) (map[int64]struct{}, error)

	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	UnreadCount(ctx context.Context) (int64, error)
}
