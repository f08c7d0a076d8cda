package model

import "time"

// 通知の種別。
type NotificationType string

const (
	NotificationLowStock    NotificationType = "low_stock"
	NotificationExpiration  NotificationType = "expiration"
	NotificationMaintenance NotificationType = "maintenance"
)

// 通知が指す対象の種類。
type ItemType string

const (
	ItemTypeChemical  ItemType = "chemical"
	ItemTypeEquipment ItemType = "equipment"
)

// 在庫アラート通知。
// title/messageは生成時点のスナップショットで、対象が消えても残る。
// item_idは弱い参照。対象削除後はdanglingを許容する。
type Notification struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Type    NotificationType `gorm:"type:varchar(30);not null;index" json:"type"`
	Title   string           `gorm:"type:varchar(255);not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`

	ItemType ItemType `gorm:"type:varchar(30)" json:"item_type"`
	ItemID   *int64   `gorm:"index" json:"item_id"`

	IsRead bool `gorm:"not null;default:false;index" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
