package model

import "time"

// 機器のメンテナンス記録。
// Equipmentのlast/next_maintenanceには影響しない。
type EquipmentMaintenanceLog struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EquipmentID int64 `gorm:"not null;index" json:"equipment_id"`
	UserID      int64 `gorm:"not null;index" json:"user_id"`

	Date   time.Time `gorm:"type:date;not null" json:"date"`
	Action string    `gorm:"type:varchar(100);not null" json:"action"`
	Notes  string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
