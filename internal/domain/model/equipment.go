package model

import "time"

// 機器の稼働状態。
type EquipmentStatus string

const (
	EquipmentStatusAvailable        EquipmentStatus = "Available"
	EquipmentStatusBroken           EquipmentStatus = "Broken"
	EquipmentStatusUnderMaintenance EquipmentStatus = "Under Maintenance"
)

// 機器のコンディション。
type EquipmentCondition string

const (
	EquipmentConditionGood        EquipmentCondition = "Good"
	EquipmentConditionNeedsRepair EquipmentCondition = "Needs Repair"
	EquipmentConditionBroken      EquipmentCondition = "Broken"
)

// 機器マスタ。
// next_maintenanceは登録時に+6ヶ月で初期化される。
// メンテ記録を追加しても自動では再計算しない。
type Equipment struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null;index" json:"name"`
	Model    string `gorm:"type:varchar(255);not null" json:"model"`
	SerialID string `gorm:"type:varchar(100);uniqueIndex;not null" json:"serial_id"`

	Status   EquipmentStatus `gorm:"type:varchar(30);not null;default:'Available'" json:"status"`
	Location string          `gorm:"type:varchar(255)" json:"location"`

	PurchaseDate       *time.Time `gorm:"type:date" json:"purchase_date"`
	WarrantyExpiration *time.Time `gorm:"type:date" json:"warranty_expiration"`

	Condition EquipmentCondition `gorm:"type:varchar(30);not null;default:'Good'" json:"condition"`

	LastMaintenance *time.Time `gorm:"type:date" json:"last_maintenance"`
	NextMaintenance *time.Time `gorm:"type:date;index" json:"next_maintenance"`

	// 担当者への弱い参照。所有関係はない。
	AssignedUserID *int64 `gorm:"index" json:"assigned_user_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
