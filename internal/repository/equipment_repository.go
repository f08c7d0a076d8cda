package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 一覧行。担当者名とメンテ記録数を付けて返す。
// 担当者が未設定・削除済みならAssignedUserNameはnil。
type EquipmentRow struct {
	model.Equipment  `gorm:"embedded"`
	AssignedUserName *string `json:"assigned_user_name"`
	MaintenanceCount int64   `json:"maintenance_count"`
}

// メンテ記録＋記録者名。
type MaintenanceLogRow struct {
	model.EquipmentMaintenanceLog `gorm:"embedded"`
	UserName                      string `json:"user_name"`
}

// 機器の永続化だけを約束。
type EquipmentRepository interface {
	List(ctx context.Context) ([]EquipmentRow, error)
	FindByID(ctx context.Context, id int64) (EquipmentRow, error)
	ListMaintenanceLogs(ctx context.Context, equipmentID int64) ([]MaintenanceLogRow, error)

	Create(ctx context.Context, e model.Equipment) (model.Equipment, error)
	Update(ctx context.Context, e model.Equipment) error
	Delete(ctx context.Context, id int64) error

	// メンテ記録の挿入のみ。last/next_maintenanceは触らない。
	LogMaintenance(ctx context.Context, log model.EquipmentMaintenanceLog) error

	// 通知スイープ用の抽出。
	ListMaintenanceDueBetween(ctx context.Context, after, until time.Time) ([]model.Equipment, error)
}
