package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type equipmentGormRepository struct {
	db *gorm.DB
}

// DI
func NewEquipmentGormRepository(db *gorm.DB) repo.EquipmentRepository {
	return &equipmentGormRepository{db: db}
}

const equipmentRowSelect = "equipment.*, users.name AS assigned_user_name, " +
	"(SELECT COUNT(*) FROM equipment_maintenance_logs WHERE equipment_maintenance_logs.equipment_id = equipment.id) AS maintenance_count"

// 名前順で全件。担当者名とメンテ記録数付き。
func (r *equipmentGormRepository) List(ctx context.Context) ([]repo.EquipmentRow, error) {
	var rows []repo.EquipmentRow

	err := r.db.WithContext(ctx).
		Model(&model.Equipment{}).
		Select(equipmentRowSelect).
		Joins("LEFT JOIN users ON users.id = equipment.assigned_user_id").
		Order("equipment.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *equipmentGormRepository) FindByID(ctx context.Context, id int64) (repo.EquipmentRow, error) {
	var row repo.EquipmentRow

	err := r.db.WithContext(ctx).
		Model(&model.Equipment{}).
		Select(equipmentRowSelect).
		Joins("LEFT JOIN users ON users.id = equipment.assigned_user_id").
		Where("equipment.id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.EquipmentRow{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.EquipmentRow{}, err
	}
	return row, nil
}

// メンテ記録を記録者名付きで、日付の新しい順に返す。
func (r *equipmentGormRepository) ListMaintenanceLogs(ctx context.Context, equipmentID int64) ([]repo.MaintenanceLogRow, error) {
	var rows []repo.MaintenanceLogRow

	err := r.db.WithContext(ctx).
		Model(&model.EquipmentMaintenanceLog{}).
		Select("equipment_maintenance_logs.*, COALESCE(users.name, '') AS user_name").
		Joins("LEFT JOIN users ON users.id = equipment_maintenance_logs.user_id").
		Where("equipment_maintenance_logs.equipment_id = ?", equipmentID).
		Order("equipment_maintenance_logs.date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *equipmentGormRepository) Create(ctx context.Context, e model.Equipment) (model.Equipment, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.Equipment{}, err
	}
	return e, nil
}

func (r *equipmentGormRepository) Update(ctx context.Context, e model.Equipment) error {
	res := r.db.WithContext(ctx).Model(&model.Equipment{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"name":                e.Name,
		"model":               e.Model,
		"serial_id":           e.SerialID,
		"status":              e.Status,
		"location":            e.Location,
		"purchase_date":       e.PurchaseDate,
		"warranty_expiration": e.WarrantyExpiration,
		"condition":           e.Condition,
		"assigned_user_id":    e.AssignedUserID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 機器を削除。依存するメンテ記録も一緒に消す。
func (r *equipmentGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("equipment_id = ?", id).Delete(&model.EquipmentMaintenanceLog{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Equipment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 挿入のみ。機器側のメンテ予定日は更新しない。
func (r *equipmentGormRepository) LogMaintenance(ctx context.Context, log model.EquipmentMaintenanceLog) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Equipment{}).Where("id = ?", log.EquipmentID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repo.ErrNotFound
	}

	return r.db.WithContext(ctx).Create(&log).Error
}

// メンテ予定がafterより後、until以内の機器。期限超過は含まない。
func (r *equipmentGormRepository) ListMaintenanceDueBetween(ctx context.Context, after, until time.Time) ([]model.Equipment, error) {
	var items []model.Equipment
	err := r.db.WithContext(ctx).
		Where("next_maintenance > ? AND next_maintenance <= ?", after, until).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
