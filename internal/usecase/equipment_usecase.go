package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type EquipmentUsecase struct {
	equipmentRepo repo.EquipmentRepository
	audit         *AuditUsecase
	clock         Clock
}

// DI
func NewEquipmentUsecase(equipmentRepo repo.EquipmentRepository, audit *AuditUsecase, clock Clock) *EquipmentUsecase {
	return &EquipmentUsecase{
		equipmentRepo: equipmentRepo,
		audit:         audit,
		clock:         clock,
	}
}

func (u *EquipmentUsecase) List(ctx context.Context) ([]repo.EquipmentRow, error) {
	rows, err := u.equipmentRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}

// 詳細＝本体＋メンテ記録。
type EquipmentDetailOutput struct {
	repo.EquipmentRow
	MaintenanceLog []repo.MaintenanceLogRow `json:"maintenance_log"`
}

func (u *EquipmentUsecase) GetDetail(ctx context.Context, equipmentID int64) (EquipmentDetailOutput, error) {
	if equipmentID <= 0 {
		return EquipmentDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid equipment id")
	}

	row, err := u.equipmentRepo.FindByID(ctx, equipmentID)
	if err == repo.ErrNotFound {
		return EquipmentDetailOutput{}, NewHTTPError(http.StatusNotFound, "equipment not found")
	}
	if err != nil {
		return EquipmentDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logs, err := u.equipmentRepo.ListMaintenanceLogs(ctx, equipmentID)
	if err != nil {
		return EquipmentDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return EquipmentDetailOutput{EquipmentRow: row, MaintenanceLog: logs}, nil
}

type EquipmentInput struct {
	Name               string
	Model              string
	SerialID           string
	Status             string
	Location           string
	PurchaseDate       *time.Time
	WarrantyExpiration *time.Time
	Condition          string
	AssignedUserID     *int64
}

func validateEquipmentInput(in EquipmentInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.SerialID) == "" {
		return NewHTTPError(http.StatusBadRequest, "serial id required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return NewHTTPError(http.StatusBadRequest, "model required")
	}

	if in.Status != "" {
		switch model.EquipmentStatus(in.Status) {
		case model.EquipmentStatusAvailable, model.EquipmentStatusBroken, model.EquipmentStatusUnderMaintenance:
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}
	if in.Condition != "" {
		switch model.EquipmentCondition(in.Condition) {
		case model.EquipmentConditionGood, model.EquipmentConditionNeedsRepair, model.EquipmentConditionBroken:
		default:
			return NewHTTPError(http.StatusBadRequest, "invalid condition")
		}
	}

	return nil
}

// 登録。last_maintenanceは今日、next_maintenanceは+6ヶ月で初期化する。
func (u *EquipmentUsecase) Create(ctx context.Context, actorID int64, in EquipmentInput) (model.Equipment, error) {
	if actorID <= 0 {
		return model.Equipment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateEquipmentInput(in); err != nil {
		return model.Equipment{}, err
	}

	status := model.EquipmentStatus(in.Status)
	if status == "" {
		status = model.EquipmentStatusAvailable
	}
	condition := model.EquipmentCondition(in.Condition)
	if condition == "" {
		condition = model.EquipmentConditionGood
	}

	now := u.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nextMaintenance := today.AddDate(0, 6, 0)

	e, err := u.equipmentRepo.Create(ctx, model.Equipment{
		Name:               strings.TrimSpace(in.Name),
		Model:              strings.TrimSpace(in.Model),
		SerialID:           strings.TrimSpace(in.SerialID),
		Status:             status,
		Location:           in.Location,
		PurchaseDate:       in.PurchaseDate,
		WarrantyExpiration: in.WarrantyExpiration,
		Condition:          condition,
		LastMaintenance:    &today,
		NextMaintenance:    &nextMaintenance,
		AssignedUserID:     in.AssignedUserID,
	})
	if err != nil {
		return model.Equipment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeEquipment, model.AuditActionAdd, e.Name, actorID, map[string]any{
		"serial_id": e.SerialID,
		"model":     e.Model,
		"status":    e.Status,
	})

	return e, nil
}

func (u *EquipmentUsecase) Update(ctx context.Context, actorID int64, equipmentID int64, in EquipmentInput) (repo.EquipmentRow, error) {
	if actorID <= 0 {
		return repo.EquipmentRow{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if equipmentID <= 0 {
		return repo.EquipmentRow{}, NewHTTPError(http.StatusBadRequest, "invalid equipment id")
	}
	if err := validateEquipmentInput(in); err != nil {
		return repo.EquipmentRow{}, err
	}

	err := u.equipmentRepo.Update(ctx, model.Equipment{
		ID:                 equipmentID,
		Name:               strings.TrimSpace(in.Name),
		Model:              strings.TrimSpace(in.Model),
		SerialID:           strings.TrimSpace(in.SerialID),
		Status:             model.EquipmentStatus(in.Status),
		Location:           in.Location,
		PurchaseDate:       in.PurchaseDate,
		WarrantyExpiration: in.WarrantyExpiration,
		Condition:          model.EquipmentCondition(in.Condition),
		AssignedUserID:     in.AssignedUserID,
	})
	if err == repo.ErrNotFound {
		return repo.EquipmentRow{}, NewHTTPError(http.StatusNotFound, "equipment not found")
	}
	if err != nil {
		return repo.EquipmentRow{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeEquipment, model.AuditActionUpdate, strings.TrimSpace(in.Name), actorID, map[string]any{
		"serial_id": strings.TrimSpace(in.SerialID),
		"status":    in.Status,
	})

	row, err := u.equipmentRepo.FindByID(ctx, equipmentID)
	if err != nil {
		return repo.EquipmentRow{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return row, nil
}

func (u *EquipmentUsecase) Delete(ctx context.Context, actorID int64, equipmentID int64) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if equipmentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid equipment id")
	}

	// 監査用に名前をスナップショットしてから消す
	row, err := u.equipmentRepo.FindByID(ctx, equipmentID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "equipment not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.equipmentRepo.Delete(ctx, equipmentID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "equipment not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeEquipment, model.AuditActionDelete, row.Name, actorID, map[string]any{
		"serial_id": row.SerialID,
	})

	return nil
}

type LogMaintenanceInput struct {
	EquipmentID int64
	Date        time.Time
	Action      string
	Notes       string
}

// メンテ記録を挿入する。
// 機器のlast/next_maintenanceはここでは触らない。
func (u *EquipmentUsecase) LogMaintenance(ctx context.Context, actorID int64, in LogMaintenanceInput) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.EquipmentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid equipment id")
	}
	if strings.TrimSpace(in.Action) == "" {
		return NewHTTPError(http.StatusBadRequest, "action required")
	}
	if in.Date.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "date required")
	}

	row, err := u.equipmentRepo.FindByID(ctx, in.EquipmentID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "equipment not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	action := strings.TrimSpace(in.Action)
	err = u.equipmentRepo.LogMaintenance(ctx, model.EquipmentMaintenanceLog{
		EquipmentID: in.EquipmentID,
		UserID:      actorID,
		Date:        in.Date,
		Action:      action,
		Notes:       in.Notes,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "equipment not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeEquipment, model.AuditAction(strings.ToLower(action)), row.Name, actorID, map[string]any{
		"action": action,
		"date":   in.Date.Format("2006-01-02"),
		"notes":  in.Notes,
	})

	return nil
}
