package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validEquipmentInput() usecase.EquipmentInput {
	return usecase.EquipmentInput{
		Name:     "Centrifuge",
		Model:    "CF-X",
		SerialID: "CF-100",
		Location: "Lab 1",
	}
}

func TestEquipmentCreate_Validation(t *testing.T) {
	uc := usecase.NewEquipmentUsecase(new(EquipmentRepoMock), mustAudit(t), &fixedClock{t: time.Now()})

	in := validEquipmentInput()
	in.SerialID = ""
	_, err := uc.Create(context.Background(), 1, in)
	assertHTTPError(t, err, http.StatusBadRequest, "serial id required")

	in = validEquipmentInput()
	in.Status = "Lost"
	_, err = uc.Create(context.Background(), 1, in)
	assertHTTPError(t, err, http.StatusBadRequest, "invalid status")
}

// 未指定ならAvailable/Good、next_maintenanceは今日+6ヶ月
func TestEquipmentCreate_Defaults(t *testing.T) {
	equipRepo := new(EquipmentRepoMock)

	now := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	equipRepo.On("Create", mock.Anything, mock.MatchedBy(func(e model.Equipment) bool {
		return e.Status == model.EquipmentStatusAvailable &&
			e.Condition == model.EquipmentConditionGood &&
			e.LastMaintenance != nil && e.LastMaintenance.Equal(today) &&
			e.NextMaintenance != nil && e.NextMaintenance.Equal(next)
	})).Return(model.Equipment{ID: 1, Name: "Centrifuge"}, nil).Once()

	uc := usecase.NewEquipmentUsecase(equipRepo, mustAudit(t), &fixedClock{t: now})

	_, err := uc.Create(context.Background(), 1, validEquipmentInput())
	assert.NoError(t, err)
	equipRepo.AssertExpectations(t)
}

func TestEquipmentUpdate_NotFound(t *testing.T) {
	equipRepo := new(EquipmentRepoMock)
	equipRepo.On("Update", mock.Anything, mock.Anything).Return(repo.ErrNotFound)

	uc := usecase.NewEquipmentUsecase(equipRepo, mustAudit(t), &fixedClock{t: time.Now()})

	_, err := uc.Update(context.Background(), 1, 99, validEquipmentInput())
	assertHTTPError(t, err, http.StatusNotFound, "equipment not found")
}

// 監査のactionはメンテ作業名を小文字化したもの
func TestEquipmentLogMaintenance_AuditActionLowercased(t *testing.T) {
	equipRepo := new(EquipmentRepoMock)
	auditRepo := new(AuditRepoMock)

	equipRepo.On("FindByID", mock.Anything, int64(9)).
		Return(repo.EquipmentRow{Equipment: model.Equipment{ID: 9, Name: "Centrifuge"}}, nil)
	equipRepo.On("LogMaintenance", mock.Anything, mock.MatchedBy(func(l model.EquipmentMaintenanceLog) bool {
		return l.EquipmentID == int64(9) && l.Action == "Calibration"
	})).Return(nil).Once()

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Type == model.AuditTypeEquipment &&
			l.Action == model.AuditAction("calibration") &&
			l.ItemName == "Centrifuge"
	})).Return(nil).Once()

	uc := usecase.NewEquipmentUsecase(equipRepo, usecase.NewAuditUsecase(auditRepo), &fixedClock{t: time.Now()})

	err := uc.LogMaintenance(context.Background(), 2, usecase.LogMaintenanceInput{
		EquipmentID: 9,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Action:      "Calibration",
	})
	assert.NoError(t, err)

	equipRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestEquipmentLogMaintenance_EquipmentMissing(t *testing.T) {
	equipRepo := new(EquipmentRepoMock)
	equipRepo.On("FindByID", mock.Anything, int64(9)).Return(repo.EquipmentRow{}, repo.ErrNotFound)

	uc := usecase.NewEquipmentUsecase(equipRepo, mustAudit(t), &fixedClock{t: time.Now()})

	err := uc.LogMaintenance(context.Background(), 2, usecase.LogMaintenanceInput{
		EquipmentID: 9,
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Action:      "Repair",
	})
	assertHTTPError(t, err, http.StatusNotFound, "equipment not found")
}
