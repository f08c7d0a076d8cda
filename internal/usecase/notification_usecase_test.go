package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSweepUsecase(notifRepo *NotificationRepoMock, chemRepo *ChemicalRepoMock, equipRepo *EquipmentRepoMock, now time.Time) *usecase.NotificationUsecase {
	return usecase.NewNotificationUsecase(notifRepo, chemRepo, equipRepo, &fixedClock{t: now})
}

func sweepDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRunSweep_LowStock_CreatesNotification(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	chem := model.Chemical{ID: 7, Name: "Acetone", BatchNumber: "B-42", CurrentQuantity: 2}

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListLowStock", mock.Anything).Return([]model.Chemical{chem}, nil)

	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.NotificationLowStock &&
			n.ItemType == model.ItemTypeChemical &&
			n.ItemID != nil && *n.ItemID == int64(7) &&
			n.Message == `Chemical "Acetone" (Batch: B-42) is running low. Current quantity: 2`
	})).Return(nil).Once()

	// 他のスキャンは空
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Chemical{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Equipment{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))
	uc.RunSweep(context.Background())

	notifRepo.AssertExpectations(t)
}

func TestRunSweep_LowStock_SkipsWhileUnreadExists(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	chem := model.Chemical{ID: 7, Name: "Acetone", BatchNumber: "B-42", CurrentQuantity: 2}

	// 未読が残っている間は同じ薬品に出し直さない
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).Return(map[int64]struct{}{7: {}}, nil)
	chemRepo.On("ListLowStock", mock.Anything).Return([]model.Chemical{chem}, nil)

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Chemical{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Equipment{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))
	uc.RunSweep(context.Background())

	notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 既読になった後のスイープでは再通知される
func TestRunSweep_LowStock_FiresAgainAfterRead(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	chem := model.Chemical{ID: 7, Name: "Acetone", BatchNumber: "B-42", CurrentQuantity: 1}

	// 1回目：未読あり→出さない / 2回目：既読化済み→出す
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).
		Return(map[int64]struct{}{7: {}}, nil).Once()
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).
		Return(map[int64]struct{}{}, nil).Once()
	chemRepo.On("ListLowStock", mock.Anything).Return([]model.Chemical{chem}, nil)

	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.NotificationLowStock && n.ItemID != nil && *n.ItemID == int64(7)
	})).Return(nil).Once()

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Chemical{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Equipment{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))
	uc.RunSweep(context.Background())
	uc.RunSweep(context.Background())

	notifRepo.AssertExpectations(t)
}

// 期限スキャンは「今日より後〜3ヶ月後まで」を聞きに行く
func TestRunSweep_Expiration_WindowAndMessage(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	today := sweepDate(2025, 6, 1)
	expiry := sweepDate(2025, 7, 15)
	chem := model.Chemical{ID: 3, Name: "Ethanol", BatchNumber: "E-1", ExpirationDate: expiry}

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, today, sweepDate(2025, 9, 1)).
		Return([]model.Chemical{chem}, nil)

	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.NotificationExpiration &&
			n.Message == `Chemical "Ethanol" (Batch: E-1) will expire on 2025-07-15`
	})).Return(nil).Once()

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListLowStock", mock.Anything).Return([]model.Chemical{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Equipment{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, today)
	uc.RunSweep(context.Background())

	chemRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

// メンテスキャンは「今日〜7日後まで」を聞きに行く
func TestRunSweep_Maintenance_WindowAndMessage(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	today := sweepDate(2025, 6, 1)
	due := sweepDate(2025, 6, 5)
	equip := model.Equipment{ID: 9, Name: "Centrifuge", SerialID: "CF-100", NextMaintenance: &due}

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, today, sweepDate(2025, 6, 8)).
		Return([]model.Equipment{equip}, nil)

	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.Type == model.NotificationMaintenance &&
			n.ItemType == model.ItemTypeEquipment &&
			n.Message == `Equipment "Centrifuge" (ID: CF-100) requires maintenance by 2025-06-05`
	})).Return(nil).Once()

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListLowStock", mock.Anything).Return([]model.Chemical{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Chemical{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, today)
	uc.RunSweep(context.Background())

	equipRepo.AssertExpectations(t)
	notifRepo.AssertExpectations(t)
}

// 1つのスキャンが失敗しても残りのスキャンは実行される
func TestRunSweep_ScanFailureDoesNotStopOthers(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListLowStock", mock.Anything).Return(nil, errors.New("db down"))

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Chemical{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Equipment{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))
	uc.RunSweep(context.Background())

	// 後続スキャンまで到達している
	chemRepo.AssertCalled(t, "ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything)
	equipRepo.AssertCalled(t, "ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything)
}

// 1件のCreate失敗が他の薬品の通知を止めない
func TestRunSweep_CreateFailureContinues(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)

	chems := []model.Chemical{
		{ID: 1, Name: "A", BatchNumber: "a", CurrentQuantity: 0},
		{ID: 2, Name: "B", BatchNumber: "b", CurrentQuantity: 0},
	}

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationLowStock).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListLowStock", mock.Anything).Return(chems, nil)

	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.ItemID != nil && *n.ItemID == int64(1)
	})).Return(errors.New("insert failed")).Once()
	notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
		return n.ItemID != nil && *n.ItemID == int64(2)
	})).Return(nil).Once()

	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationExpiration).Return(map[int64]struct{}{}, nil)
	notifRepo.On("ListUnreadItemIDs", mock.Anything, model.NotificationMaintenance).Return(map[int64]struct{}{}, nil)
	chemRepo.On("ListExpiringBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Chemical{}, nil)
	equipRepo.On("ListMaintenanceDueBetween", mock.Anything, mock.Anything, mock.Anything).Return([]model.Equipment{}, nil)

	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))
	uc.RunSweep(context.Background())

	notifRepo.AssertExpectations(t)
}

// =====================
// 閲覧系
// =====================

func TestNotificationList_InvalidPage(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)
	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))

	_, err := uc.List(context.Background(), usecase.ListNotificationsInput{Page: 0, Limit: 20})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid page")
}

func TestNotificationList_PassesFilter(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)
	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))

	isRead := false
	filter := repo.NotificationFilter{IsRead: &isRead, Page: 2, Limit: 10}
	notifRepo.On("List", mock.Anything, filter).Return([]repo.NotificationRow{}, nil)

	_, err := uc.List(context.Background(), usecase.ListNotificationsInput{Page: 2, Limit: 10, IsRead: &isRead})
	assert.NoError(t, err)
	notifRepo.AssertExpectations(t)
}

func TestNotificationMarkRead_NotFound(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)
	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))

	notifRepo.On("MarkRead", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := uc.MarkRead(context.Background(), 99)
	assertHTTPError(t, err, http.StatusNotFound, "notification not found")
}

func TestNotificationUnreadCount(t *testing.T) {
	notifRepo := new(NotificationRepoMock)
	chemRepo := new(ChemicalRepoMock)
	equipRepo := new(EquipmentRepoMock)
	uc := newSweepUsecase(notifRepo, chemRepo, equipRepo, sweepDate(2025, 6, 1))

	notifRepo.On("UnreadCount", mock.Anything).Return(int64(4), nil)

	count, err := uc.UnreadCount(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
