package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 期限アラートの先読み幅。
const (
	expirationWindowMonths = 3
	maintenanceWindowDays  = 7
)

type NotificationUsecase struct {
	notifRepo     repo.NotificationRepository
	chemicalRepo  repo.ChemicalRepository
	equipmentRepo repo.EquipmentRepository
	clock         Clock
}

// DI
func NewNotificationUsecase(
	notifRepo repo.NotificationRepository,
	chemicalRepo repo.ChemicalRepository,
	equipmentRepo repo.EquipmentRepository,
	clock Clock,
) *NotificationUsecase {
	return &NotificationUsecase{
		notifRepo:     notifRepo,
		chemicalRepo:  chemicalRepo,
		equipmentRepo: equipmentRepo,
		clock:         clock,
	}
}

// RunSweep は3つのスキャンを順に実行する。
// 各スキャンは独立：1つが失敗してもログだけ残して残りを続ける。
// 在庫・機器の行は一切書き換えない（read-then-insertのみ）。
func (u *NotificationUsecase) RunSweep(ctx context.Context) {
	u.checkLowStock(ctx)
	u.checkExpiringChemicals(ctx)
	u.checkEquipmentMaintenance(ctx)
}

// 在庫が初期量の10%以下の薬品に通知を出す。
// 同じ薬品に未読のlow_stock通知が残っている間は出し直さない。
func (u *NotificationUsecase) checkLowStock(ctx context.Context) {
	unread, err := u.notifRepo.ListUnreadItemIDs(ctx, model.NotificationLowStock)
	if err != nil {
		log.Errorf("low stock check: list unread failed: %v", err)
		return
	}

	chems, err := u.chemicalRepo.ListLowStock(ctx)
	if err != nil {
		log.Errorf("low stock check: list chemicals failed: %v", err)
		return
	}

	created := 0
	for _, c := range chems {
		if _, ok := unread[c.ID]; ok {
			continue
		}

		n := model.Notification{
			Type:  model.NotificationLowStock,
			Title: "Low Stock Alert",
			Message: fmt.Sprintf("Chemical \"%s\" (Batch: %s) is running low. Current quantity: %d",
				c.Name, c.BatchNumber, c.CurrentQuantity),
			ItemType: model.ItemTypeChemical,
			ItemID:   &c.ID,
		}
		if err := u.notifRepo.Create(ctx, n); err != nil {
			log.Errorf("low stock check: create notification for chemical %d failed: %v", c.ID, err)
			continue
		}
		created++
	}

	log.Infof("generated %d low stock notifications", created)
}

// 3ヶ月以内に期限が来る薬品に通知を出す。期限切れは対象外。
func (u *NotificationUsecase) checkExpiringChemicals(ctx context.Context) {
	unread, err := u.notifRepo.ListUnreadItemIDs(ctx, model.NotificationExpiration)
	if err != nil {
		log.Errorf("expiration check: list unread failed: %v", err)
		return
	}

	today := u.today()
	chems, err := u.chemicalRepo.ListExpiringBetween(ctx, today, today.AddDate(0, expirationWindowMonths, 0))
	if err != nil {
		log.Errorf("expiration check: list chemicals failed: %v", err)
		return
	}

	created := 0
	for _, c := range chems {
		if _, ok := unread[c.ID]; ok {
			continue
		}

		n := model.Notification{
			Type:  model.NotificationExpiration,
			Title: "Expiration Alert",
			Message: fmt.Sprintf("Chemical \"%s\" (Batch: %s) will expire on %s",
				c.Name, c.BatchNumber, c.ExpirationDate.Format("2006-01-02")),
			ItemType: model.ItemTypeChemical,
			ItemID:   &c.ID,
		}
		if err := u.notifRepo.Create(ctx, n); err != nil {
			log.Errorf("expiration check: create notification for chemical %d failed: %v", c.ID, err)
			continue
		}
		created++
	}

	log.Infof("generated %d expiration notifications", created)
}

// 7日以内にメンテ予定日が来る機器に通知を出す。期限超過は対象外。
func (u *NotificationUsecase) checkEquipmentMaintenance(ctx context.Context) {
	unread, err := u.notifRepo.ListUnreadItemIDs(ctx, model.NotificationMaintenance)
	if err != nil {
		log.Errorf("maintenance check: list unread failed: %v", err)
		return
	}

	today := u.today()
	items, err := u.equipmentRepo.ListMaintenanceDueBetween(ctx, today, today.AddDate(0, 0, maintenanceWindowDays))
	if err != nil {
		log.Errorf("maintenance check: list equipment failed: %v", err)
		return
	}

	created := 0
	for _, e := range items {
		if _, ok := unread[e.ID]; ok {
			continue
		}

		n := model.Notification{
			Type:  model.NotificationMaintenance,
			Title: "Maintenance Alert",
			Message: fmt.Sprintf("Equipment \"%s\" (ID: %s) requires maintenance by %s",
				e.Name, e.SerialID, e.NextMaintenance.Format("2006-01-02")),
			ItemType: model.ItemTypeEquipment,
			ItemID:   &e.ID,
		}
		if err := u.notifRepo.Create(ctx, n); err != nil {
			log.Errorf("maintenance check: create notification for equipment %d failed: %v", e.ID, err)
			continue
		}
		created++
	}

	log.Infof("generated %d maintenance notifications", created)
}

// 日付比較はDATE列と合わせて日単位で行う。
func (u *NotificationUsecase) today() time.Time {
	now := u.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type ListNotificationsInput struct {
	Page   int
	Limit  int
	IsRead *bool
}

func (u *NotificationUsecase) List(ctx context.Context, in ListNotificationsInput) ([]repo.NotificationRow, error) {
	if in.Page < 1 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	rows, err := u.notifRepo.List(ctx, repo.NotificationFilter{
		IsRead: in.IsRead,
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}

func (u *NotificationUsecase) MarkRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	err := u.notifRepo.MarkRead(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "notification not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *NotificationUsecase) MarkAllRead(ctx context.Context) error {
	if err := u.notifRepo.MarkAllRead(ctx); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *NotificationUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	err := u.notifRepo.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "notification not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *NotificationUsecase) UnreadCount(ctx context.Context) (int64, error) {
	count, err := u.notifRepo.UnreadCount(ctx)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return count, nil
}
