package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（usecaseテスト共用）
// =====================

type ChemicalRepoMock struct{ mock.Mock }

func (m *ChemicalRepoMock) List(ctx context.Context) ([]repo.ChemicalListRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.ChemicalListRow)
	return rows, args.Error(1)
}

func (m *ChemicalRepoMock) FindByID(ctx context.Context, id int64) (model.Chemical, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Chemical)
	return c, args.Error(1)
}

func (m *ChemicalRepoMock) ListUsageLogs(ctx context.Context, chemicalID int64) ([]repo.UsageLogRow, error) {
	args := m.Called(ctx, chemicalID)
	rows, _ := args.Get(0).([]repo.UsageLogRow)
	return rows, args.Error(1)
}

func (m *ChemicalRepoMock) Create(ctx context.Context, c model.Chemical) (model.Chemical, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Chemical)
	return created, args.Error(1)
}

func (m *ChemicalRepoMock) Update(ctx context.Context, c model.Chemical) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ChemicalRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ChemicalRepoMock) LogUsage(ctx context.Context, log model.ChemicalUsageLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *ChemicalRepoMock) LogUsageIfEnough(ctx context.Context, log model.ChemicalUsageLog) (bool, error) {
	args := m.Called(ctx, log)
	return args.Bool(0), args.Error(1)
}

func (m *ChemicalRepoMock) ListLowStock(ctx context.Context) ([]model.Chemical, error) {
	args := m.Called(ctx)
	chems, _ := args.Get(0).([]model.Chemical)
	return chems, args.Error(1)
}

func (m *ChemicalRepoMock) ListExpiringBetween(ctx context.Context, after, until time.Time) ([]model.Chemical, error) {
	args := m.Called(ctx, after, until)
	chems, _ := args.Get(0).([]model.Chemical)
	return chems, args.Error(1)
}

type EquipmentRepoMock struct{ mock.Mock }

func (m *EquipmentRepoMock) List(ctx context.Context) ([]repo.EquipmentRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.EquipmentRow)
	return rows, args.Error(1)
}

func (m *EquipmentRepoMock) FindByID(ctx context.Context, id int64) (repo.EquipmentRow, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(repo.EquipmentRow)
	return row, args.Error(1)
}

func (m *EquipmentRepoMock) ListMaintenanceLogs(ctx context.Context, equipmentID int64) ([]repo.MaintenanceLogRow, error) {
	args := m.Called(ctx, equipmentID)
	rows, _ := args.Get(0).([]repo.MaintenanceLogRow)
	return rows, args.Error(1)
}

func (m *EquipmentRepoMock) Create(ctx context.Context, e model.Equipment) (model.Equipment, error) {
	args := m.Called(ctx, e)
	created, _ := args.Get(0).(model.Equipment)
	return created, args.Error(1)
}

func (m *EquipmentRepoMock) Update(ctx context.Context, e model.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EquipmentRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EquipmentRepoMock) LogMaintenance(ctx context.Context, log model.EquipmentMaintenanceLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *EquipmentRepoMock) ListMaintenanceDueBetween(ctx context.Context, after, until time.Time) ([]model.Equipment, error) {
	args := m.Called(ctx, after, until)
	items, _ := args.Get(0).([]model.Equipment)
	return items, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*model.User, error) {
	args := m.Called(ctx, googleID, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepoMock) SetGoogleID(ctx context.Context, id int64, googleID string) error {
	args := m.Called(ctx, id, googleID)
	return args.Error(0)
}

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) List(ctx context.Context, filter repo.NotificationFilter) ([]repo.NotificationRow, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]repo.NotificationRow)
	return rows, args.Error(1)
}

func (m *NotificationRepoMock) ListUnreadItemIDs(ctx context.Context, typ model.NotificationType) (map[int64]struct{}, error) {
	args := m.Called(ctx, typ)
	ids, _ := args.Get(0).(map[int64]struct{})
	return ids, args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepoMock) MarkAllRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *NotificationRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepoMock) UnreadCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]repo.AuditLogRow, int64, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]repo.AuditLogRow)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *AuditRepoMock) FindByID(ctx context.Context, id int64) (repo.AuditLogRow, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(repo.AuditLogRow)
	return row, args.Error(1)
}

// 時刻固定のClock
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

// HTTPErrorのステータスとメッセージを確認する
func assertHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()

	assert.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected *usecase.HTTPError, got %T", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, message, he.Message)
	}
}

// 監査を無視するテスト用のAuditUsecase（Createは常に成功）
func newNoopAudit() (*usecase.AuditUsecase, *AuditRepoMock) {
	m := new(AuditRepoMock)
	m.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return usecase.NewAuditUsecase(m), m
}
