package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧行。使用記録の件数を付けて返す。
type ChemicalListRow struct {
	model.Chemical `gorm:"embedded"`
	UsageCount     int64 `json:"usage_count"`
}

// 使用記録＋記録者名。
type UsageLogRow struct {
	model.ChemicalUsageLog `gorm:"embedded"`
	UserName               string `json:"user_name"`
}

// 薬品の永続化だけを約束。
type ChemicalRepository interface {
	List(ctx context.Context) ([]ChemicalListRow, error)
	FindByID(ctx context.Context, id int64) (model.Chemical, error)
	ListUsageLogs(ctx context.Context, chemicalID int64) ([]UsageLogRow, error)

	Create(ctx context.Context, c model.Chemical) (model.Chemical, error)
	Update(ctx context.Context, c model.Chemical) error
	Delete(ctx context.Context, id int64) error

	// 使用記録の挿入とcurrent_quantityの減算を1トランザクションで行う。
	// 在庫がマイナスになっても止めない。
	LogUsage(ctx context.Context, log model.ChemicalUsageLog) error

	// LogUsageの在庫チェック版。在庫が足りなければfalseを返して何もしない。
	LogUsageIfEnough(ctx context.Context, log model.ChemicalUsageLog) (bool, error)

	// 通知スイープ用の抽出。
	ListLowStock(ctx context.Context) ([]model.Chemical, error)
	ListExpiringBetween(ctx context.Context, after, until time.Time) ([]model.Chemical, error)
}
