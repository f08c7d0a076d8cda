package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type chemicalGormRepository struct {
	db *gorm.DB
}

// DI
func NewChemicalGormRepository(db *gorm.DB) repo.ChemicalRepository {
	return &chemicalGormRepository{db: db}
}

// 名前順で全件。使用記録の件数付き。
func (r *chemicalGormRepository) List(ctx context.Context) ([]repo.ChemicalListRow, error) {
	var rows []repo.ChemicalListRow

	err := r.db.WithContext(ctx).
		Model(&model.Chemical{}).
		Select("chemicals.*, (SELECT COUNT(*) FROM chemical_usage_logs WHERE chemical_usage_logs.chemical_id = chemicals.id) AS usage_count").
		Order("chemicals.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chemicalGormRepository) FindByID(ctx context.Context, id int64) (model.Chemical, error) {
	var c model.Chemical
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Chemical{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Chemical{}, err
	}
	return c, nil
}

// 使用記録を記録者名付きで、日付の新しい順に返す。
func (r *chemicalGormRepository) ListUsageLogs(ctx context.Context, chemicalID int64) ([]repo.UsageLogRow, error) {
	var rows []repo.UsageLogRow

	err := r.db.WithContext(ctx).
		Model(&model.ChemicalUsageLog{}).
		Select("chemical_usage_logs.*, COALESCE(users.name, '') AS user_name").
		Joins("LEFT JOIN users ON users.id = chemical_usage_logs.user_id").
		Where("chemical_usage_logs.chemical_id = ?", chemicalID).
		Order("chemical_usage_logs.date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chemicalGormRepository) Create(ctx context.Context, c model.Chemical) (model.Chemical, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Chemical{}, err
	}
	return c, nil
}

func (r *chemicalGormRepository) Update(ctx context.Context, c model.Chemical) error {
	// 構造体Updatesでserializer:jsonを効かせる。ゼロ値も更新対象にする。
	res := r.db.WithContext(ctx).Model(&model.Chemical{}).
		Where("id = ?", c.ID).
		Select("name", "batch_number", "brand", "volume", "initial_quantity", "current_quantity",
			"expiration_date", "date_of_arrival", "safety_class", "location", "ghs_symbols").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 薬品を削除。依存する使用記録も一緒に消す。
func (r *chemicalGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chemical_id = ?", id).Delete(&model.ChemicalUsageLog{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Chemical{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// 使用記録の挿入と在庫減算を1トランザクションで行う。
// 在庫チェックはしない（マイナス在庫を許容する）。
func (r *chemicalGormRepository) LogUsage(ctx context.Context, log model.ChemicalUsageLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Chemical{}).
			Where("id = ?", log.ChemicalID).
			UpdateColumn("current_quantity", gorm.Expr("current_quantity - ?", log.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		return tx.Create(&log).Error
	})
}

// LogUsageの在庫チェック版。足りなければ何もせずfalse。
func (r *chemicalGormRepository) LogUsageIfEnough(ctx context.Context, log model.ChemicalUsageLog) (bool, error) {
	enough := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Chemical{}).
			Where("id = ? AND current_quantity >= ?", log.ChemicalID, log.Quantity).
			UpdateColumn("current_quantity", gorm.Expr("current_quantity - ?", log.Quantity))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// 対象がいないのか在庫不足なのかを区別する
			var count int64
			if err := tx.Model(&model.Chemical{}).Where("id = ?", log.ChemicalID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		enough = true
		return tx.Create(&log).Error
	})
	if err != nil {
		return false, err
	}
	return enough, nil
}

// 在庫が初期量の10%以下の薬品。
func (r *chemicalGormRepository) ListLowStock(ctx context.Context) ([]model.Chemical, error) {
	var chems []model.Chemical
	err := r.db.WithContext(ctx).
		Where("current_quantity <= initial_quantity * 0.1").
		Find(&chems).Error
	if err != nil {
		return nil, err
	}
	return chems, nil
}

// 期限がafterより後、until以内の薬品。期限切れは含まない。
func (r *chemicalGormRepository) ListExpiringBetween(ctx context.Context, after, until time.Time) ([]model.Chemical, error) {
	var chems []model.Chemical
	err := r.db.WithContext(ctx).
		Where("expiration_date > ? AND expiration_date <= ?", after, until).
		Find(&chems).Error
	if err != nil {
		return nil, err
	}
	return chems, nil
}
