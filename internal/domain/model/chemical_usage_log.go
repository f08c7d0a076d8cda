package model

import "time"

// 薬品の使用記録。
// 挿入時にChemical.current_quantityをquantity分だけ減らす。
type ChemicalUsageLog struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ChemicalID int64 `gorm:"not null;index" json:"chemical_id"`

	// 記録者（帰属のみ、所有ではない）。
	UserID int64 `gorm:"not null;index" json:"user_id"`

	Date     time.Time `gorm:"type:date;not null" json:"date"`
	Location string    `gorm:"type:varchar(255)" json:"location"`
	Quantity int64     `gorm:"not null" json:"quantity"`
	Notes    string    `gorm:"type:text" json:"notes"`
	Opened   bool      `gorm:"not null;default:false" json:"opened"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
