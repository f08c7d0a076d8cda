package model

import "time"

// 薬品の危険分類。
type SafetyClass string

const (
	SafetyClassSafe      SafetyClass = "safe"
	SafetyClassToxic     SafetyClass = "toxic"
	SafetyClassCorrosive SafetyClass = "corrosive"
	SafetyClassReactive  SafetyClass = "reactive"
	SafetyClassFlammable SafetyClass = "flammable"
)

// 薬品マスタ。
// initial_quantityは登録時に決まり、以後変更しない。
// current_quantityは使用記録の挿入でのみ減る。
type Chemical struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	BatchNumber string `gorm:"type:varchar(100);not null" json:"batch_number"`
	Brand       string `gorm:"type:varchar(255)" json:"brand"`

	Volume          float64 `gorm:"type:numeric(12,3)" json:"volume"`
	InitialQuantity int64   `gorm:"not null" json:"initial_quantity"`
	CurrentQuantity int64   `gorm:"not null" json:"current_quantity"`

	ExpirationDate time.Time `gorm:"type:date;not null;index" json:"expiration_date"`
	DateOfArrival  time.Time `gorm:"type:date;not null" json:"date_of_arrival"`

	SafetyClass SafetyClass `gorm:"type:varchar(20);not null" json:"safety_class"`
	Location    string      `gorm:"type:varchar(255)" json:"location"`

	// GHSシンボルのタグ集合。JSON文字列で保存する。
	GHSSymbols []string `gorm:"serializer:json;type:text;column:ghs_symbols" json:"ghs_symbols"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
