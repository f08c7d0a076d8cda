package model

import "time"

// 監査ログの対象ドメイン（chemical / equipment / user など）。
type AuditType string

const (
	AuditTypeChemical  AuditType = "chemical"
	AuditTypeEquipment AuditType = "equipment"
	AuditTypeUser      AuditType = "user"
)

// 操作の種類（add / update / delete / usage など）。
type AuditAction string

const (
	AuditActionAdd    AuditAction = "add"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUsage  AuditAction = "usage"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「いつ」行ったかを残す。
// 追記専用：作成後の更新・削除はどこにも公開しない。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Type   AuditType   `gorm:"type:varchar(50);not null;index" json:"type"`
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	// 対象名のスナップショット。外部キーではないので対象削除後も残る。
	ItemName string `gorm:"type:varchar(255);not null" json:"item_name"`

	// 操作したユーザーのID。
	UserID int64 `gorm:"not null;index" json:"user_id"`

	// 任意の付帯情報。JSON文字列で保存する。
	Details map[string]any `gorm:"serializer:json;type:text" json:"details"`

	// 記録時刻。挿入時に決まり、以後変更しない。
	Timestamp time.Time `gorm:"not null;index;autoCreateTime" json:"timestamp"`
}
