package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// 利用者。Googleログインの初回成功時か、管理者の手で作成される。
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 外部IdP（Google）のID。管理者が先に作った場合は未設定。
	GoogleID *string `gorm:"type:varchar(120);uniqueIndex" json:"google_id"`

	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Role  Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
