package repository

import (
	"app/internal/domain/model"
	"context"
)

// ユーザーの保存・取得を約束。
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)

	// 見つからなければnilを返す（エラーにしない）。
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Googleログイン用：google_idかemailのどちらかで1件取得。
	FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*model.User, error)

	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error

	// 既存ユーザーにgoogle_idを後付けする。
	SetGoogleID(ctx context.Context, id int64, googleID string) error
}
