package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// Googleのuserinfoから使う項目だけ。
type GoogleUserInfo struct {
	ID    string
	Email string
	Name  string
}

// Google側とのやり取りの約束。infra側で実装する。
type GoogleOAuthClient interface {
	AuthCodeURL(state string) string
	// 認可コードをトークンに交換してuserinfoを取得する。
	FetchUser(ctx context.Context, code string) (GoogleUserInfo, error)
}

// アクセストークンの発行の約束。
type TokenIssuer interface {
	Issue(user model.User, now time.Time) (string, time.Time, error)
}

type AuthUsecase struct {
	userRepo repo.UserRepository
	oauth    GoogleOAuthClient
	issuer   TokenIssuer
	clock    Clock
}

// DI
func NewAuthUsecase(userRepo repo.UserRepository, oauth GoogleOAuthClient, issuer TokenIssuer, clock Clock) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		oauth:    oauth,
		issuer:   issuer,
		clock:    clock,
	}
}

func (u *AuthUsecase) LoginURL(state string) string {
	return u.oauth.AuthCodeURL(state)
}

type LoginOutput struct {
	User  model.User
	Token string
}

// コールバック処理。
// 初回ログインならユーザーを作る（role=user）。
// 管理者が先にemailで登録していた場合はgoogle_idを後付けする。
func (u *AuthUsecase) HandleCallback(ctx context.Context, code string) (LoginOutput, error) {
	if code == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "code required")
	}

	info, err := u.oauth.FetchUser(ctx, code)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "google auth failed")
	}

	user, err := u.userRepo.FindByGoogleIDOrEmail(ctx, info.ID, info.Email)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if user == nil {
		user = &model.User{
			GoogleID: &info.ID,
			Email:    info.Email,
			Name:     info.Name,
			Role:     model.RoleUser,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	} else if user.GoogleID == nil {
		if err := u.userRepo.SetGoogleID(ctx, user.ID, info.ID); err != nil {
			return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		user.GoogleID = &info.ID
	}

	token, _, err := u.issuer.Issue(*user, u.clock.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token issue failed")
	}

	return LoginOutput{User: *user, Token: token}, nil
}

// トークン検証後の突き合わせ。ユーザーが消えていたら401。
func (u *AuthUsecase) Verify(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "user not found")
	}
	return *user, nil
}
