package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type UserUsecase struct {
	userRepo repo.UserRepository
	audit    *AuditUsecase
}

// DI
func NewUserUsecase(userRepo repo.UserRepository, audit *AuditUsecase) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, audit: audit}
}

func (u *UserUsecase) List(ctx context.Context) ([]model.User, error) {
	users, err := u.userRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

func (u *UserUsecase) GetByID(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	return *user, nil
}

type UserInput struct {
	Email string
	Name  string
	Role  string
}

func validateUserInput(in UserInput, requireRole bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	if in.Role == "" && !requireRole {
		return nil
	}
	switch model.Role(in.Role) {
	case model.RoleAdmin, model.RoleUser:
		return nil
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}
}

func (u *UserUsecase) Create(ctx context.Context, actorID int64, in UserInput) (model.User, error) {
	if actorID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateUserInput(in, false); err != nil {
		return model.User{}, err
	}

	email := strings.TrimSpace(in.Email)

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "user with this email already exists")
	}

	role := model.Role(in.Role)
	if role == "" {
		role = model.RoleUser
	}

	user := model.User{
		Email: email,
		Name:  strings.TrimSpace(in.Name),
		Role:  role,
	}
	if err := u.userRepo.Create(ctx, &user); err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeUser, model.AuditActionAdd, user.Name, actorID, map[string]any{
		"email": user.Email,
		"role":  user.Role,
	})

	return user, nil
}

func (u *UserUsecase) Update(ctx context.Context, actorID int64, userID int64, in UserInput) (model.User, error) {
	if actorID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if err := validateUserInput(in, true); err != nil {
		return model.User{}, err
	}

	existing, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing == nil {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}

	existing.Email = strings.TrimSpace(in.Email)
	existing.Name = strings.TrimSpace(in.Name)
	existing.Role = model.Role(in.Role)

	if err := u.userRepo.Update(ctx, existing); err != nil {
		if err == repo.ErrNotFound {
			return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeUser, model.AuditActionUpdate, existing.Name, actorID, map[string]any{
		"email": existing.Email,
		"role":  existing.Role,
	})

	return *existing, nil
}

// 削除。自分自身は消せない。
func (u *UserUsecase) Delete(ctx context.Context, actorID int64, userID int64) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if userID == actorID {
		return NewHTTPError(http.StatusBadRequest, "cannot delete your own account")
	}

	existing, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing == nil {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeUser, model.AuditActionDelete, existing.Name, actorID, map[string]any{
		"email": existing.Email,
	})

	return nil
}
