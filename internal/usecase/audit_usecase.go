package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditUsecase(auditRepo repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

// 監査ログを1件追記する。ベストエフォート：
// 書き込みに失敗してもログを残して握りつぶす。
// 呼び出し元の本処理は監査の成否に巻き込まれない。
func (u *AuditUsecase) Record(ctx context.Context, typ model.AuditType, action model.AuditAction, itemName string, userID int64, details map[string]any) {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		Type:      typ,
		Action:    action,
		ItemName:  itemName,
		UserID:    userID,
		Details:   details,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Errorf("audit log write failed (type=%s action=%s item=%s): %v", typ, action, itemName, err)
	}
}

type ListAuditInput struct {
	Type   string
	Action string
	Page   int
	Limit  int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type AuditListOutput struct {
	Logs       []repo.AuditLogRow `json:"logs"`
	Pagination Pagination         `json:"pagination"`
}

func (u *AuditUsecase) List(ctx context.Context, in ListAuditInput) (AuditListOutput, error) {
	if in.Page < 1 {
		return AuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 200 {
		return AuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	filter := repo.AuditLogFilter{Page: in.Page, Limit: in.Limit}
	if in.Type != "" {
		t := model.AuditType(in.Type)
		filter.Type = &t
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		filter.Action = &a
	}

	rows, total, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return AuditListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pages := int((total + int64(in.Limit) - 1) / int64(in.Limit))

	return AuditListOutput{
		Logs: rows,
		Pagination: Pagination{
			Page:  in.Page,
			Limit: in.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (u *AuditUsecase) GetByID(ctx context.Context, id int64) (repo.AuditLogRow, error) {
	if id <= 0 {
		return repo.AuditLogRow{}, NewHTTPError(http.StatusBadRequest, "invalid audit log id")
	}

	row, err := u.auditRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return repo.AuditLogRow{}, NewHTTPError(http.StatusNotFound, "audit log not found")
	}
	if err != nil {
		return repo.AuditLogRow{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return row, nil
}
