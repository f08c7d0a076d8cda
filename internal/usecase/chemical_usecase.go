package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ChemicalUsecase struct {
	chemicalRepo repo.ChemicalRepository
	audit        *AuditUsecase

	// trueなら在庫を超える使用を拒否する。デフォルトは従来どおり許容。
	enforceNonNegativeStock bool
}

// DI
func NewChemicalUsecase(
	chemicalRepo repo.ChemicalRepository,
	audit *AuditUsecase,
	enforceNonNegativeStock bool,
) *ChemicalUsecase {
	return &ChemicalUsecase{
		chemicalRepo:            chemicalRepo,
		audit:                   audit,
		enforceNonNegativeStock: enforceNonNegativeStock,
	}
}

func (u *ChemicalUsecase) List(ctx context.Context) ([]repo.ChemicalListRow, error) {
	rows, err := u.chemicalRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}

// 詳細＝本体＋使用記録。
type ChemicalDetailOutput struct {
	model.Chemical
	UsageLog []repo.UsageLogRow `json:"usage_log"`
}

func (u *ChemicalUsecase) GetDetail(ctx context.Context, chemicalID int64) (ChemicalDetailOutput, error) {
	if chemicalID <= 0 {
		return ChemicalDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid chemical id")
	}

	c, err := u.chemicalRepo.FindByID(ctx, chemicalID)
	if err == repo.ErrNotFound {
		return ChemicalDetailOutput{}, NewHTTPError(http.StatusNotFound, "chemical not found")
	}
	if err != nil {
		return ChemicalDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logs, err := u.chemicalRepo.ListUsageLogs(ctx, chemicalID)
	if err != nil {
		return ChemicalDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ChemicalDetailOutput{Chemical: c, UsageLog: logs}, nil
}

type ChemicalInput struct {
	Name            string
	BatchNumber     string
	Brand           string
	Volume          float64
	InitialQuantity int64
	CurrentQuantity int64
	ExpirationDate  time.Time
	DateOfArrival   time.Time
	SafetyClass     string
	Location        string
	GHSSymbols      []string
}

func validateChemicalInput(in ChemicalInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.BatchNumber) == "" {
		return NewHTTPError(http.StatusBadRequest, "batch number required")
	}
	if in.InitialQuantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "initial quantity must be at least 1")
	}
	if in.CurrentQuantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "current quantity must be >= 0")
	}
	if in.ExpirationDate.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "expiration date required")
	}
	if in.DateOfArrival.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "date of arrival required")
	}

	switch model.SafetyClass(in.SafetyClass) {
	case model.SafetyClassSafe, model.SafetyClassToxic, model.SafetyClassCorrosive,
		model.SafetyClassReactive, model.SafetyClassFlammable:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid safety class")
	}

	return nil
}

func (u *ChemicalUsecase) Create(ctx context.Context, actorID int64, in ChemicalInput) (model.Chemical, error) {
	if actorID <= 0 {
		return model.Chemical{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateChemicalInput(in); err != nil {
		return model.Chemical{}, err
	}

	c, err := u.chemicalRepo.Create(ctx, model.Chemical{
		Name:            strings.TrimSpace(in.Name),
		BatchNumber:     strings.TrimSpace(in.BatchNumber),
		Brand:           in.Brand,
		Volume:          in.Volume,
		InitialQuantity: in.InitialQuantity,
		CurrentQuantity: in.CurrentQuantity,
		ExpirationDate:  in.ExpirationDate,
		DateOfArrival:   in.DateOfArrival,
		SafetyClass:     model.SafetyClass(in.SafetyClass),
		Location:        in.Location,
		GHSSymbols:      in.GHSSymbols,
	})
	if err != nil {
		return model.Chemical{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeChemical, model.AuditActionAdd, c.Name, actorID, map[string]any{
		"batchNumber": c.BatchNumber,
		"quantity":    c.InitialQuantity,
	})

	return c, nil
}

func (u *ChemicalUsecase) Update(ctx context.Context, actorID int64, chemicalID int64, in ChemicalInput) (model.Chemical, error) {
	if actorID <= 0 {
		return model.Chemical{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if chemicalID <= 0 {
		return model.Chemical{}, NewHTTPError(http.StatusBadRequest, "invalid chemical id")
	}
	if err := validateChemicalInput(in); err != nil {
		return model.Chemical{}, err
	}

	err := u.chemicalRepo.Update(ctx, model.Chemical{
		ID:              chemicalID,
		Name:            strings.TrimSpace(in.Name),
		BatchNumber:     strings.TrimSpace(in.BatchNumber),
		Brand:           in.Brand,
		Volume:          in.Volume,
		InitialQuantity: in.InitialQuantity,
		CurrentQuantity: in.CurrentQuantity,
		ExpirationDate:  in.ExpirationDate,
		DateOfArrival:   in.DateOfArrival,
		SafetyClass:     model.SafetyClass(in.SafetyClass),
		Location:        in.Location,
		GHSSymbols:      in.GHSSymbols,
	})
	if err == repo.ErrNotFound {
		return model.Chemical{}, NewHTTPError(http.StatusNotFound, "chemical not found")
	}
	if err != nil {
		return model.Chemical{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeChemical, model.AuditActionUpdate, strings.TrimSpace(in.Name), actorID, map[string]any{
		"batchNumber": strings.TrimSpace(in.BatchNumber),
		"quantity":    in.CurrentQuantity,
	})

	c, err := u.chemicalRepo.FindByID(ctx, chemicalID)
	if err != nil {
		return model.Chemical{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *ChemicalUsecase) Delete(ctx context.Context, actorID int64, chemicalID int64) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if chemicalID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid chemical id")
	}

	// 監査用に名前をスナップショットしてから消す
	c, err := u.chemicalRepo.FindByID(ctx, chemicalID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "chemical not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.chemicalRepo.Delete(ctx, chemicalID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "chemical not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, model.AuditTypeChemical, model.AuditActionDelete, c.Name, actorID, map[string]any{
		"batchNumber": c.BatchNumber,
	})

	return nil
}

type LogUsageInput struct {
	ChemicalID int64
	Date       time.Time
	Location   string
	Quantity   int64
	Notes      string
	Opened     bool
}

// 使用記録を挿入し、在庫をquantity分だけ減らす。
// 既定では在庫を超える使用も止めない（マイナス在庫を許容）。
func (u *ChemicalUsecase) LogUsage(ctx context.Context, actorID int64, in LogUsageInput) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ChemicalID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid chemical id")
	}
	if in.Quantity < 1 {
		return NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}
	if in.Date.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "date required")
	}

	// 監査用に名前を取っておく
	c, err := u.chemicalRepo.FindByID(ctx, in.ChemicalID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "chemical not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	log := model.ChemicalUsageLog{
		ChemicalID: in.ChemicalID,
		UserID:     actorID,
		Date:       in.Date,
		Location:   in.Location,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
		Opened:     in.Opened,
	}

	if u.enforceNonNegativeStock {
		ok, err := u.chemicalRepo.LogUsageIfEnough(ctx, log)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "chemical not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "insufficient quantity")
		}
	} else {
		err := u.chemicalRepo.LogUsage(ctx, log)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "chemical not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	u.audit.Record(ctx, model.AuditTypeChemical, model.AuditActionUsage, c.Name, actorID, map[string]any{
		"quantity": in.Quantity,
		"location": in.Location,
		"date":     in.Date.Format("2006-01-02"),
	})

	return nil
}
