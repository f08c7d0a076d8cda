package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse は { message: string } の形に寄せます。
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

// "2006-01-02" 形式の日付フィールド用
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func parseDateOptional(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ChemicalRequest は薬品の作成・更新の入力です。
type ChemicalRequest struct {
	Name            string   `json:"name"`
	BatchNumber     string   `json:"batchNumber"`
	Brand           string   `json:"brand"`
	Volume          float64  `json:"volume"`
	InitialQuantity int64    `json:"initialQuantity"`
	CurrentQuantity int64    `json:"currentQuantity"`
	ExpirationDate  string   `json:"expirationDate"`
	DateOfArrival   string   `json:"dateOfArrival"`
	SafetyClass     string   `json:"safetyClass"`
	Location        string   `json:"location"`
	GHSSymbols      []string `json:"ghsSymbols"`
}

// UsageLogRequest は使用記録の入力です。対象の薬品はパスで指定する。
type UsageLogRequest struct {
	Date     string `json:"date"`
	Location string `json:"location"`
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes"`
	Opened   bool   `json:"opened"`
}

// /api/chemicals をまとめる
type ChemicalHandler struct {
	uc *usecase.ChemicalUsecase
}

// DI
func NewChemicalHandler(uc *usecase.ChemicalUsecase) *ChemicalHandler {
	return &ChemicalHandler{uc: uc}
}

// 参照と使用記録は認証のみ、作成・更新・削除はadmin限定
func (h *ChemicalHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/chemicals")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/usage", h.logUsage)

	g.POST("", h.create, middleware.AdminRoleGuard())
	g.PUT("/:id", h.update, middleware.AdminRoleGuard())
	g.DELETE("/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *ChemicalHandler) list(c echo.Context) error {
	rows, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ChemicalHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChemicalHandler) toInput(req ChemicalRequest) (usecase.ChemicalInput, error) {
	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		return usecase.ChemicalInput{}, err
	}
	arrival, err := parseDate(req.DateOfArrival)
	if err != nil {
		return usecase.ChemicalInput{}, err
	}

	return usecase.ChemicalInput{
		Name:            req.Name,
		BatchNumber:     req.BatchNumber,
		Brand:           req.Brand,
		Volume:          req.Volume,
		InitialQuantity: req.InitialQuantity,
		CurrentQuantity: req.CurrentQuantity,
		ExpirationDate:  expiration,
		DateOfArrival:   arrival,
		SafetyClass:     req.SafetyClass,
		Location:        req.Location,
		GHSSymbols:      req.GHSSymbols,
	}, nil
}

func (h *ChemicalHandler) create(c echo.Context) error {
	var req ChemicalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in, err := h.toInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	created, err := h.uc.Create(c.Request().Context(), actorID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ChemicalHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ChemicalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	in, err := h.toInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	updated, err := h.uc.Update(c.Request().Context(), actorID, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ChemicalHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), actorID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Chemical deleted successfully"})
}

func (h *ChemicalHandler) logUsage(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UsageLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
	}

	err = h.uc.LogUsage(c.Request().Context(), actorID, usecase.LogUsageInput{
		ChemicalID: id,
		Date:       date,
		Location:   req.Location,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
		Opened:     req.Opened,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Message: "Usage logged successfully"})
}
