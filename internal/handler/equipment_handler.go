package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// EquipmentRequest は機器の作成・更新の入力です。
type EquipmentRequest struct {
	Name               string `json:"name"`
	Model              string `json:"model"`
	SerialID           string `json:"serial_id"`
	Status             string `json:"status"`
	Location           string `json:"location"`
	PurchaseDate       string `json:"purchase_date"`
	WarrantyExpiration string `json:"warranty_expiration"`
	Condition          string `json:"condition"`
	AssignedUserID     *int64 `json:"assigned_user_id"`
}

// MaintenanceLogRequest はメンテ記録の入力です。対象の機器はパスで指定する。
type MaintenanceLogRequest struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// /api/equipment をまとめる
type EquipmentHandler struct {
	uc *usecase.EquipmentUsecase
}

// DI
func NewEquipmentHandler(uc *usecase.EquipmentUsecase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// 参照とメンテ記録は認証のみ、作成・更新・削除はadmin限定
func (h *EquipmentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/equipment")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/maintenance", h.logMaintenance)

	g.POST("", h.create, middleware.AdminRoleGuard())
	g.PUT("/:id", h.update, middleware.AdminRoleGuard())
	g.DELETE("/:id", h.delete, middleware.AdminRoleGuard())
}

func (h *EquipmentHandler) list(c echo.Context) error {
	rows, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *EquipmentHandler) detail(c echo.Context) error {
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

func (h *EquipmentHandler) toInput(req EquipmentRequest) (usecase.EquipmentInput, error) {
	purchase, err := parseDateOptional(req.PurchaseDate)
	if err != nil {
		return usecase.EquipmentInput{}, err
	}
	warranty, err := parseDateOptional(req.WarrantyExpiration)
	if err != nil {
		return usecase.EquipmentInput{}, err
	}

	return usecase.EquipmentInput{
		Name:               req.Name,
		Model:              req.Model,
		SerialID:           req.SerialID,
		Status:             req.Status,
		Location:           req.Location,
		PurchaseDate:       purchase,
		WarrantyExpiration: warranty,
		Condition:          req.Condition,
		AssignedUserID:     req.AssignedUserID,
	}, nil
}

func (h *EquipmentHandler) create(c echo.Context) error {
	var req EquipmentRequest
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

func (h *EquipmentHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req EquipmentRequest
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

func (h *EquipmentHandler) delete(c echo.Context) error {
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
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Equipment deleted successfully"})
}

func (h *EquipmentHandler) logMaintenance(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req MaintenanceLogRequest
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

	err = h.uc.LogMaintenance(c.Request().Context(), actorID, usecase.LogMaintenanceInput{
		EquipmentID: id,
		Date:        date,
		Action:      req.Action,
		Notes:       req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Message: "Maintenance logged successfully"})
}
