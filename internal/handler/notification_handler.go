package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UnreadCountResponse はバッジ表示用の未読件数です。
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// /api/notifications をまとめる
type NotificationHandler struct {
	uc *usecase.NotificationUsecase
}

// DI
func NewNotificationHandler(uc *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// スイープの手動実行だけadmin限定
func (h *NotificationHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/notifications")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.PUT("/read-all", h.markAllRead)
	g.PUT("/:id/read", h.markRead)
	g.DELETE("/:id", h.delete)

	g.POST("/sweep", h.sweep, middleware.AdminRoleGuard())
}

func (h *NotificationHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	var isRead *bool
	if v := c.QueryParam("is_read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid is_read"})
		}
		isRead = &b
	}

	rows, err := h.uc.List(c.Request().Context(), usecase.ListNotificationsInput{
		Page:   page,
		Limit:  limit,
		IsRead: isRead,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *NotificationHandler) unreadCount(c echo.Context) error {
	count, err := h.uc.UnreadCount(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) markRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.MarkRead(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Notification marked as read"})
}

func (h *NotificationHandler) markAllRead(c echo.Context) error {
	if err := h.uc.MarkAllRead(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "All notifications marked as read"})
}

func (h *NotificationHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Notification deleted successfully"})
}

// スケジューラ以外からの手動トリガー。
// スイープ自体はベストエフォートなので常に200を返す。
func (h *NotificationHandler) sweep(c echo.Context) error {
	h.uc.RunSweep(c.Request().Context())
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Notification sweep completed"})
}
