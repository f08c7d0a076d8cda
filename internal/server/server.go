package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers はルート登録する全ハンドラ。
type Handlers struct {
	Auth         *handler.AuthHandler
	Chemical     *handler.ChemicalHandler
	Equipment    *handler.EquipmentHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
	Audit        *handler.AuditHandler
}

// New はechoを組み立てる。起動はしない。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg)
	h.Chemical.RegisterRoutes(e, cfg)
	h.Equipment.RegisterRoutes(e, cfg)
	h.User.RegisterRoutes(e, cfg)
	h.Notification.RegisterRoutes(e, cfg)
	h.Audit.RegisterRoutes(e, cfg)

	return e
}
