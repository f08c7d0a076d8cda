package handler

import (
	"net/http"
	"net/url"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const stateCookieName = "oauth_state"

// /api/auth をまとめる。ログインはGoogle OAuthのみ。
type AuthHandler struct {
	uc          *usecase.AuthUsecase
	frontendURL string
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase, frontendURL string) *AuthHandler {
	return &AuthHandler{uc: uc, frontendURL: frontendURL}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/auth")

	g.GET("/google", h.googleLogin)
	g.GET("/google/callback", h.googleCallback)
	g.GET("/verify", h.verify, middleware.AuthJWT(cfg))
}

// CSRF対策のstateをcookieに置いてGoogleへリダイレクト。
func (h *AuthHandler) googleLogin(c echo.Context) error {
	state := uuid.NewString()

	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(http.StatusTemporaryRedirect, h.uc.LoginURL(state))
}

// Googleからのコールバック。
// 成否はJSONではなくフロントへのリダイレクトで返す。
func (h *AuthHandler) googleCallback(c echo.Context) error {
	cookie, err := c.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return h.redirectError(c)
	}

	// stateは使い捨て
	c.SetCookie(&http.Cookie{
		Name:    stateCookieName,
		Value:   "",
		Path:    "/api/auth",
		Expires: time.Unix(0, 0),
	})

	out, err := h.uc.HandleCallback(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return h.redirectError(c)
	}

	return c.Redirect(http.StatusTemporaryRedirect,
		h.frontendURL+"/auth/success?token="+url.QueryEscape(out.Token))
}

func (h *AuthHandler) redirectError(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=auth_failed")
}

// トークンが有効か＋ユーザーがまだ存在するかの確認。
func (h *AuthHandler) verify(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.uc.Verify(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
