package google

import (
	"context"
	"fmt"

	"app/internal/usecase"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	goog "golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleのOAuth2クライアント。
// usecase.GoogleOAuthClientの実装。
type Client struct {
	cfg  *oauth2.Config
	http *resty.Client
}

// DI
func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     goog.Endpoint,
		},
		http: resty.New(),
	}
}

func (c *Client) AuthCodeURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

// 認可コードをトークンに交換してuserinfoを取得する。
func (c *Client) FetchUser(ctx context.Context, code string) (usecase.GoogleUserInfo, error) {
	tok, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return usecase.GoogleUserInfo{}, fmt.Errorf("exchange code: %w", err)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetResult(&info).
		Get(userinfoURL)
	if err != nil {
		return usecase.GoogleUserInfo{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if resp.IsError() {
		return usecase.GoogleUserInfo{}, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode())
	}
	if info.Sub == "" || info.Email == "" {
		return usecase.GoogleUserInfo{}, fmt.Errorf("fetch userinfo: incomplete profile")
	}

	return usecase.GoogleUserInfo{
		ID:    info.Sub,
		Email: info.Email,
		Name:  info.Name,
	}, nil
}
