package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo is the subset of Google's userinfo payload the identity
// layer consumes.
type UserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthCodeURL builds the consent-screen redirect. Offline access plus
// forced consent is what makes Google return a refresh token.
func (client *Client) AuthCodeURL(state string) string {
	return client.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent select_account"),
	)
}

// ExchangeCode trades the authorization code for tokens.
func (client *Client) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := client.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// FetchUserInfo resolves the authenticated Google profile for the token.
func (client *Client) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	httpClient := client.oauth.Client(ctx, token)
	httpClient.Timeout = apiTimeout

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unmarshal userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo missing id or email")
	}
	return &info, nil
}
