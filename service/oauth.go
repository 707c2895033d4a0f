package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"seisan/config"
)

// OAuthTokenData 外部IDプロバイダの token レスポンス
type OAuthTokenData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	IDToken     string `json:"id_token"`
	Scope       string `json:"scope"`
}

// OAuthUserInfo 外部IDプロバイダのユーザー情報
type OAuthUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BuildAuthURL 認可エンドポイントのURLを組み立てる
func BuildAuthURL(cfg *config.OAuthConfig, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "openid profile email")
	if state != "" {
		q.Set("state", state)
	}
	return cfg.AuthURL + "?" + q.Encode()
}

// ExchangeToken 認可コードをアクセストークンに交換する
// token エンドポイントは application/x-www-form-urlencoded を要求する
func ExchangeToken(cfg *config.OAuthConfig, code, redirectURI string) (*OAuthTokenData, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequest("POST", cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("IDプロバイダへのリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み込みに失敗: %w", err)
	}

	var tokenData OAuthTokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return nil, fmt.Errorf("レスポンスの解析に失敗: %w", err)
	}
	if tokenData.AccessToken == "" {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(data, &errResp)
		msg := errResp.ErrorDescription
		if msg == "" {
			msg = string(data)
		}
		return nil, fmt.Errorf("IDプロバイダがエラーを返しました: %s", msg)
	}

	return &tokenData, nil
}

// GetUserInfo アクセストークンでユーザー情報を取得する
func GetUserInfo(cfg *config.OAuthConfig, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequest("GET", cfg.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ユーザー情報の取得に失敗: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み込みに失敗: %w", err)
	}

	var info OAuthUserInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("レスポンスの解析に失敗: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("ユーザー情報の取得に失敗しました: %s", string(data))
	}

	return &info, nil
}
