package api

import (
	"errors"

	"seisan/config"
	"seisan/database"
	"seisan/middleware"
	"seisan/models"
	"seisan/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OAuthHandler 外部IDプロバイダによるログイン処理
type OAuthHandler struct {
	cfg *config.Config
}

// NewOAuthHandler 外部IDログイン処理を生成する
func NewOAuthHandler(cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{cfg: cfg}
}

// redirectURI コールバックURLを組み立てる
func (h *OAuthHandler) redirectURI() string {
	baseURL := h.cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + h.cfg.Server.Port
	}
	return baseURL + "/api/v1/auth/oauth/callback"
}

// GetOAuthConfig 外部IDログインの設定を取得する
// @Summary 外部IDログイン設定の取得
// @Description 認可URLなど、クライアントがログインを開始するために必要な情報を返す
// @Tags 認証
// @Produce json
// @Success 200 {object} Response "設定情報"
// @Failure 400 {object} Response "外部IDログインが無効"
// @Router /api/v1/auth/oauth/config [get]
func (h *OAuthHandler) GetOAuthConfig(c *gin.Context) {
	oauth := &h.cfg.OAuth
	if !oauth.Enabled || oauth.ClientID == "" {
		BadRequest(c, "外部IDログインは有効になっていません")
		return
	}

	redirectURI := h.redirectURI()
	state := c.Query("state")
	Success(c, gin.H{
		"client_id":    oauth.ClientID,
		"redirect_uri": redirectURI,
		"auth_url":     service.BuildAuthURL(oauth, redirectURI, state),
	})
}

// OAuthCallback 認可コールバック
// @Summary 外部IDログインのコールバック
// @Description 認可コードをトークンに交換してログインする。初回ログイン時はロール user でプロフィールを自動作成する
// @Tags 認証
// @Produce json
// @Param code query string true "認可コード"
// @Success 200 {object} Response{data=LoginResponse} "ログイン成功"
// @Failure 400 {object} Response "認可コードが不正"
// @Failure 500 {object} Response "サーバーエラー"
// @Router /api/v1/auth/oauth/callback [get]
func (h *OAuthHandler) OAuthCallback(c *gin.Context) {
	oauth := &h.cfg.OAuth
	if !oauth.Enabled || oauth.ClientID == "" || oauth.ClientSecret == "" {
		BadRequest(c, "外部IDログインは有効になっていません")
		return
	}

	code := c.Query("code")
	if code == "" {
		BadRequest(c, "認可コードが取得できませんでした")
		return
	}

	tokenData, err := service.ExchangeToken(oauth, code, h.redirectURI())
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "外部IDプロバイダの認証に失敗しました"))
		return
	}

	info, err := service.GetUserInfo(oauth, tokenData.AccessToken)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "ユーザー情報の取得に失敗しました"))
		return
	}

	// sub で既存ユーザーを検索。初回ログイン時は role=user で自動作成する
	// 未登録以外の検索エラーで作成に進むと重複ユーザーができてしまう
	var user models.User
	err = database.DB.Where("oauth_sub = ?", info.Sub).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			InternalError(c, SafeErrorMessage(err, "ユーザーの検索に失敗しました"))
			return
		}
		user = models.User{
			Email:    info.Email,
			FullName: info.Name,
			Role:     models.RoleUser,
			OAuthSub: info.Sub,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "ユーザーの作成に失敗しました"))
			return
		}
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "トークンの生成に失敗しました")
		return
	}

	SuccessWithMessage(c, "ログインしました", LoginResponse{
		Token:    token,
		UserInfo: user,
	})
}
