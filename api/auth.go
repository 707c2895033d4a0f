package api

import (
	"errors"

	"seisan/config"
	"seisan/database"
	"seisan/middleware"
	"seisan/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 認証処理
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler 認証処理を生成する
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// getCurrentUser JWT の userID から現在のユーザーを取得する
func getCurrentUser(c *gin.Context) (*models.User, error) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		return nil, errors.New("未ログイン")
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterRequest 新規登録リクエスト
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"tanaka@example.com"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	FullName string `json:"full_name" binding:"max=100" example:"田中太郎"`
}

// LoginRequest ログインリクエスト
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"tanaka@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse ログインレスポンス
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// Register 新規登録
// @Summary ユーザー登録
// @Description メールアドレスとパスワードでアカウントを作成する。ロールは user で作成される
// @Tags 認証
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "登録情報"
// @Success 200 {object} Response{data=models.User} "登録成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 500 {object} Response "サーバーエラー"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "入力内容に誤りがあります"))
		return
	}

	// メールアドレスの重複チェック
	var existingUser models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		BadRequest(c, "このメールアドレスは既に登録されています")
		return
	}

	// パスワードのハッシュ化
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "パスワードの処理に失敗しました")
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Role:     models.RoleUser,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "ユーザーの作成に失敗しました"))
		return
	}

	SuccessWithMessage(c, "登録しました", user)
}

// Login ログイン
// @Summary ログイン
// @Description メールアドレスとパスワードでログインし、JWT トークンを取得する
// @Tags 認証
// @Accept json
// @Produce json
// @Param request body LoginRequest true "ログイン情報"
// @Success 200 {object} Response{data=LoginResponse} "ログイン成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 401 {object} Response "メールアドレスまたはパスワードが違います"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "入力内容に誤りがあります"))
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "メールアドレスまたはパスワードが違います")
		return
	}

	if user.Password == "" {
		Unauthorized(c, "このアカウントは外部IDログイン専用です")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "メールアドレスまたはパスワードが違います")
		return
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

// GetProfile プロフィール取得
// @Summary プロフィール取得
// @Description 現在のユーザーのプロフィール（氏名・振込先口座など）を取得する
// @Tags 認証
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "取得成功"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}
	Success(c, user)
}

// UpdateProfileRequest プロフィール更新リクエスト
type UpdateProfileRequest struct {
	FullName   string `json:"full_name" binding:"max=100" example:"田中太郎"`
	Title      string `json:"title" binding:"max=100" example:"営業部"`
	Bank       string `json:"bank" binding:"max=100" example:"三井住友銀行"`
	Branch     string `json:"branch" binding:"max=100" example:"渋谷支店"`
	BankNum    string `json:"bank_num" binding:"max=20" example:"1234567"`
	BankHolder string `json:"bank_holder" binding:"max=100" example:"タナカタロウ"`
}

// UpdateProfile プロフィール更新
// @Summary プロフィール更新
// @Description 氏名・所属・振込先口座情報を更新する
// @Tags 認証
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "プロフィール情報"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "入力内容に誤りがあります"))
		return
	}

	updates := map[string]interface{}{
		"full_name":   req.FullName,
		"title":       req.Title,
		"bank":        req.Bank,
		"branch":      req.Branch,
		"bank_num":    req.BankNum,
		"bank_holder": req.BankHolder,
	}
	if err := database.DB.Model(user).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "プロフィールの更新に失敗しました"))
		return
	}

	SuccessWithMessage(c, "プロフィールを更新しました", user)
}

// ChangePasswordRequest パスワード変更リクエスト
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=50"`
}

// ChangePassword パスワード変更
// @Summary パスワード変更
// @Tags 認証
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "パスワード変更情報"
// @Success 200 {object} Response "変更成功"
// @Failure 400 {object} Response "現在のパスワードが違います"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "入力内容に誤りがあります"))
		return
	}

	if user.Password == "" {
		BadRequest(c, "このアカウントは外部IDログイン専用です")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		BadRequest(c, "現在のパスワードが違います")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "パスワードの処理に失敗しました")
		return
	}

	if err := database.DB.Model(user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "パスワードの更新に失敗しました"))
		return
	}

	SuccessWithMessage(c, "パスワードを変更しました", nil)
}
