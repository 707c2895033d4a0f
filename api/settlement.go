package api

import (
	"errors"
	"log"
	"strconv"
	"time"

	"seisan/config"
	"seisan/database"
	"seisan/models"
	"seisan/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettlementHandler 精算申請処理
type SettlementHandler struct {
	cfg          *config.Config
	emailService *service.EmailService
}

// NewSettlementHandler 精算申請処理を生成する
func NewSettlementHandler(cfg *config.Config) *SettlementHandler {
	return &SettlementHandler{
		cfg:          cfg,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// SettlementRequest 精算の作成・保存リクエスト
type SettlementRequest struct {
	ProjectName string             `json:"project_name" binding:"required,max=255" example:"大阪出張"`
	StartDate   string             `json:"start_date" binding:"required" example:"2026-08-01"`
	EndDate     string             `json:"end_date" binding:"required" example:"2026-08-03"`
	Expenses    models.ExpenseList `json:"expenses"`
}

// SettlementListRequest 精算一覧リクエスト
type SettlementListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"10"`
	Status   string `form:"status" example:"submitted"`
}

// SettlementView 閲覧者のロールに応じた派生情報付きの精算レスポンス
type SettlementView struct {
	models.Settlement
	StatusLabel      string   `json:"status_label"`
	Total            float64  `json:"total"`
	IsEditable       bool     `json:"is_editable"`
	AvailableActions []string `json:"available_actions"`
	CanComment       bool     `json:"can_comment"`
}

// newSettlementView 精算と閲覧者から表示用の派生情報を計算する
func newSettlementView(s *models.Settlement, viewer *models.User) SettlementView {
	actions := s.AvailableActions(viewer.ID, viewer.Role)
	if actions == nil {
		actions = []string{}
	}
	return SettlementView{
		Settlement:       *s,
		StatusLabel:      models.StatusLabel(s.Status),
		Total:            s.Total(),
		IsEditable:       s.IsEditableBy(viewer.ID, viewer.Role),
		AvailableActions: actions,
		CanComment:       s.CanComment(viewer.ID, viewer.Role),
	}
}

// loadSettlementForViewer 精算を取得し、閲覧権限（本人または管理者）を確認する
func loadSettlementForViewer(c *gin.Context, viewer *models.User) (*models.Settlement, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "IDが不正です")
		return nil, false
	}

	var s models.Settlement
	if err := database.DB.First(&s, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "精算が見つかりません")
		} else {
			InternalError(c, SafeErrorMessage(err, "精算の取得に失敗しました"))
		}
		return nil, false
	}

	if !s.IsOwner(viewer.ID) && !viewer.IsAdmin() {
		Forbidden(c, "この精算を閲覧する権限がありません")
		return nil, false
	}
	return &s, true
}

// Create 精算の新規作成（下書き）
// @Summary 精算の作成
// @Description 新しい精算申請を編集中の状態で作成する。案件名・開始日・終了日は必須
// @Tags 精算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettlementRequest true "精算情報"
// @Success 200 {object} Response{data=SettlementView} "作成成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/settlements [post]
func (h *SettlementHandler) Create(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	var req SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "案件名・開始日・終了日を入力してください"))
		return
	}

	req.Expenses.Normalize()
	if err := req.Expenses.Validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	// 申請者名は作成時点のスナップショット
	applicantName := viewer.FullName
	if applicantName == "" {
		applicantName = viewer.Email
	}

	s := models.Settlement{
		ApplicantID:   viewer.ID,
		ApplicantName: applicantName,
		ProjectName:   req.ProjectName,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.StatusDraft,
		Expenses:      req.Expenses,
	}

	if err := s.ValidateHeader(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Create(&s).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "精算の作成に失敗しました"))
		return
	}

	SuccessWithMessage(c, "下書きを保存しました", newSettlementView(&s, viewer))
}

// List 精算一覧の取得
// @Summary 精算一覧の取得
// @Description 自分の精算一覧を取得する。管理者は全ユーザーの精算を取得できる
// @Tags 精算
// @Produce json
// @Security BearerAuth
// @Param page query int false "ページ番号" default(1)
// @Param page_size query int false "ページサイズ" default(10)
// @Param status query string false "ステータス絞り込み (draft / submitted / returned / approved)"
// @Success 200 {object} Response{data=PageResponse{list=[]SettlementView}} "取得成功"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/settlements [get]
func (h *SettlementHandler) List(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	var req SettlementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "検索条件が不正です"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Settlement{})

	// 管理者は全件、一般ユーザーは自分の申請のみ
	if !viewer.IsAdmin() {
		query = query.Where("applicant_id = ?", viewer.ID)
	}

	if req.Status != "" {
		if !models.IsValidStatus(req.Status) {
			BadRequest(c, "無効なステータスです: "+req.Status)
			return
		}
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "件数の取得に失敗しました"))
		return
	}

	var settlements []models.Settlement
	if err := query.Order("created_at DESC").
		Offset((req.Page - 1) * req.PageSize).
		Limit(req.PageSize).
		Find(&settlements).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "精算一覧の取得に失敗しました"))
		return
	}

	views := make([]SettlementView, 0, len(settlements))
	for i := range settlements {
		views = append(views, newSettlementView(&settlements[i], viewer))
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     views,
	})
}

// Get 精算詳細の取得
// @Summary 精算詳細の取得
// @Description 精算の詳細と、閲覧者が実行できる操作を取得する
// @Tags 精算
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Success 200 {object} Response{data=SettlementView} "取得成功"
// @Failure 403 {object} Response "閲覧権限なし"
// @Failure 404 {object} Response "精算が見つからない"
// @Router /api/v1/settlements/{id} [get]
func (h *SettlementHandler) Get(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	Success(c, newSettlementView(s, viewer))
}

// Update 下書き保存
// @Summary 精算の下書き保存
// @Description ヘッダー項目と経費明細リスト全体を保存する。編集中・差し戻しの申請者本人のみ可能
// @Tags 精算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param request body SettlementRequest true "精算情報"
// @Success 200 {object} Response{data=SettlementView} "保存成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 403 {object} Response "編集できない状態"
// @Router /api/v1/settlements/{id} [put]
func (h *SettlementHandler) Update(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	if !s.IsEditableBy(viewer.ID, viewer.Role) {
		Forbidden(c, "この精算は編集できない状態です")
		return
	}

	var req SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "案件名・開始日・終了日を入力してください"))
		return
	}

	req.Expenses.Normalize()
	if err := req.Expenses.Validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	s.ProjectName = req.ProjectName
	s.StartDate = req.StartDate
	s.EndDate = req.EndDate
	s.Expenses = req.Expenses

	if err := s.ValidateHeader(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Model(s).Updates(map[string]interface{}{
		"project_name": s.ProjectName,
		"start_date":   s.StartDate,
		"end_date":     s.EndDate,
		"expenses":     s.Expenses,
	}).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "精算の保存に失敗しました"))
		return
	}

	SuccessWithMessage(c, "下書きを保存しました", newSettlementView(s, viewer))
}

// Submit 申請
// @Summary 精算の申請
// @Description 編集中・差し戻しの精算を申請する。ヘッダー項目と明細1件以上が必要
// @Tags 精算
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Success 200 {object} Response{data=SettlementView} "申請成功"
// @Failure 400 {object} Response "入力不足"
// @Failure 409 {object} Response "状態が変更済み"
// @Router /api/v1/settlements/{id}/submit [post]
func (h *SettlementHandler) Submit(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	if !s.IsOwner(viewer.ID) {
		Forbidden(c, "申請できるのは申請者本人のみです")
		return
	}

	if err := s.ValidateForSubmit(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	// 二重申請の防止: 現在のステータスを条件にした更新のみ成功させる
	now := time.Now()
	result := database.DB.Model(&models.Settlement{}).
		Where("id = ? AND status IN ?", s.ID, []string{models.StatusDraft, models.StatusReturned}).
		Updates(map[string]interface{}{
			"status":       models.StatusSubmitted,
			"submitted_at": now,
		})
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "申請に失敗しました"))
		return
	}
	if result.RowsAffected == 0 {
		Conflict(c, "この精算は申請できない状態です")
		return
	}

	s.Status = models.StatusSubmitted
	s.SubmittedAt = &now
	SuccessWithMessage(c, "申請しました", newSettlementView(s, viewer))
}

// ReviewRequest 承認・差し戻しリクエスト
type ReviewRequest struct {
	Comment string `json:"comment" binding:"max=1000" example:"領収書を添付してください"`
}

// Approve 承認（管理者のみ）
// @Summary 精算の承認
// @Description 申請中の精算を承認する。承認後は誰も編集できない
// @Tags 精算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param request body ReviewRequest false "審査コメント（任意）"
// @Success 200 {object} Response{data=SettlementView} "承認成功"
// @Failure 403 {object} Response "管理者権限が必要"
// @Failure 409 {object} Response "状態が変更済み"
// @Router /api/v1/settlements/{id}/approve [post]
func (h *SettlementHandler) Approve(c *gin.Context) {
	h.review(c, models.StatusApproved, "承認しました")
}

// Return 差し戻し（管理者のみ）
// @Summary 精算の差し戻し
// @Description 申請中の精算を差し戻す。差し戻し後は申請者が再編集・再申請できる
// @Tags 精算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param request body ReviewRequest false "審査コメント（任意）"
// @Success 200 {object} Response{data=SettlementView} "差し戻し成功"
// @Failure 403 {object} Response "管理者権限が必要"
// @Failure 409 {object} Response "状態が変更済み"
// @Router /api/v1/settlements/{id}/return [post]
func (h *SettlementHandler) Return(c *gin.Context) {
	h.review(c, models.StatusReturned, "差し戻しました")
}

// review 承認・差し戻しの共通処理
// 差し戻しはステータス変更のみで、申請者の入力項目には触れない
func (h *SettlementHandler) review(c *gin.Context, newStatus, message string) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, SafeErrorMessage(err, "入力内容に誤りがあります"))
			return
		}
	}

	// 二重承認の防止: 申請中の場合のみ遷移させる
	result := database.DB.Model(&models.Settlement{}).
		Where("id = ? AND status = ?", s.ID, models.StatusSubmitted).
		Update("status", newStatus)
	if result.Error != nil {
		InternalError(c, SafeErrorMessage(result.Error, "更新に失敗しました"))
		return
	}
	if result.RowsAffected == 0 {
		Conflict(c, "この精算は申請中ではありません")
		return
	}
	s.Status = newStatus

	// 審査コメントがあればコメントとして記録する
	if req.Comment != "" {
		comment := models.Comment{
			SettlementID: s.ID,
			CreatedBy:    viewer.ID,
			UserName:     viewer.FullName,
			Role:         viewer.Role,
			Text:         req.Comment,
		}
		if err := database.DB.Create(&comment).Error; err != nil {
			log.Printf("審査コメントの保存に失敗: %v", err)
		} else {
			commentBroker.Publish(s.ID, commentEvent{Type: "created", Comment: &comment})
		}
	}

	// 申請者へメール通知（失敗しても処理は継続する）
	if h.cfg.Email.Enabled {
		var applicant models.User
		if err := database.DB.First(&applicant, s.ApplicantID).Error; err == nil && applicant.Email != "" {
			if err := h.emailService.SendStatusNotification(
				applicant.Email, s.ApplicantName, s.ProjectName,
				models.StatusLabel(newStatus), req.Comment,
			); err != nil {
				log.Printf("ステータス通知メールの送信に失敗: %v", err)
			}
		}
	}

	SuccessWithMessage(c, message, newSettlementView(s, viewer))
}
