package api

import (
	"errors"
	"strconv"

	"seisan/database"
	"seisan/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CommentHandler コメント処理
type CommentHandler struct{}

// NewCommentHandler コメント処理を生成する
func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// CreateCommentRequest コメント投稿リクエスト
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000" example:"タクシー代の領収書を追加してください"`
}

// List コメント一覧の取得
// @Summary コメント一覧の取得
// @Description 精算に紐づくコメントを作成日時順に取得する
// @Tags コメント
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Success 200 {object} Response{data=[]models.Comment} "取得成功"
// @Failure 403 {object} Response "閲覧権限なし"
// @Failure 404 {object} Response "精算が見つからない"
// @Router /api/v1/settlements/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	var comments []models.Comment
	if err := database.DB.Where("settlement_id = ?", s.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "コメントの取得に失敗しました"))
		return
	}

	Success(c, comments)
}

// Create コメント投稿
// @Summary コメント投稿
// @Description 精算にコメントを投稿する。申請者は編集可能な間、管理者は承認されるまで投稿できる
// @Tags コメント
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param request body CreateCommentRequest true "コメント内容"
// @Success 200 {object} Response{data=models.Comment} "投稿成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 403 {object} Response "投稿できない状態"
// @Router /api/v1/settlements/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	if !s.CanComment(viewer.ID, viewer.Role) {
		Forbidden(c, "この精算にはコメントできません")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "コメントを入力してください"))
		return
	}

	// 投稿者情報は投稿時点のスナップショット
	userName := viewer.FullName
	if userName == "" {
		userName = viewer.Email
	}

	comment := models.Comment{
		SettlementID: s.ID,
		CreatedBy:    viewer.ID,
		UserName:     userName,
		Role:         viewer.Role,
		Text:         req.Text,
	}

	if err := database.DB.Create(&comment).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "コメントの投稿に失敗しました"))
		return
	}

	commentBroker.Publish(s.ID, commentEvent{Type: "created", Comment: &comment})

	SuccessWithMessage(c, "コメントを投稿しました", comment)
}

// Delete コメント削除
// @Summary コメント削除
// @Description コメントを削除する。投稿者本人または管理者が、精算が申請前・差し戻し中の間のみ削除できる
// @Tags コメント
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param commentId path int true "コメントID"
// @Success 200 {object} Response "削除成功"
// @Failure 403 {object} Response "削除できない"
// @Failure 404 {object} Response "コメントが見つからない"
// @Router /api/v1/settlements/{id}/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	// 申請後・承認後のコメントは削除できない
	if !s.CommentsDeletable() {
		Forbidden(c, "申請後のコメントは削除できません")
		return
	}

	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		BadRequest(c, "コメントIDが不正です")
		return
	}

	var comment models.Comment
	if err := database.DB.Where("id = ? AND settlement_id = ?", uint(commentID), s.ID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "コメントが見つかりません")
		} else {
			InternalError(c, SafeErrorMessage(err, "コメントの取得に失敗しました"))
		}
		return
	}

	// 削除できるのは投稿者本人か管理者のみ
	if comment.CreatedBy != viewer.ID && !viewer.IsAdmin() {
		Forbidden(c, "このコメントを削除する権限がありません")
		return
	}

	if err := database.DB.Delete(&comment).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "コメントの削除に失敗しました"))
		return
	}

	commentBroker.Publish(s.ID, commentEvent{Type: "deleted", CommentID: comment.ID})

	SuccessWithMessage(c, "コメントを削除しました", nil)
}

// Stream コメントのライブ配信（SSE）
// @Summary コメントのライブ配信
// @Description 現在のコメント一覧をスナップショットとして送信した後、投稿・削除イベントを順次配信する
// @Tags コメント
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Success 200 {string} string "SSEストリーム: data: {\"type\":\"created\",...}"
// @Failure 403 {object} Response "閲覧権限なし"
// @Router /api/v1/settlements/{id}/comments/stream [get]
func (h *CommentHandler) Stream(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	s, ok := loadSettlementForViewer(c, viewer)
	if !ok {
		return
	}

	// SSE レスポンスヘッダー
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// 切断時に購読を必ず解放する
	events, cancel := commentBroker.Subscribe(s.ID)
	defer cancel()

	// 最初に現在のスナップショットを送る
	var comments []models.Comment
	if err := database.DB.Where("settlement_id = ?", s.ID).
		Order("created_at ASC").
		Find(&comments).Error; err == nil {
		if !writeSSEJSON(c, commentEvent{Type: "snapshot", Comments: comments}) {
			return
		}
	}

	// 以降はイベントを逐次配信する
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !writeSSEJSON(c, ev) {
				return
			}
		}
	}
}
