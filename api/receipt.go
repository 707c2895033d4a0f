package api

import (
	"io"
	"log"
	"strconv"

	"seisan/config"
	"seisan/database"
	"seisan/service"

	"github.com/gin-gonic/gin"
)

// ReceiptHandler 領収書添付処理
type ReceiptHandler struct {
	cfg     *config.Config
	storage *service.ReceiptStorage
}

// NewReceiptHandler 領収書添付処理を生成する
func NewReceiptHandler(cfg *config.Config) *ReceiptHandler {
	return &ReceiptHandler{
		cfg:     cfg,
		storage: service.NewReceiptStorage(cfg),
	}
}

// Upload 領収書アップロード
// @Summary 領収書アップロード
// @Description 指定した明細行に領収書を添付する。成功時は取得URLと表示名が対で保存される
// @Tags 領収書
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param index formData int true "明細行の位置（0始まり）"
// @Param receipt formData file true "領収書ファイル"
// @Success 200 {object} Response{data=service.StoredReceipt} "アップロード成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 403 {object} Response "編集できない状態"
// @Router /api/v1/settlements/{id}/receipts [post]
func (h *ReceiptHandler) Upload(c *gin.Context) {
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

	index, err := strconv.Atoi(c.PostForm("index"))
	if err != nil || index < 0 || index >= len(s.Expenses) {
		BadRequest(c, "明細行の位置が不正です")
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		BadRequest(c, "領収書ファイルを指定してください")
		return
	}

	maxSize := h.cfg.Storage.MaxSizeMB * 1024 * 1024
	if fileHeader.Size > maxSize {
		BadRequest(c, "ファイルサイズが上限を超えています")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "ファイルの読み込みに失敗しました"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "ファイルの読み込みに失敗しました"))
		return
	}
	if int64(len(data)) > maxSize {
		BadRequest(c, "ファイルサイズが上限を超えています")
		return
	}

	stored, err := h.storage.Save(viewer.ID, fileHeader.Filename, data)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "領収書の保存に失敗しました"))
		return
	}

	// URLと表示名を同時に設定して保存する。保存に失敗した場合はファイルを残さない
	oldURL := s.Expenses[index].Receipt
	s.Expenses[index].AttachReceipt(stored.URL, stored.FileName)
	if err := database.DB.Model(s).Update("expenses", s.Expenses).Error; err != nil {
		if rmErr := h.storage.Remove(stored.URL); rmErr != nil {
			log.Printf("アップロード失敗時の後始末に失敗: %v", rmErr)
		}
		InternalError(c, SafeErrorMessage(err, "領収書の保存に失敗しました"))
		return
	}

	// 差し替え時は古いファイルを削除する（失敗してもレコードは正しい）
	if oldURL != "" {
		if err := h.storage.Remove(oldURL); err != nil {
			log.Printf("旧領収書の削除に失敗: %v", err)
		}
	}

	SuccessWithMessage(c, "領収書をアップロードしました", stored)
}

// Clear 領収書のクリア
// @Summary 領収書のクリア
// @Description 指定した明細行の領収書を削除する。取得URLと表示名は必ず同時に空になる
// @Tags 領収書
// @Produce json
// @Security BearerAuth
// @Param id path int true "精算ID"
// @Param index path int true "明細行の位置（0始まり）"
// @Success 200 {object} Response "クリア成功"
// @Failure 400 {object} Response "リクエストが不正"
// @Failure 403 {object} Response "編集できない状態"
// @Router /api/v1/settlements/{id}/receipts/{index} [delete]
func (h *ReceiptHandler) Clear(c *gin.Context) {
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

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(s.Expenses) {
		BadRequest(c, "明細行の位置が不正です")
		return
	}

	oldURL := s.Expenses[index].Receipt
	if oldURL == "" {
		SuccessWithMessage(c, "領収書は添付されていません", nil)
		return
	}

	// URLと表示名を同時に消去して保存する
	s.Expenses[index].ClearReceipt()
	if err := database.DB.Model(s).Update("expenses", s.Expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "領収書のクリアに失敗しました"))
		return
	}

	// 実ファイルの削除はベストエフォート
	if err := h.storage.Remove(oldURL); err != nil {
		log.Printf("領収書ファイルの削除に失敗: %v", err)
	}

	SuccessWithMessage(c, "領収書をクリアしました", nil)
}
