package api

import (
	"seisan/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 収支科目処理
type CategoryHandler struct{}

// NewCategoryHandler 収支科目処理を生成する
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List 収支科目一覧の取得
// @Summary 収支科目一覧の取得
// @Description 固定の収支科目と、科目ごとのサブ科目の選択肢を返す
// @Tags 収支科目
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "取得成功"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	Success(c, models.GetCategories())
}
