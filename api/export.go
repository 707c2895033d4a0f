package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"seisan/database"
	"seisan/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler エクスポート処理
type ExportHandler struct{}

// NewExportHandler エクスポート処理を生成する
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// loadSettlementsForExport エクスポート対象の精算を取得する
// 一般ユーザーは自分の申請のみ。管理者は全ユーザー分を取得できる
func loadSettlementsForExport(c *gin.Context, viewer *models.User) ([]models.Settlement, bool) {
	query := database.DB.Model(&models.Settlement{})
	if !viewer.IsAdmin() {
		query = query.Where("applicant_id = ?", viewer.ID)
	}

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(status) {
			BadRequest(c, "無効なステータスです: "+status)
			return nil, false
		}
		query = query.Where("status = ?", status)
	}

	var settlements []models.Settlement
	if err := query.Order("created_at DESC").Find(&settlements).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "データの取得に失敗しました"))
		return nil, false
	}
	return settlements, true
}

// ExportCSV 精算の明細を CSV でエクスポートする
// @Summary 精算明細の CSV エクスポート
// @Description 精算に含まれる経費明細を1行1明細の CSV として出力する
// @Tags エクスポート
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "ステータス絞り込み"
// @Success 200 {file} file "CSV ファイル"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	settlements, ok := loadSettlementsForExport(c, viewer)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// Excel で日本語を正しく表示するため BOM を付ける
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"精算ID", "案件名", "申請者", "ステータス", "日付", "取引先", "内容", "科目", "サブ科目", "金額", "通貨", "領収書"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "CSV の生成に失敗しました")
		return
	}

	for _, s := range settlements {
		for _, e := range s.Expenses {
			row := []string{
				fmt.Sprintf("%d", s.ID),
				s.ProjectName,
				s.ApplicantName,
				models.StatusLabel(s.Status),
				e.Date,
				e.Vendor,
				e.Description,
				e.Category,
				e.Subcategory,
				e.Amount,
				e.Currency,
				e.FileName,
			}
			if err := writer.Write(row); err != nil {
				InternalError(c, "CSV の生成に失敗しました")
				return
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "CSV の生成に失敗しました")
		return
	}

	fileName := fmt.Sprintf("settlements_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 精算を JSON でエクスポートする
// @Summary 精算の JSON エクスポート
// @Tags エクスポート
// @Produce json
// @Security BearerAuth
// @Param status query string false "ステータス絞り込み"
// @Success 200 {object} Response{data=[]models.Settlement} "エクスポート成功"
// @Failure 401 {object} Response "未認証"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	settlements, ok := loadSettlementsForExport(c, viewer)
	if !ok {
		return
	}

	Success(c, settlements)
}

// ExportExcel 精算を Excel でエクスポートする（管理者のみ）
// @Summary 精算の Excel エクスポート
// @Description 全ユーザーの精算明細を Excel ファイルとして出力する
// @Tags エクスポート
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "ステータス絞り込み"
// @Success 200 {file} file "Excel ファイル"
// @Failure 403 {object} Response "管理者権限が必要"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	viewer, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "ログインしてください")
		return
	}

	settlements, ok := loadSettlementsForExport(c, viewer)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "精算明細"
	f.SetSheetName("Sheet1", sheetName)

	// ヘッダー行のスタイル
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"精算ID", "案件名", "申請者", "ステータス", "期間", "日付", "取引先", "内容", "科目", "サブ科目", "金額", "通貨", "領収書", "合計金額"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	if err := f.SetCellStyle(sheetName, "A1", "N1", headerStyle); err == nil {
		f.SetRowHeight(sheetName, 1, 22)
	}

	row := 2
	for _, s := range settlements {
		period := s.StartDate + " 〜 " + s.EndDate
		total := s.Total()
		for _, e := range s.Expenses {
			values := []interface{}{
				s.ID, s.ProjectName, s.ApplicantName, models.StatusLabel(s.Status), period,
				e.Date, e.Vendor, e.Description, e.Category, e.Subcategory,
				models.ParseAmount(e.Amount), e.Currency, e.FileName, total,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheetName, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "Excel の生成に失敗しました")
		return
	}

	fileName := fmt.Sprintf("settlements_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
