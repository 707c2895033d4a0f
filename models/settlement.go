package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// 精算ステータス
// DB には安定したトークンで保存し、表示名は StatusLabel で引く
const (
	StatusDraft     = "draft"     // 編集中
	StatusSubmitted = "submitted" // 申請中
	StatusReturned  = "returned"  // 差し戻し
	StatusApproved  = "approved"  // 承認済み（終端状態）
)

// statusLabels ステータスの表示名
var statusLabels = map[string]string{
	StatusDraft:     "編集中",
	StatusSubmitted: "申請中",
	StatusReturned:  "差し戻し",
	StatusApproved:  "承認済み",
}

// StatusLabel ステータスの表示名を返す。未知のトークンはそのまま返す
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// IsValidStatus ステータストークンが有効か
func IsValidStatus(status string) bool {
	_, ok := statusLabels[status]
	return ok
}

// 精算に対する操作
const (
	ActionSaveDraft = "save_draft"
	ActionSubmit    = "submit"
	ActionApprove   = "approve"
	ActionReturn    = "return"
)

// 通貨
const (
	CurrencyJPY = "JPY"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// IsValidCurrency 通貨コードが有効か
func IsValidCurrency(currency string) bool {
	switch currency {
	case CurrencyJPY, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// MaxExpenseRows 1つの精算に登録できる経費明細の上限
const MaxExpenseRows = 30

// Expense 経費明細（精算に埋め込まれる子要素。単独の識別子は持たない）
// receipt と fileName は両方設定されるか両方空かのどちらかになる
type Expense struct {
	Date        string `json:"date"`
	Vendor      string `json:"vendor"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Amount      string `json:"amount"` // 文字列で保持し、集計時のみ数値に解釈する
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`  // アップロード済み領収書の取得URL
	FileName    string `json:"fileName"` // 領収書の表示名
}

// HasReceipt 領収書が添付されているか
func (e *Expense) HasReceipt() bool {
	return e.Receipt != "" && e.FileName != ""
}

// AttachReceipt 領収書のURLと表示名を同時に設定する
func (e *Expense) AttachReceipt(url, fileName string) {
	e.Receipt = url
	e.FileName = fileName
}

// ClearReceipt 領収書のURLと表示名を同時に消去する
func (e *Expense) ClearReceipt() {
	e.Receipt = ""
	e.FileName = ""
}

// ParseAmount 金額文字列を数値として解釈する。解釈できない場合は 0
// 明細は金額が数値でなくても拒否されず、集計時に 0 として扱われる
// NaN や Inf は合計を有限値でなくし JSON 化もできなくなるため 0 として扱う
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ExpenseList 経費明細の順序付きリスト。親の精算レコードに JSON カラムとして保存される
type ExpenseList []Expense

// Add 明細を末尾に追加する。上限超過はエラー
func (l *ExpenseList) Add(e Expense) error {
	if len(*l) >= MaxExpenseRows {
		return fmt.Errorf("明細は最大 %d 行までです", MaxExpenseRows)
	}
	*l = append(*l, e)
	return nil
}

// UpdateAt 指定位置の明細を置き換える
func (l ExpenseList) UpdateAt(index int, e Expense) error {
	if index < 0 || index >= len(l) {
		return errors.New("明細の位置が不正です")
	}
	l[index] = e
	return nil
}

// RemoveAt 指定位置の明細を削除する
func (l *ExpenseList) RemoveAt(index int) error {
	if index < 0 || index >= len(*l) {
		return errors.New("明細の位置が不正です")
	}
	*l = append((*l)[:index], (*l)[index+1:]...)
	return nil
}

// Total 金額の合計を返す。空リストは 0、数値でない金額は 0 として加算する
func (l ExpenseList) Total() float64 {
	var total float64
	for _, e := range l {
		total += ParseAmount(e.Amount)
	}
	return total
}

// Normalize 科目とサブ科目の整合性を保つ
// サブ科目が現在の科目の選択肢に属さない場合は空に戻す（科目変更時のクリアに相当）
func (l ExpenseList) Normalize() {
	for i := range l {
		if !IsValidSubcategory(l[i].Category, l[i].Subcategory) {
			l[i].Subcategory = ""
		}
		if l[i].Currency == "" {
			l[i].Currency = CurrencyJPY
		}
	}
}

// Validate 明細の内容を検証する
func (l ExpenseList) Validate() error {
	if len(l) > MaxExpenseRows {
		return fmt.Errorf("明細は最大 %d 行までです", MaxExpenseRows)
	}
	for i, e := range l {
		if e.Category != "" && !IsValidCategory(e.Category) {
			return fmt.Errorf("%d 行目: 無効な科目です: %s", i+1, e.Category)
		}
		if e.Subcategory != "" && e.Category == "" {
			return fmt.Errorf("%d 行目: 科目を選択せずにサブ科目は指定できません", i+1)
		}
		if !IsValidSubcategory(e.Category, e.Subcategory) {
			return fmt.Errorf("%d 行目: サブ科目 %s は科目 %s の選択肢にありません", i+1, e.Subcategory, e.Category)
		}
		if e.Currency != "" && !IsValidCurrency(e.Currency) {
			return fmt.Errorf("%d 行目: 無効な通貨です: %s", i+1, e.Currency)
		}
		// 領収書はURLと表示名が必ず対で保存される
		if (e.Receipt == "") != (e.FileName == "") {
			return fmt.Errorf("%d 行目: 領収書の情報が不完全です", i+1)
		}
	}
	return nil
}

// Settlement 精算申請モデル
// 経費明細リストは親と一体で保存され、明細単位の永続化は行わない
type Settlement struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	ApplicantID   uint           `json:"applicant_id" gorm:"index;not null"` // 作成後は変更不可
	ApplicantName string         `json:"applicant_name" gorm:"size:100"`     // 申請時点の表示名スナップショット
	ProjectName   string         `json:"project_name" gorm:"size:255"`
	StartDate     string         `json:"start_date" gorm:"size:10"`
	EndDate       string         `json:"end_date" gorm:"size:10"`
	Status        string         `json:"status" gorm:"size:20;default:draft;index"`
	SubmittedAt   *time.Time     `json:"submitted_at"`
	Expenses      ExpenseList    `json:"expenses" gorm:"serializer:json;type:json"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	Applicant     User           `json:"-" gorm:"foreignKey:ApplicantID"`
}

// TableName テーブル名を設定
func (Settlement) TableName() string {
	return "settlements"
}

// IsOwner 指定ユーザーが申請者本人か
func (s *Settlement) IsOwner(userID uint) bool {
	return s.ApplicantID == userID
}

// IsEditableBy 申請者本人かつ編集中・差し戻しの場合のみ編集可能
// 承認済みは誰にとっても編集不可。管理者は申請者の入力欄を直接編集しない
func (s *Settlement) IsEditableBy(userID uint, role string) bool {
	if !s.IsOwner(userID) {
		return false
	}
	return s.Status == StatusDraft || s.Status == StatusReturned
}

// AvailableActions 閲覧者が実行できる操作の一覧
// 申請者: 編集中・差し戻しで下書き保存と申請。管理者: 申請中で承認と差し戻し
func (s *Settlement) AvailableActions(userID uint, role string) []string {
	var actions []string
	if s.IsEditableBy(userID, role) {
		actions = append(actions, ActionSaveDraft, ActionSubmit)
	}
	if role == RoleAdmin && s.Status == StatusSubmitted {
		actions = append(actions, ActionApprove, ActionReturn)
	}
	return actions
}

// CanComment コメントを投稿できるか
// 申請者は編集可能な間のみ。管理者は承認済みになるまで投稿できる
func (s *Settlement) CanComment(userID uint, role string) bool {
	if role == RoleAdmin {
		return s.Status != StatusApproved
	}
	return s.IsEditableBy(userID, role)
}

// CommentsDeletable コメントを削除できる状態か（申請前・差し戻し中のみ）
func (s *Settlement) CommentsDeletable() bool {
	return s.Status == StatusDraft || s.Status == StatusReturned
}

// ValidateHeader 下書き保存に必要なヘッダー項目を検証する
func (s *Settlement) ValidateHeader() error {
	if strings.TrimSpace(s.ProjectName) == "" {
		return errors.New("案件名を入力してください")
	}
	if strings.TrimSpace(s.StartDate) == "" {
		return errors.New("開始日を入力してください")
	}
	if strings.TrimSpace(s.EndDate) == "" {
		return errors.New("終了日を入力してください")
	}
	return nil
}

// ValidateForSubmit 申請に必要な項目を検証する（ヘッダー + 明細1件以上）
func (s *Settlement) ValidateForSubmit() error {
	if err := s.ValidateHeader(); err != nil {
		return err
	}
	if len(s.Expenses) == 0 {
		return errors.New("経費明細を1件以上入力してください")
	}
	return nil
}

// Total 明細金額の合計
func (s *Settlement) Total() float64 {
	return s.Expenses.Total()
}
