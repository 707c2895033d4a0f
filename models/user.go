package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// RoleAdmin 管理者：全申請の閲覧・承認・差し戻しが可能
	RoleAdmin = "admin"
	// RoleUser 一般ユーザー：自分の申請のみ操作可能
	RoleUser = "user"
)

// User ユーザーモデル
// 銀行口座欄は振込先としてアカウントページで表示・編集される
type User struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Email      string         `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password   string         `json:"-" gorm:"size:255"` // 外部IDログインのみのユーザーは空
	FullName   string         `json:"full_name" gorm:"size:100"`
	Title      string         `json:"title" gorm:"size:100"`
	Role       string         `json:"role" gorm:"size:20;default:user;index"` // admin / user
	Bank       string         `json:"bank" gorm:"size:100"`
	Branch     string         `json:"branch" gorm:"size:100"`
	BankNum    string         `json:"bank_num" gorm:"size:20"`
	BankHolder string         `json:"bank_holder" gorm:"size:100"` // 口座名義（カナ）
	OAuthSub   string         `json:"-" gorm:"column:oauth_sub;size:128;index;default:''"` // 外部IDプロバイダの subject
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName テーブル名を設定
func (User) TableName() string {
	return "users"
}

// IsAdmin 管理者かどうか
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
