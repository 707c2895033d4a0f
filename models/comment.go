package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment 精算に紐づくコメント
// 投稿者の表示名とロールは投稿時点のスナップショットとして保持する
type Comment struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SettlementID uint           `json:"settlement_id" gorm:"index;not null"`
	CreatedBy    uint           `json:"created_by" gorm:"index;not null"`
	UserName     string         `json:"user_name" gorm:"size:100"`
	Role         string         `json:"role" gorm:"size:20"`
	Text         string         `json:"text" gorm:"size:1000;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Settlement   Settlement     `json:"-" gorm:"foreignKey:SettlementID"`
}

// TableName テーブル名を設定
func (Comment) TableName() string {
	return "comments"
}
