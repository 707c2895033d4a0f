package database

import (
	"fmt"
	"log"

	"seisan/config"
	"seisan/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init データベース接続を初期化する
func Init(cfg *config.Config) error {
	// MySQL DSN 接続文字列を構築
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("データベース接続に失敗: %w", err)
	}

	// 下位の *sql.DB を取得してコネクションプールを設定
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// テーブルの自動マイグレーション
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Settlement{},
		&models.Comment{},
	); err != nil {
		return err
	}

	// 過去データ互換: status が未設定のレコードは編集中として扱う
	if err := DB.Model(&models.Settlement{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.StatusDraft).Error; err != nil {
		log.Printf("警告: 旧データのステータス補完に失敗: %v", err)
	}

	// 管理者が1人もいない場合は起動ログで注意喚起する
	// （管理者への昇格は DB 上で role を admin に更新して行う）
	var adminCount int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		log.Println("警告: 管理者ユーザーが存在しません。users.role を 'admin' に更新してください")
	}

	log.Println("データベース初期化に成功しました")
	return nil
}

// GetDB データベース接続を取得する
func GetDB() *gorm.DB {
	return DB
}
