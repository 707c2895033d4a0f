package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config アプリケーション設定
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Email    EmailConfig    `mapstructure:"email"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig JWT設定
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// StorageConfig 領収書ファイル保存設定
type StorageConfig struct {
	BaseDir    string `mapstructure:"base_dir"`
	MaxSizeMB  int64  `mapstructure:"max_size_mb"`
	PublicPath string `mapstructure:"public_path"`
}

// EmailConfig メール設定
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// OAuthConfig 外部IDプロバイダによるログイン設定
type OAuthConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AuthURL      string `mapstructure:"auth_url"`
	TokenURL     string `mapstructure:"token_url"`
	UserInfoURL  string `mapstructure:"userinfo_url"`
}

var (
	// GlobalConfig グローバル設定インスタンス
	GlobalConfig *Config
)

// LoadConfig 設定を読み込む
// 優先順位: 外部設定ファイル > 内蔵デフォルト設定
// configPath: 任意の外部設定ファイルパス
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. まず内蔵デフォルト設定を読み込む
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("内蔵設定の読み込みに失敗: %w", err)
	}
	log.Println("内蔵デフォルト設定を読み込みました")

	// 2. 外部設定ファイルの読み込みを試みる（任意。デフォルト設定の上書き用）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 指定された設定ファイル %s を読み込めません: %v", configPath, err)
		} else {
			log.Printf("外部設定ファイルをマージしました: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/seisan")
		externalViper.AddConfigPath("$HOME/.seisan")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 外部設定のマージに失敗: %v", err)
			} else {
				log.Printf("外部設定ファイルをマージしました: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 環境変数による上書き（任意）
	v.SetEnvPrefix("SEISAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の解析に失敗: %w", err)
	}

	// JWT 有効期限
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	// 領収書保存サイズ上限
	if cfg.Storage.MaxSizeMB <= 0 {
		cfg.Storage.MaxSizeMB = 10
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig 設定を読み込む。失敗時は panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("設定の読み込みに失敗: %v", err))
	}
	return cfg
}

// GetConfig グローバル設定を取得する
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("設定が未初期化です。先に LoadConfig を呼び出してください")
	}
	return GlobalConfig
}

// SafeErrorMessage release モードでは内部エラーの詳細をクライアントへ返さない
// 開発時（debug / 未初期化）はそのままエラー内容を返してデバッグしやすくする
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig 現在の設定を表示する（機密情報は出さない）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("現在の設定:")
	log.Printf("  サーバー: %s (モード: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  データベース: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  領収書保存先: %s", GlobalConfig.Storage.BaseDir)
	log.Printf("  メール通知: %v", GlobalConfig.Email.Enabled)
	log.Printf("  外部IDログイン: %v", GlobalConfig.OAuth.Enabled)
}
