package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作に失敗しました"
	testErr := errors.New("internal database error")

	// nil err は fallback を返す
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release モードでは fallback を返し、エラー詳細を漏らさない
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug モードでは err.Error() を返す
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig が nil のときは err.Error() を返す（開発環境とみなす）
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfigDefaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 内蔵デフォルト値
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "utf8mb4", cfg.Database.Charset)

	// 派生値の補完
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, cfg.JWT.ExpireTime.Hours(), float64(cfg.JWT.ExpireHours))
	assert.Greater(t, cfg.Storage.MaxSizeMB, int64(0))
	assert.Equal(t, "/files", cfg.Storage.PublicPath)

	// グローバルにも保存される
	assert.Same(t, cfg, GlobalConfig)
	assert.Same(t, cfg, GetConfig())
}

func TestLoadConfigMissingExternalFile(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	// 存在しない外部ファイルを指定してもデフォルト設定で起動できる
	cfg, err := LoadConfig("/no/such/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
}
