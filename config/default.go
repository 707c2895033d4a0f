package config

import _ "embed"

// DefaultConfigYAML バイナリに埋め込まれたデフォルト設定
//
//go:embed default.yaml
var DefaultConfigYAML []byte
