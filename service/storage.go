package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"seisan/config"
)

// StoredReceipt 保存済み領収書。URL と表示名は必ず対で返る
type StoredReceipt struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// ReceiptStorage 領収書ファイルの保存サービス
// receipts/{ユーザーID}/{乱数}_{元ファイル名} のキーでローカルに保存し、取得URLを発行する
type ReceiptStorage struct {
	baseDir    string
	publicPath string
	baseURL    string
}

// NewReceiptStorage 領収書保存サービスを生成する
func NewReceiptStorage(cfg *config.Config) *ReceiptStorage {
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.Server.Port
	}
	return &ReceiptStorage{
		baseDir:    cfg.Storage.BaseDir,
		publicPath: strings.TrimSuffix(cfg.Storage.PublicPath, "/"),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Save ファイルを保存し、取得URLと表示名を返す
// 書き込みに失敗した場合は何も残らない（URL のみ・名前のみの中途半端な状態は生じない）
func (s *ReceiptStorage) Save(userID uint, fileName string, data []byte) (*StoredReceipt, error) {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, errors.New("ファイル名が不正です")
	}

	// 同名ファイルの衝突を避けるため乱数を前置する。表示名は元のまま保持する
	salt := make([]byte, 4)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("乱数の生成に失敗: %w", err)
	}
	rel := filepath.Join("receipts", fmt.Sprintf("%d", userID), hex.EncodeToString(salt)+"_"+name)

	fullPath, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("保存先ディレクトリの作成に失敗: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("ファイルの書き込みに失敗: %w", err)
	}

	return &StoredReceipt{
		URL:      s.baseURL + s.publicPath + "/" + filepath.ToSlash(rel),
		FileName: name,
	}, nil
}

// Remove 取得URLに対応するファイルを削除する
// 既に存在しない場合はエラーとしない（添付クリアは冪等）
func (s *ReceiptStorage) Remove(url string) error {
	prefix := s.baseURL + s.publicPath + "/"
	if !strings.HasPrefix(url, prefix) {
		return errors.New("このサービスが発行したURLではありません")
	}
	rel := strings.TrimPrefix(url, prefix)

	fullPath, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ファイルの削除に失敗: %w", err)
	}
	return nil
}

// BaseDir 保存ルートディレクトリ（静的配信の設定に使う）
func (s *ReceiptStorage) BaseDir() string {
	return s.baseDir
}

// resolve 相対パスを保存ルート配下の絶対パスに解決する
// ルート外へ抜けるパスは拒否する
func (s *ReceiptStorage) resolve(rel string) (string, error) {
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(filepath.Join(base, rel))
	if err != nil {
		return "", err
	}
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", errors.New("不正なファイルパスです")
	}
	return full, nil
}
