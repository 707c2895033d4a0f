package main

import (
	"flag"
	"log"
	"strings"

	"seisan/config"
	"seisan/database"
	"seisan/middleware"
	"seisan/router"
)

// @title 経費精算システム API
// @version 1.0
// @description 経費精算ワークフロー API。精算申請の作成・申請・承認・差し戻し、領収書アップロード、コメント機能を提供する
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部設定ファイルのパス（任意）")
	flag.StringVar(&configFile, "c", "", "外部設定ファイルのパス（短縮形）")
	flag.StringVar(&port, "port", "", "待ち受けポート。例: 8080 または :8080")
	flag.StringVar(&port, "p", "", "待ち受けポート（短縮形）")
	flag.BoolVar(&showVersion, "version", false, "バージョン情報を表示")
	flag.BoolVar(&showVersion, "v", false, "バージョン情報を表示（短縮形）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("経費精算システム v1.0.0")
		return
	}

	// 設定の読み込み（内蔵デフォルト + 任意の外部設定で上書き）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	// コマンドライン引数でポートを上書き
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("コマンドラインで指定されたポート: %s", port)
	}

	config.PrintConfig()

	// データベース初期化
	if err := database.Init(cfg); err != nil {
		log.Fatalf("データベース初期化に失敗: %v", err)
	}

	// JWT 初期化
	middleware.InitJWT(cfg)

	// ルーティング設定
	r := router.SetupRouter(cfg)

	log.Printf("==========================================")
	log.Printf("  経費精算システムを起動しました")
	log.Printf("==========================================")
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API:      http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
