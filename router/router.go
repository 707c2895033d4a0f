package router

import (
	"time"

	"seisan/api"
	"seisan/config"
	_ "seisan/docs"
	"seisan/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter ルーティングを設定する
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 実行モードの設定
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS ミドルウェア
	r.Use(CORSMiddleware())

	// アップロード済み領収書の静的配信
	r.Static(cfg.Storage.PublicPath, cfg.Storage.BaseDir)

	// Swagger ドキュメント
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 ルートグループ
	v1 := r.Group("/api/v1")
	{
		// 認証関連（ログイン不要）
		authHandler := api.NewAuthHandler(cfg)
		oauthHandler := api.NewOAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)

			// 外部IDログイン
			auth.GET("/oauth/config", oauthHandler.GetOAuthConfig)
			auth.GET("/oauth/callback", oauthHandler.OAuthCallback)
		}

		// 収支科目（ログイン不要）
		categoryHandler := api.NewCategoryHandler()
		v1.GET("/categories", categoryHandler.List)

		// JWT 認証が必要なルート
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// アカウント関連
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 精算関連
			settlementHandler := api.NewSettlementHandler(cfg)
			settlements := authorized.Group("/settlements")
			{
				settlements.POST("", settlementHandler.Create)
				settlements.GET("", settlementHandler.List)
				settlements.GET("/:id", settlementHandler.Get)
				settlements.PUT("/:id", settlementHandler.Update)
				settlements.POST("/:id/submit", settlementHandler.Submit)

				// 承認・差し戻しは管理者のみ
				settlements.POST("/:id/approve", middleware.AdminRequired(), settlementHandler.Approve)
				settlements.POST("/:id/return", middleware.AdminRequired(), settlementHandler.Return)

				// 領収書添付
				receiptHandler := api.NewReceiptHandler(cfg)
				settlements.POST("/:id/receipts", receiptHandler.Upload)
				settlements.DELETE("/:id/receipts/:index", receiptHandler.Clear)

				// コメント
				commentHandler := api.NewCommentHandler()
				settlements.GET("/:id/comments", commentHandler.List)
				settlements.POST("/:id/comments", commentHandler.Create)
				settlements.DELETE("/:id/comments/:commentId", commentHandler.Delete)
				settlements.GET("/:id/comments/stream", commentHandler.Stream)
			}

			// エクスポート関連
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/json", exportHandler.ExportJSON)
				export.GET("/excel", middleware.AdminRequired(), exportHandler.ExportExcel)
			}
		}
	}

	// ヘルスチェック
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS ミドルウェア
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
