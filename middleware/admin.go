package middleware

import (
	"net/http"

	"seisan/database"
	"seisan/models"

	"github.com/gin-gonic/gin"
)

// AdminRequired 管理者のみ許可するミドルウェア
// JWTAuth の後段で使用する。ユーザーのロールを確認し、管理者以外は 403 を返す
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "ログインしてください",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "ユーザーが存在しません",
			})
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "この操作には管理者権限が必要です",
			})
			c.Abort()
			return
		}

		c.Set("currentRole", user.Role)
		c.Next()
	}
}
