package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const playerKey = "player"

// JwtAuthMiddleware 校验 Authorization: Bearer <jwt>；
// 浏览器 websocket 无法带 header，允许 ?token=<jwt>
func JwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		player, err := Parse(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(playerKey, player)
		c.Next()
	}
}

// Player 中间件写入的玩家身份
func Player(c *gin.Context) string {
	return c.GetString(playerKey)
}
