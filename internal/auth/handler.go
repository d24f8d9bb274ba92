package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	secret []byte
	ttl    time.Duration
}

// 工厂方法：创建 handler
func NewHandler(secret []byte, ttl time.Duration) *Handler {
	return &Handler{secret: secret, ttl: ttl}
}

// POST /auth/guest
func (h *Handler) Guest(c *gin.Context) {
	token, player, err := IssueGuest(h.secret, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jwt":    token,
		"player": player,
	})
}
