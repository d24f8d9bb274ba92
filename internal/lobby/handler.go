package lobby

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"Cruce/internal/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /table/open  body: {targetScore}
func (h *Handler) Open(c *gin.Context) {
	var req OpenRequest
	// body 可为空
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player := auth.Player(c)
	t, err := h.svc.Open(c.Request.Context(), player, req)
	if errors.Is(err, ErrAlreadySeated) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, OpenResponse{
		TableID: t.ID, Player: t.Player, Seat: 0, TargetScore: t.TargetScore,
	})
}

// POST /table/leave
func (h *Handler) Leave(c *gin.Context) {
	err := h.svc.Leave(c.Request.Context(), auth.Player(c))
	if errors.Is(err, ErrNoTable) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /table/current
func (h *Handler) Current(c *gin.Context) {
	t, err := h.svc.Current(c.Request.Context(), auth.Player(c))
	if errors.Is(err, ErrNoTable) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}
