package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"Cruce/internal/auth"
	"Cruce/internal/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws  (需带 JWT，middleware 在 main.go 中加入)
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		player := auth.Player(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Log.Warn("ws upgrade failed", "player", player, "err", err)
			return
		}

		client := &Client{
			Player: player,
			Conn:   conn,
			Send:   make(chan OutgoingMessage, 32),
			Hub:    hub,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()

		// 连接建立后让游戏层补发当前状态
		hub.Deliver(IncomingMessage{From: player, Event: EventConnected})
	}
}

// EventConnected 新连接建立时由 Hub 合成的事件
const EventConnected = "connected"
