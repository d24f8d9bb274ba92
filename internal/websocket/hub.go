package websocket

import (
	"sync"

	"Cruce/internal/utils"
)

type HubInterface interface {
	BroadcastToPlayers(players []string, msg OutgoingMessage)
	ClientByPlayer(player string) (*Client, bool)
	SendToPlayer(player string, msg OutgoingMessage)
	Close()
}

type Hub struct {
	clients    map[string]*Client // player -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

type broadcastReq struct {
	Players []string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq, 256),
		incoming:   make(chan IncomingMessage, 64),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			// 同一身份重连：踢掉旧连接
			if old, ok := h.clients[c.Player]; ok && old != c {
				close(old.Send)
			}
			h.clients[c.Player] = c
			n := len(h.clients)
			h.mu.Unlock()
			utils.Log.Info("hub register", "player", c.Player, "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[c.Player]; ok && cur == c {
				delete(h.clients, c.Player)
				close(c.Send)
				utils.Log.Info("hub unregister", "player", c.Player, "clients", len(h.clients))
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			h.mu.RLock()
			for _, p := range req.Players {
				if client, ok := h.clients[p]; ok {
					select {
					case client.Send <- req.Message:
					default:
						// 慢客户端：丢弃，下一个快照会覆盖
						utils.Log.Warn("client send buffer full, message dropped", "player", p, "event", req.Message.Event)
					}
				}
			}
			h.mu.RUnlock()

		case req := <-h.incoming:
			// 玩家消息统一转发给游戏层
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}

		case <-h.quit:
			h.mu.Lock()
			for p, c := range h.clients {
				close(c.Send)
				delete(h.clients, p)
			}
			h.mu.Unlock()
			utils.Log.Info("hub stopped")
			return
		}
	}
}

// BroadcastToPlayers 投递给多个玩家
func (h *Hub) BroadcastToPlayers(players []string, msg OutgoingMessage) {
	select {
	case h.broadcast <- broadcastReq{Players: players, Message: msg}:
	case <-h.quit:
	}
}

// Deliver 把前端意图放入 Hub；Hub 已关闭时返回 false
func (h *Hub) Deliver(msg IncomingMessage) bool {
	select {
	case h.incoming <- msg:
		return true
	case <-h.quit:
		return false
	}
}

// SendToPlayer 投递给单个玩家（并发安全）
func (h *Hub) SendToPlayer(player string, msg OutgoingMessage) {
	h.BroadcastToPlayers([]string{player}, msg)
}

func (h *Hub) ClientByPlayer(player string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[player]
	return c, ok
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}
