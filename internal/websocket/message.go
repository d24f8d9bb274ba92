package websocket

import "encoding/json"

// OutgoingMessage 推送给前端的消息
type OutgoingMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// IncomingMessage 前端发来的意图；Data 由游戏层按 Event 解码
type IncomingMessage struct {
	From  string          `json:"from"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
