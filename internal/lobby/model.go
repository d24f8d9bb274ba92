package lobby

import "time"

// OpenRequest 开桌请求（身份来自 JWT）
type OpenRequest struct {
	TargetScore int `json:"targetScore"`
}

// OpenResponse 开桌结果
type OpenResponse struct {
	TableID     string `json:"tableId"`
	Player      string `json:"player"`
	Seat        int    `json:"seat"`
	TargetScore int    `json:"targetScore"`
}

// Table 一张单人桌：一名真人（座位 0）+ 三个机器人
type Table struct {
	ID          string    `json:"id"`
	Player      string    `json:"player"`
	TargetScore int       `json:"targetScore"`
	CreatedAt   time.Time `json:"createdAt"`
}
