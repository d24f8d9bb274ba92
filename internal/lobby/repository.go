package lobby

import (
	"context"
	"errors"
)

var (
	ErrAlreadySeated = errors.New("player already seated at a table")
	ErrNoTable       = errors.New("player has no open table")
)

// Repo 座位记录的存储抽象
type Repo interface {
	// SaveTable 原子地为玩家登记桌子；玩家已有桌子时返回 ErrAlreadySeated
	SaveTable(ctx context.Context, t *Table, ttlSeconds int) error
	// PlayerTable 玩家当前所在桌子 ID，没有则返回 ""
	PlayerTable(ctx context.Context, player string) (string, error)
	// GetTable 读取桌子信息，不存在返回 ErrNoTable
	GetTable(ctx context.Context, tableID string) (*Table, error)
	// RemoveTable 移除玩家的桌子并返回其 ID，不存在返回 ErrNoTable
	RemoveTable(ctx context.Context, player string) (string, error)
	// Count 当前打开的桌子数
	Count(ctx context.Context) (int64, error)
}
