package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Cruce/internal/utils"
	"Cruce/internal/websocket"
)

type Service struct {
	repo     Repo
	tableTTL int // seconds，防止遗留座位
	hub      HubBroadcaster
	target   int

	OnTableOpen  func(*Table) error  // 开桌后启动对局
	OnTableClose func(tableID string) // 离桌后回收对局
	// IsRunning 座位记录对应的对局是否仍在运行；进程重启后的遗留记录会被清理
	IsRunning func(tableID string) bool
}

type HubBroadcaster interface {
	BroadcastToPlayers(addrs []string, msg websocket.OutgoingMessage)
}

func NewService(repo Repo, tableTTL int, defaultTarget int, hub HubBroadcaster) *Service {
	return &Service{repo: repo, tableTTL: tableTTL, target: defaultTarget, hub: hub}
}

// Open 为玩家开一张单人桌；同一身份同时只能有一张桌子
func (s *Service) Open(ctx context.Context, player string, req OpenRequest) (*Table, error) {
	if player == "" {
		return nil, errors.New("empty player identity")
	}
	if id, err := s.repo.PlayerTable(ctx, player); err != nil {
		return nil, err
	} else if id != "" {
		if s.IsRunning == nil || s.IsRunning(id) {
			return nil, fmt.Errorf("player %s at table %s: %w", player, id, ErrAlreadySeated)
		}
		utils.Log.Warn("stale seat record removed", "table", id, "player", player)
		if _, err := s.repo.RemoveTable(ctx, player); err != nil && !errors.Is(err, ErrNoTable) {
			return nil, err
		}
	}

	target := req.TargetScore
	if target <= 0 {
		target = s.target
	}
	t := &Table{
		ID:          uuid.NewString(),
		Player:      player,
		TargetScore: target,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.SaveTable(ctx, t, s.tableTTL); err != nil {
		return nil, err
	}

	if s.OnTableOpen != nil {
		if err := s.OnTableOpen(t); err != nil {
			_, _ = s.repo.RemoveTable(ctx, player)
			return nil, err
		}
	}
	utils.Log.Info("table opened", "table", t.ID, "player", player, "target", target)

	s.hub.BroadcastToPlayers([]string{player}, websocket.OutgoingMessage{
		Event: "table_opened",
		Data: map[string]any{
			"tableId":     t.ID,
			"seat":        0,
			"targetScore": t.TargetScore,
		},
	})
	return t, nil
}

// Leave 离桌并回收对局
func (s *Service) Leave(ctx context.Context, player string) error {
	id, err := s.repo.RemoveTable(ctx, player)
	if err != nil {
		return err
	}
	if s.OnTableClose != nil {
		s.OnTableClose(id)
	}
	utils.Log.Info("table closed", "table", id, "player", player)

	s.hub.BroadcastToPlayers([]string{player}, websocket.OutgoingMessage{
		Event: "table_closed",
		Data:  map[string]any{"tableId": id},
	})
	return nil
}

// Current 玩家当前的桌子
func (s *Service) Current(ctx context.Context, player string) (*Table, error) {
	id, err := s.repo.PlayerTable(ctx, player)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrNoTable
	}
	return s.repo.GetTable(ctx, id)
}
