package lobby

import (
	"context"
	"sync"
)

type memRepo struct {
	mu      sync.Mutex
	tables  map[string]*Table // tableID -> table
	players map[string]string // player -> tableID
}

func NewMemoryRepo() Repo {
	return &memRepo{
		tables:  make(map[string]*Table),
		players: make(map[string]string),
	}
}

func (m *memRepo) SaveTable(ctx context.Context, t *Table, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[t.Player]; ok {
		return ErrAlreadySeated
	}
	cp := *t
	m.tables[t.ID] = &cp
	m.players[t.Player] = t.ID
	// 内存版忽略 TTL，仅供测试
	return nil
}

func (m *memRepo) PlayerTable(ctx context.Context, player string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[player], nil
}

func (m *memRepo) GetTable(ctx context.Context, tableID string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[tableID]
	if !ok {
		return nil, ErrNoTable
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) RemoveTable(ctx context.Context, player string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.players[player]
	if !ok {
		return "", ErrNoTable
	}
	delete(m.players, player)
	delete(m.tables, id)
	return id, nil
}

func (m *memRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tables)), nil
}
