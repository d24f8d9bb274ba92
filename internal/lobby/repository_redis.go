package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key 约定：
//
//	kv : lobby:player:{player}  -> tableID（SETNX 保证一人一桌）
//	kv : lobby:table:{tableID}  -> Table JSON
//	set: lobby:tables           -> 打开中的 tableID
const openTablesKey = "lobby:tables"

func playerKey(player string) string {
	return fmt.Sprintf("lobby:player:%s", player)
}

func tableKey(id string) string {
	return fmt.Sprintf("lobby:table:%s", id)
}

func (r *redisRepo) SaveTable(ctx context.Context, t *Table, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	ok, err := r.rdb.SetNX(ctx, playerKey(t.Player), t.ID, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadySeated
	}
	data, err := json.Marshal(t)
	if err != nil {
		_ = r.rdb.Del(ctx, playerKey(t.Player)).Err()
		return err
	}
	p := r.rdb.Pipeline()
	p.Set(ctx, tableKey(t.ID), data, ttl)
	p.SAdd(ctx, openTablesKey, t.ID)
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) PlayerTable(ctx context.Context, player string) (string, error) {
	id, err := r.rdb.Get(ctx, playerKey(player)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

func (r *redisRepo) GetTable(ctx context.Context, tableID string) (*Table, error) {
	data, err := r.rdb.Get(ctx, tableKey(tableID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoTable
	}
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Lua：删除玩家 key、桌子数据并从打开集合移除
// KEYS[1] = playerKey, KEYS[2] = tableKey, KEYS[3] = openTablesKey, ARGV[1] = tableID
const removeScript = `
redis.call("DEL", KEYS[1])
redis.call("DEL", KEYS[2])
redis.call("SREM", KEYS[3], ARGV[1])
return 1
`

func (r *redisRepo) RemoveTable(ctx context.Context, player string) (string, error) {
	id, err := r.rdb.Get(ctx, playerKey(player)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoTable
	}
	if err != nil {
		return "", err
	}

	keys := []string{playerKey(player), tableKey(id), openTablesKey}
	if err := r.rdb.Eval(ctx, removeScript, keys, id).Err(); err != nil {
		// Eval 不可用时退回非原子实现
		p := r.rdb.Pipeline()
		p.Del(ctx, keys[0], keys[1])
		p.SRem(ctx, openTablesKey, id)
		if _, execErr := p.Exec(ctx); execErr != nil {
			return "", execErr
		}
	}
	return id, nil
}

func (r *redisRepo) Count(ctx context.Context) (int64, error) {
	return r.rdb.SCard(ctx, openTablesKey).Result()
}
