package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	require.NoError(t, InitRedis(context.Background(), mr.Addr(), "", 0))
	require.NotNil(t, Rdb)
	require.NoError(t, Rdb.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))

	require.NoError(t, CloseRedis())
	assert.Nil(t, Rdb)
	assert.NoError(t, CloseRedis())
}

func TestInitRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	err := InitRedis(context.Background(), addr, "", 0)
	assert.Error(t, err)
	assert.Nil(t, Rdb)
}
