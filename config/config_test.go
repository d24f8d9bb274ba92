package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9000"
jwt:
  secret: "s3cret"
game:
  targetScore: 21
  botDelayMs: 10
`)
	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Server.Port)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 21, c.Game.TargetScore)
	assert.Equal(t, 10*time.Millisecond, c.BotDelay())

	// 未写的键取默认值
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, 1500*time.Millisecond, c.TrickDelay())
	assert.Equal(t, 24*time.Hour, c.JWTTTL())
	assert.Equal(t, 21600, c.Lobby.TableTTL)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: \"file\"\n")
	t.Setenv("CRUCE_JWT_SECRET", "env")
	t.Setenv("CRUCE_GAME_TARGETSCORE", "5")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "env", c.JWT.Secret)
	assert.Equal(t, 5, c.Game.TargetScore)
}

func TestMissingSecret(t *testing.T) {
	_, err := Read(writeConfig(t, "server:\n  port: \":1\"\n"))
	assert.Error(t, err)
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv("CRUCE_CONFIG", writeConfig(t, "jwt:\n  secret: \"x\"\n"))
	require.NoError(t, Load())
	assert.Equal(t, "x", C.JWT.Secret)
	assert.Equal(t, 15, C.Game.TargetScore)
}
