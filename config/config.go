package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret   string
		TTLHours int `mapstructure:"ttlHours"`
	}
	Log struct {
		Level string
	}
	Game struct {
		TargetScore  int   `mapstructure:"targetScore"`
		BotDelayMs   int   `mapstructure:"botDelayMs"`
		TrickDelayMs int   `mapstructure:"trickDelayMs"`
		HandDelayMs  int   `mapstructure:"handDelayMs"`
		Seed         int64 `mapstructure:"seed"`
	}
	Lobby struct {
		TableTTL int `mapstructure:"tableTTL"` // seconds
	}
}

var C Config

func (c Config) BotDelay() time.Duration   { return time.Duration(c.Game.BotDelayMs) * time.Millisecond }
func (c Config) TrickDelay() time.Duration { return time.Duration(c.Game.TrickDelayMs) * time.Millisecond }
func (c Config) HandDelay() time.Duration  { return time.Duration(c.Game.HandDelayMs) * time.Millisecond }
func (c Config) JWTTTL() time.Duration     { return time.Duration(c.JWT.TTLHours) * time.Hour }

func defaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.ttlHours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("game.targetScore", 15)
	v.SetDefault("game.botDelayMs", 800)
	v.SetDefault("game.trickDelayMs", 1500)
	v.SetDefault("game.handDelayMs", 3000)
	v.SetDefault("game.seed", 0)
	v.SetDefault("lobby.tableTTL", 6*3600)
}

// Load 读取 config/config.yaml（CRUCE_CONFIG 可覆盖路径），CRUCE_* 环境变量优先
func Load() error {
	path := os.Getenv("CRUCE_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	c, err := Read(path)
	if err != nil {
		return err
	}
	C = c
	return nil
}

// Read 从指定文件读取；文件不存在时只用默认值与环境变量
func Read(path string) (Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("CRUCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var out Config
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return out, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&out); err != nil {
		return out, fmt.Errorf("parse config: %w", err)
	}
	if out.JWT.Secret == "" {
		return out, errors.New("jwt.secret is required")
	}
	return out, nil
}
