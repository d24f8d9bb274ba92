package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"Cruce/config"
	"Cruce/internal/auth"
	"Cruce/internal/game/manager"
	"Cruce/internal/lobby"
	"Cruce/internal/storage"
	"Cruce/internal/utils"
	"Cruce/internal/websocket"
)

func main() {
	if err := config.Load(); err != nil {
		utils.Log.Fatal("config load failed", "err", err)
	}
	utils.Init(config.C.Log.Level)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 初始化 Redis
	//-------------------------------------------------------
	if err := storage.InitRedis(ctx,
		config.C.Redis.Addr,
		config.C.Redis.Password,
		config.C.Redis.DB,
	); err != nil {
		utils.Log.Fatal("redis init failed", "err", err)
	}
	defer storage.CloseRedis()

	//-------------------------------------------------------
	// 2. 初始化 Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	//-------------------------------------------------------
	// 3. 初始化 Hub（必须最先启动）
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Close()

	//-------------------------------------------------------
	// 4. 初始化 GameManager（每张桌子一个 Engine）
	//-------------------------------------------------------
	gameMgr := manager.NewGameManager(hub, manager.Options{
		Seed:       config.C.Game.Seed,
		BotDelay:   config.C.BotDelay(),
		TrickDelay: config.C.TrickDelay(),
		HandDelay:  config.C.HandDelay(),
	})
	hub.OnIncoming = gameMgr.HandlePlayerMessage

	//-------------------------------------------------------
	// 5. 大厅：开桌 / 离桌
	//-------------------------------------------------------
	repo := lobby.NewRedisRepo(storage.Rdb)
	svc := lobby.NewService(repo, config.C.Lobby.TableTTL, config.C.Game.TargetScore, hub)
	svc.OnTableOpen = gameMgr.OpenTable
	svc.OnTableClose = gameMgr.CloseTable
	svc.IsRunning = gameMgr.Running

	r.GET("/health", func(c *gin.Context) {
		open, err := repo.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"tables":       open,
			"activeEngine": gameMgr.ActiveTables(),
		})
	})

	secret := []byte(config.C.JWT.Secret)
	authHandler := auth.NewHandler(secret, config.C.JWTTTL())
	r.POST("/auth/guest", authHandler.Guest)

	//-------------------------------------------------------
	// 6. 需要 JWT 的路由：WebSocket + 桌子
	//-------------------------------------------------------
	guarded := r.Group("/", auth.JwtAuthMiddleware(secret))
	{
		guarded.GET("/ws", websocket.ServeWS(hub))

		lh := lobby.NewHandler(svc)
		guarded.POST("/table/open", lh.Open)
		guarded.POST("/table/leave", lh.Leave)
		guarded.GET("/table/current", lh.Current)
	}

	//-------------------------------------------------------
	// 7. 启动服务器
	//-------------------------------------------------------
	srv := &http.Server{Addr: config.C.Server.Port, Handler: r}
	go func() {
		utils.Log.Info("server running", "addr", config.C.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	utils.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.Error("shutdown failed", "err", err)
	}
}
