package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"success-sprout/internal/app"
	"success-sprout/internal/core/config"
	"success-sprout/internal/core/logger"
	"success-sprout/internal/core/server"
	"success-sprout/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	a, closeApp, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer closeApp()

	// 管理员种子账号
	if cfg.Admin.SeedEmail != "" {
		created, err := a.Auth.EnsureAdmin(ctx, cfg.Admin.SeedEmail, cfg.Admin.SeedPassword, cfg.Admin.SeedName)
		if err != nil {
			log.Fatal("admin seed failed", zap.Error(err))
		}
		log.Info("admin seed checked", zap.String("email", cfg.Admin.SeedEmail), zap.Bool("created", created))
	}

	// 路由（后台端）
	r := router.NewAdminEngine(log, a.Options(), a.Registry())

	// HTTP Server
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, a.WriteTimeout(10*time.Second), 60*time.Second)

	// 启动前打印可点击地址
	baseURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return
	}
	log.Info("admin api stopped gracefully")
}
