package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/brewcart/internal/app"
	"github.com/brewcart/internal/config"
	"github.com/brewcart/internal/logger"
	"github.com/brewcart/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		logger.Errorw("db_init_failed", "error", err)
		os.Exit(1)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		logger.Errorw("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		logger.Errorw("app_run_failed", "error", err)
		os.Exit(1)
	}
}

func printStartupBanner() {
	fmt.Println("==============================================")
	fmt.Println("  BrewCart API - cart sharing & sync service  ")
	fmt.Println("==============================================")
}
