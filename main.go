package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social_graph/broker"
	"social_graph/config"
	"social_graph/handler"
	"social_graph/migrations"
	"social_graph/service"
	"social_graph/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	// 设置时区为 UTC（推荐服务端统一使用 UTC）
	time.Local = time.UTC
}

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogFormat, cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库迁移
	if cfg.AutoMigrate {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			fatal("failed to run migrations", err)
		}
	}

	// 初始化数据库
	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		fatal("failed to connect to database", err)
	}
	defer utils.CloseDB()

	// 初始化 Redis
	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		fatal("failed to connect to redis", err)
	}
	defer utils.CloseRedis()

	// 功能开关（全局单例）
	settingsSvc := service.NewSettingsService(utils.GetDB())
	if err := settingsSvc.Reload(context.Background()); err != nil {
		slog.Warn("failed to load app settings, using defaults", slog.String("error", err.Error()))
	}
	reloadCtx, stopReload := context.WithCancel(context.Background())
	defer stopReload()
	settingsSvc.StartAutoReload(reloadCtx, cfg.SettingsReloadInterval)

	// 事件发布
	publisher := newPublisher(cfg)
	defer publisher.Close()

	// 创建服务
	authSvc := service.NewAuthService(utils.GetDB(), utils.GetRedis(), cfg.JWTSecret, cfg.TokenTTL)
	userSvc := service.NewUserService(utils.GetDB(), publisher, settingsSvc)
	relSvc := service.NewRelationshipService(utils.GetDB(), publisher, settingsSvc)

	rateLimit := cfg.RateLimit
	if cfg.Env == "test" {
		rateLimit = 0
	}

	r := handler.SetupRouter(handler.RouterDeps{
		AuthSvc:         authSvc,
		UserSvc:         userSvc,
		RelSvc:          relSvc,
		SettingsSvc:     settingsSvc,
		Redis:           utils.GetRedis(),
		RateLimit:       rateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		CookieSecure:    cfg.CookieSecure,
		AdminUserIDs:    cfg.AdminUserIDs,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("social_graph service starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
}

// newPublisher 配置了 KAFKA_BROKERS 时使用 Kafka，否则不发布事件
func newPublisher(cfg *config.Config) broker.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		slog.Info("KAFKA_BROKERS not set, events disabled")
		return broker.NopPublisher{}
	}

	p, err := broker.NewKafkaPublisher(broker.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		fatal("failed to create kafka publisher", err)
	}
	slog.Info("kafka publisher ready", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	return p
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
