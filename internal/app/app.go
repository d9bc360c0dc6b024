// Package app 组装两个进程共用的依赖：DB、缓存、仓储、服务与 HTTP 模块
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"success-sprout/internal/core/auth"
	"success-sprout/internal/core/cache"
	"success-sprout/internal/core/config"
	"success-sprout/internal/core/database"
	"success-sprout/internal/payment/paypal"
	"success-sprout/internal/repo"
	"success-sprout/internal/service"
	"success-sprout/internal/storage"
	"success-sprout/internal/transport/http/handler"
	mdw "success-sprout/internal/transport/http/middleware"
	"success-sprout/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache

	Auth         *service.AuthService
	Resume       *service.ResumeService
	Courses      *service.CourseService
	Jobs         *service.JobService
	Scholarships *service.ScholarshipService
	Payments     *service.PaymentService
	Admin        *service.AdminService
}

// New 打开 DB/Redis 并构建服务；返回的 cleanup 负责释放连接
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log.Named("gorm"),
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := migrateOrClose(db); err != nil {
			return nil, nil, err
		}
		log.Info("automigrate done")
	}

	// redis 可选；连不上只告警，按未启用处理
	var c *cache.Cache
	if cfg.Redis.Enabled {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		perr := c.Ping(pctx)
		cancel()
		if perr != nil {
			log.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(perr))
			_ = c.Close()
			c = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}
	cleanup := func() {
		_ = c.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	users := repo.NewUserRepo(db)
	courses := repo.NewCourseRepo(db)
	jobs := repo.NewJobRepo(db)
	scholarships := repo.NewScholarshipRepo(db)
	pays := repo.NewPaymentRepo(db)

	if cfg.UsesDevSecret() {
		log.Warn("jwt.secret not set, using development fallback secret", zap.String("env", cfg.App.Env))
	}
	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())

	a := &App{
		Cfg:          cfg,
		Log:          log,
		DB:           db,
		Cache:        c,
		Auth:         service.NewAuthService(users, jwter, log.Named("auth")),
		Resume:       service.NewResumeService(presigner(ctx, cfg.Storage.S3, log), users, log.Named("resume")),
		Courses:      service.NewCourseService(courses, log.Named("course")),
		Jobs:         service.NewJobService(jobs, log.Named("job")),
		Scholarships: service.NewScholarshipService(scholarships, log.Named("scholarship")),
		Payments: service.NewPaymentService(paypalClient(cfg, c, log), pays, users, service.PaymentOptions{
			WebhookMode:     strings.ToLower(cfg.Payment.WebhookMode),
			DefaultAmount:   cfg.PayPal.DefaultAmount,
			DefaultCurrency: cfg.PayPal.DefaultCurrency,
		}, log),
		Admin: service.NewAdminService(users, courses, jobs, scholarships, pays, c, time.Minute, log.Named("admin")),
	}
	if a.Payments.TrustsWebhook() {
		log.Warn("payment.webhookMode=trust: webhook payloads are applied without provider verification")
	}
	return a, cleanup, nil
}

// migrateOrClose 迁移失败时释放刚打开的连接池
func migrateOrClose(db *gorm.DB) error {
	if err := repo.AutoMigrate(db); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func paypalClient(cfg *config.Config, c *cache.Cache, log *zap.Logger) *paypal.Client {
	returnURL := cfg.PayPal.ReturnURL
	if returnURL == "" {
		returnURL = strings.TrimRight(cfg.App.PublicBaseURL, "/") + "/api/capture-paypal-order"
	}
	pc := paypal.New(paypal.Options{
		BaseURL:       cfg.PayPal.BaseURL(),
		ClientID:      cfg.PayPal.ClientID,
		ClientSecret:  cfg.PayPal.ClientSecret,
		Timeout:       time.Duration(cfg.PayPal.TimeoutSec) * time.Second,
		BrandName:     cfg.PayPal.BrandName,
		Description:   cfg.PayPal.Description,
		ReturnURL:     returnURL,
		CancelURL:     cfg.PayPal.CancelURL,
		TokenCache:    c,
		TokenCacheTTL: time.Duration(cfg.PayPal.TokenCacheSec) * time.Second,
	}, log.Named("paypal"))
	if !pc.Configured() {
		log.Warn("paypal credentials missing, payment endpoints will answer 502")
	}
	return pc
}

// presigner 未配置 bucket 时返回 nil 接口，简历接口答 502
func presigner(ctx context.Context, c config.S3, log *zap.Logger) storage.Presigner {
	p, err := storage.NewS3Presigner(ctx, c)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("resume storage not configured")
		return nil
	case err != nil:
		log.Error("resume storage init failed", zap.Error(err))
		return nil
	}
	return p
}

// Options 两个 HTTP 进程共用的中间件参数
func (a *App) Options() router.Options {
	return router.Options{CORS: a.Cfg.CORS, RequestTimeout: a.RequestTimeout()}
}

// RequestTimeout 覆盖一次回跳内最多三次串行 PayPal 调用（token、capture、补查订单）
func (a *App) RequestTimeout() time.Duration {
	d := 3*time.Duration(a.Cfg.PayPal.TimeoutSec)*time.Second + 5*time.Second
	if d < 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// WriteTimeout 不低于请求超时，否则已入账的响应会被连接截断
func (a *App) WriteTimeout(configured time.Duration) time.Duration {
	if floor := a.RequestTimeout() + 5*time.Second; configured < floor {
		return floor
	}
	return configured
}

// Registry 全部 HTTP 模块；API 与管理端各取所需
func (a *App) Registry() *router.Registry {
	authn := mdw.Authenticate(a.Auth)
	return router.NewRegistry(
		handler.NewAuthHandler(a.Auth, a.Resume, authn),
		handler.NewCatalogHandler(a.Courses, a.Jobs, a.Scholarships, authn),
		handler.NewPaymentHandler(a.Payments, a.Cfg.PayPal.SuccessURL),
		handler.NewAdminHandler(a.Admin, authn),
	)
}
