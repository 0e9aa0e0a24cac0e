package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"linkhub-platform/internal/config"
	"linkhub-platform/internal/handler"
	"linkhub-platform/internal/middleware"
	"linkhub-platform/internal/model"
	"linkhub-platform/internal/service"
	"linkhub-platform/internal/shortcode"
	"linkhub-platform/internal/store"
	"linkhub-platform/pkg/cache"
	"linkhub-platform/pkg/database"
	auth "linkhub-platform/pkg/jwt"
	"linkhub-platform/pkg/logger"
	"linkhub-platform/pkg/redis"

	_ "linkhub-platform/docs"

	"github.com/gin-gonic/gin"
	redisClient "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title LinkHub API
// @description 短链接服务：创建、解析、统计与管理
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	logger.InitLogger()
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		sugaredLogger.Fatalf("配置加载失败: %v", err)
	}

	db, err := database.InitMySQL(cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Info("✅ 数据库连接成功")

	err = db.AutoMigrate(&model.User{}, &model.Link{})
	if err != nil {
		sugaredLogger.Fatalf("数据库迁移失败: %v", err)
	}
	sugaredLogger.Info("✅ 数据库迁移成功")

	var rdb *redisClient.Client
	if cfg.Cache.Host != "" {
		rdb, err = redis.NewRedisClient(&redis.Options{
			Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
		})
		if err != nil {
			// 缓存只是加速层，连不上时服务照常启动
			sugaredLogger.Warnf("缓存连接失败: %v", err)
			rdb = nil
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ 缓存连接成功")
		}
	}

	// 显式组装各组件，不使用任何包级单例
	linkStore := store.NewLinkStore(db)
	linkCache := cache.NewLinkCache(rdb, time.Duration(cfg.Link.CacheTTLMinutes)*time.Minute, sugaredLogger)
	generator := shortcode.NewGenerator(cfg.Link.CodeLength)
	resolver := service.NewResolver(linkStore, linkCache, generator, sugaredLogger,
		cfg.Link.ExpiryGraceMonths, cfg.Link.CreateMaxRetries)
	sugaredLogger.Info("✅ 解析引擎初始化成功")

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)
	sugaredLogger.Info("✅ 认证管理器初始化成功")

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authMiddleware := middleware.AuthMiddleware(tokenManager)
	rateLimitMiddleware := middleware.RateLimit(rdb, &cfg.RateLimit)
	router.Use(rateLimitMiddleware)

	urlHandler := handler.NewShortLinkHandler(resolver)
	authHandler := handler.NewAuthHandler(db, rdb, tokenManager)

	registerRoutes(router, urlHandler, authHandler, authMiddleware)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
	sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugaredLogger.Fatalf("服务启动失败: %v", err)
	}
}

func registerRoutes(
	router *gin.Engine,
	urlHandler *handler.ShortLinkHandler,
	authHandler *handler.AuthHandler,
	authMiddleware gin.HandlerFunc,
) {
	router.GET("/health", urlHandler.HealthCheck)
	router.GET("/:code", urlHandler.RedirectToOriginal)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		api.GET("/me", authHandler.GetCurrentUser)
		api.POST("/shorten", urlHandler.CreateShortLink)
		api.POST("/shorten/custom", urlHandler.CreateCustomLink)
		api.GET("/links", urlHandler.GetMyLinks)
		api.GET("/links/:code/stats", urlHandler.GetLinkStats)
		api.PUT("/links/:code", urlHandler.UpdateLink)
		api.DELETE("/links/:code", urlHandler.DeleteLink)
		api.GET("/search", urlHandler.SearchByURL)
		api.GET("/stats", urlHandler.GetStats)
	}
}
