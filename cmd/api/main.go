package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vidstream/internal/api/handler"
	"vidstream/internal/api/middleware"
	"vidstream/internal/api/router"
	"vidstream/internal/config"
	"vidstream/internal/infra/database"
	infraES "vidstream/internal/infra/elasticsearch"
	infraKafka "vidstream/internal/infra/kafka"
	infraMinio "vidstream/internal/infra/minio"
	infraRedis "vidstream/internal/infra/redis"
	"vidstream/internal/model"
	"vidstream/internal/repository"
	"vidstream/internal/service"
	"vidstream/internal/storage"
	"vidstream/pkg/logger"

	_ "vidstream/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title VidStream API
// @version 1.0
// @description 视频分享服务 API

// @contact.name API Support
// @contact.email support@vidstream.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	// 自动迁移数据库表
	if err := database.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.PlayProgress{},
	); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis（播放计数去重、限流）
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化存储后端
	store := buildStorageBackend(cfg)

	// 初始化Kafka生产者（视频生命周期事件）
	var events service.EventPublisher
	if topic, ok := cfg.Kafka.Topics["video_events"]; ok && len(cfg.Kafka.Brokers) > 0 {
		if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
			logger.Warn("Kafka init failed, video events disabled", zap.Error(err))
		} else {
			defer infraKafka.CloseProducer()
			events = infraKafka.NewPublisher(topic)
		}
	}

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	esEnabled := false
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		defer infraES.Close()
		esEnabled = true
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()

	// 使用自定义中间件
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(&cfg.CORS))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(&cfg.RateLimit))
	}

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	var searchService *service.SearchService
	if esEnabled {
		searchService = service.NewSearchService(videoRepo)
	}

	authService := service.NewAuthService(userRepo)
	videoService := service.NewVideoService(videoRepo, userRepo, store, events, searchService)
	playService := service.NewPlayService(
		videoRepo,
		userRepo,
		progressRepo,
		redisPlayMarker{},
		cfg.Play.CountThresholdSeconds,
		cfg.Play.DedupWindow(),
	)

	authHandler := handler.NewAuthHandler(authService)
	videoHandler := handler.NewVideoHandler(videoService)
	playHandler := handler.NewPlayHandler(playService, store)

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, authHandler, videoHandler, playHandler)

	// 启动HTTP服务器
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("addr", addr),
	)
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// buildStorageBackend 按配置选择存储后端，默认本地磁盘
func buildStorageBackend(cfg *config.Config) storage.Backend {
	switch cfg.Storage.Backend {
	case "minio":
		if err := infraMinio.Init(&cfg.MinIO); err != nil {
			logger.Fatal("Failed to init minio", zap.Error(err))
		}
		return storage.NewMinioBackend()
	default:
		store, err := storage.NewLocalBackend(cfg.Storage.LocalPath)
		if err != nil {
			logger.Fatal("Failed to init local storage", zap.Error(err))
		}
		return store
	}
}

// redisPlayMarker 基于 Redis 的播放计数去重标记
type redisPlayMarker struct{}

func (redisPlayMarker) MarkPlayed(ctx context.Context, userID, videoID int64, window time.Duration) (bool, error) {
	return infraRedis.MarkPlayed(ctx, userID, videoID, window)
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"mode":      cfg.App.Mode,
	})
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    "/swagger/index.html",
	})
}
