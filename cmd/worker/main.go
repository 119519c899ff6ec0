package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vidstream/internal/config"
	"vidstream/internal/infra/database"
	infraES "vidstream/internal/infra/elasticsearch"
	infraKafka "vidstream/internal/infra/kafka"
	"vidstream/internal/model"
	"vidstream/internal/repository"
	"vidstream/pkg/logger"

	"go.uber.org/zap"
)

// 搜索索引同步 worker：
// 启动时全量重建公开视频索引，之后消费视频事件做增量同步。
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()

	if err := infraES.InitIndexes(); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	videoRepo := repository.NewVideoRepository(database.Get())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := resyncAll(ctx, videoRepo); err != nil {
		logger.Error("Startup full resync failed, continue with incremental sync", zap.Error(err))
	}

	topic := cfg.Kafka.Topics["video_events"]
	groupID := "vidstream-index-worker"

	logger.Info("Index sync worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	handler := func(event *infraKafka.VideoEvent) error {
		return handleEvent(ctx, videoRepo, event)
	}
	infraKafka.StartVideoEventConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, handler)

	logger.Info("Index sync worker stopped")
}

// resyncAll 分页拉取全部公开视频批量写入索引
func resyncAll(ctx context.Context, videoRepo *repository.VideoRepository) error {
	const batchSize = 500

	visibility := model.VisibilityPublic
	opts := repository.VideoListOptions{Visibility: &visibility, WithOwner: true}

	skip := 0
	totalSynced, totalFailed := 0, 0
	for {
		videos, _, err := videoRepo.List(skip, batchSize, opts)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			break
		}

		ownerNames := make(map[int64]string, len(videos))
		for i := range videos {
			ownerNames[videos[i].OwnerID] = videos[i].Owner.UserName
		}

		success, failed, err := infraES.BulkSyncVideos(ctx, videos, ownerNames)
		if err != nil {
			return err
		}
		totalSynced += success
		totalFailed += failed

		skip += len(videos)
	}

	logger.Info("Full resync completed",
		zap.Int("synced", totalSynced),
		zap.Int("failed", totalFailed),
	)
	return nil
}

// handleEvent 按事件类型增量同步索引。
// 创建/更新事件回源数据库取最新状态，非公开一律从索引摘除。
func handleEvent(ctx context.Context, videoRepo *repository.VideoRepository, event *infraKafka.VideoEvent) error {
	switch event.Type {
	case infraKafka.EventVideoCreated, infraKafka.EventVideoUpdated:
		v, err := videoRepo.GetByIDIncludeDeleted(event.VideoID)
		if err != nil {
			// 事件落后于库删除，直接摘索引
			return infraES.DeleteVideo(ctx, event.VideoID)
		}
		if v.Visibility != model.VisibilityPublic {
			return infraES.DeleteVideo(ctx, event.VideoID)
		}
		return infraES.SyncVideo(ctx, v, v.Owner.UserName)

	case infraKafka.EventVideoDeleted:
		return infraES.DeleteVideo(ctx, event.VideoID)

	default:
		logger.Warn("Unknown video event type", zap.String("type", event.Type))
		return nil
	}
}
