package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidstream/internal/config"
	"vidstream/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// 视频生命周期事件类型
const (
	EventVideoCreated = "created"
	EventVideoUpdated = "updated"
	EventVideoDeleted = "deleted"
)

// VideoEvent 视频生命周期事件，供搜索索引同步等下游消费
type VideoEvent struct {
	Type       string `json:"type"`
	VideoID    int64  `json:"video_id"`
	OwnerID    int64  `json:"owner_id"`
	Visibility string `json:"visibility"`
	OccurredAt int64  `json:"occurred_at"`
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// SendVideoEvent 发送视频事件到指定 topic
func SendVideoEvent(ctx context.Context, topic string, event *VideoEvent) error {
	if event.OccurredAt == 0 {
		event.OccurredAt = time.Now().Unix()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal video event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		// 同一视频的事件落在同一分区，保证消费顺序
		Key:   []byte(fmt.Sprintf("video-%d", event.VideoID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send video event: %w", err)
	}

	logger.Debug("Video event sent",
		zap.Int64("video_id", event.VideoID),
		zap.String("type", event.Type),
		zap.String("topic", topic),
	)

	return nil
}

// Publisher 事件发布器，service 层通过它发事件，便于测试替换
type Publisher struct {
	topic string
}

func NewPublisher(topic string) *Publisher {
	return &Publisher{topic: topic}
}

func (p *Publisher) PublishVideoEvent(ctx context.Context, event *VideoEvent) error {
	return SendVideoEvent(ctx, p.topic, event)
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
