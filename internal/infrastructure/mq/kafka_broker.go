package mq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"community_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker 分布式模式
// 每个实例都以独立消费者组读取主题，保证连在任一实例上的管理员都能收到事件
type KafkaBroker struct {
	producer *kafka.Writer
	consumer *kafka.Reader
	sink     EventSink
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewKafkaBroker 创建 Kafka 事件代理
// instanceId 拼接到消费者组名后，使各实例独立消费；重启后沿用同一个消费者组
func NewKafkaBroker(conf *config.KafkaConfig, instanceId string, sink EventSink) *KafkaBroker {
	timeout := conf.Timeout * time.Second
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaBroker{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.ModerationTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: false,
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{conf.HostPort},
			Topic:          conf.ModerationTopic,
			CommitInterval: timeout,
			GroupID:        conf.ConsumerGroup + "-" + instanceId,
			StartOffset:    kafka.LastOffset,
		}),
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish 以实体 id 作为分区键，同一实体的事件保持顺序
func (k *KafkaBroker) Publish(ctx context.Context, event ModerationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntityId),
		Value: payload,
	})
}

// Start 从 Kafka 读取事件并投递给 EventSink
func (k *KafkaBroker) Start() {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("kafka moderation consumer panic", zap.Any("recover", r))
		}
	}()
	var delay time.Duration
	for {
		msg, err := k.consumer.ReadMessage(k.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			delay = nextBackoff(delay)
			zap.L().Error("read moderation event failed", zap.Duration("retry_in", delay), zap.Error(err))
			if !sleepCtx(k.ctx, delay) {
				return
			}
			continue
		}
		delay = 0
		zap.L().Debug("moderation event received",
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
		k.sink.Deliver(msg.Value)
	}
}

const (
	minReadBackoff = 200 * time.Millisecond
	maxReadBackoff = 10 * time.Second
)

// nextBackoff 读取失败后的等待时间，从 minReadBackoff 开始翻倍，封顶 maxReadBackoff
func nextBackoff(cur time.Duration) time.Duration {
	if cur < minReadBackoff {
		return minReadBackoff
	}
	if next := cur * 2; next < maxReadBackoff {
		return next
	}
	return maxReadBackoff
}

// sleepCtx 等待 d，ctx 取消时提前返回 false
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Close 关闭生产者和消费者
func (k *KafkaBroker) Close() {
	k.cancel()
	if err := k.producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := k.consumer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

var _ Broker = (*KafkaBroker)(nil)
