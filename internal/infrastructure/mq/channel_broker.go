package mq

import (
	"context"
	"encoding/json"
	"sync"

	"community_server/pkg/constants"

	"go.uber.org/zap"
)

// ChannelBroker 单机模式，事件经缓冲通道转交给 EventSink
type ChannelBroker struct {
	events    chan []byte
	sink      EventSink
	closeOnce sync.Once
	done      chan struct{}
}

// NewChannelBroker 创建单机事件代理
func NewChannelBroker(sink EventSink) *ChannelBroker {
	return &ChannelBroker{
		events: make(chan []byte, constants.CHANNEL_SIZE),
		sink:   sink,
		done:   make(chan struct{}),
	}
}

// Publish 通道已满时丢弃事件并记录日志，不阻塞业务请求
func (b *ChannelBroker) Publish(ctx context.Context, event ModerationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case <-b.done:
		return nil
	default:
	}
	select {
	case b.events <- payload:
	case <-ctx.Done():
		return ctx.Err()
	default:
		zap.L().Warn("moderation event channel full, dropping event",
			zap.String("entity_type", event.EntityType), zap.String("entity_id", event.EntityId))
	}
	return nil
}

// Start 消费循环
func (b *ChannelBroker) Start() {
	for {
		select {
		case payload := <-b.events:
			b.sink.Deliver(payload)
		case <-b.done:
			return
		}
	}
}

// Close 停止消费循环
func (b *ChannelBroker) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

var _ Broker = (*ChannelBroker)(nil)
