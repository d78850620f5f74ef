// Package mq 提供审核事件的发布与投递
// channel 模式在进程内投递，kafka 模式经由 Kafka 主题投递，两者最终都交给 EventSink
package mq

import "context"

// Publisher Service 层只依赖发布能力
type Publisher interface {
	Publish(ctx context.Context, event ModerationEvent) error
}

// Broker 事件代理
type Broker interface {
	Publisher
	// Start 启动消费循环，阻塞直到 Close
	Start()
	// Close 关闭代理资源
	Close()
}

// EventSink 事件的最终接收方（管理员 WebSocket Hub）
// 用于解耦 mq 包对 gateway 包的依赖
type EventSink interface {
	Deliver(payload []byte)
}
