package mq

import (
	"os"

	"community_server/internal/config"

	"go.uber.org/zap"
)

// NewBroker 按 messageMode 选择事件代理实现，默认 channel
func NewBroker(conf *config.KafkaConfig, sink EventSink) Broker {
	if conf.MessageMode == "kafka" {
		instanceId := instanceID(conf, os.Hostname)
		zap.L().Info("moderation events via kafka",
			zap.String("host", conf.HostPort), zap.String("topic", conf.ModerationTopic),
			zap.String("consumer_group", conf.ConsumerGroup+"-"+instanceId))
		return NewKafkaBroker(conf, instanceId, sink)
	}
	zap.L().Info("moderation events via in-process channel")
	return NewChannelBroker(sink)
}

// instanceID 优先使用配置的实例标识，其次主机名，保证重启后消费者组不变
func instanceID(conf *config.KafkaConfig, hostname func() (string, error)) string {
	if conf.InstanceId != "" {
		return conf.InstanceId
	}
	if name, err := hostname(); err == nil && name != "" {
		return name
	}
	return "default"
}
