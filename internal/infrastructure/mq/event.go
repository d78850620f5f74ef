package mq

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ModerationEvent 审核事件：实体进入待审核或完成一次状态流转时发布
type ModerationEvent struct {
	EntityType string    `json:"entity_type"`
	EntityId   string    `json:"entity_id"`
	From       string    `json:"from,omitempty"` // 新建即进入待审核时为空
	To         string    `json:"to"`
	ActorId    string    `json:"actor_id"`
	At         time.Time `json:"at"`
}

// Emit 发布事件，失败只记录日志，不影响已经提交的业务操作
func Emit(ctx context.Context, p Publisher, event ModerationEvent) {
	if p == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, event); err != nil {
		zap.L().Warn("publish moderation event failed",
			zap.String("entity_type", event.EntityType),
			zap.String("entity_id", event.EntityId),
			zap.Error(err))
	}
}
