package service

import (
	"context"
	"log/slog"
	"time"

	"social_graph/broker"
)

const publishTimeout = 3 * time.Second

// eventEmitter 发布领域事件；失败只记录日志，不影响请求结果
type eventEmitter struct {
	publisher broker.Publisher
	settings  *SettingsService
}

func (e eventEmitter) emit(ctx context.Context, ev broker.Event) {
	if e.publisher == nil || !e.settings.PublishEvents() {
		return
	}

	// 请求结束不应中断已提交变更的事件发布
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := e.publisher.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish event",
			slog.String("type", ev.Type),
			slog.String("user_id", ev.UserID),
			slog.String("error", err.Error()),
		)
	}
}
