package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus carries progress events between API instances over Redis pub/sub.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

// NewRedisBus returns a bus bound to channel.
func NewRedisBus(rdb *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = "bizlevel:progress"
	}
	return &RedisBus{rdb: rdb, channel: channel}
}

// PublishProgress implements domain.ProgressPublisher.
func (b *RedisBus) PublishProgress(ctx context.Context, event domain.ProgressEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis progress bus not initialized")
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, string(raw)).Err()
}

// StartForwarder subscribes to the channel and hands every decoded event to
// onEvent until ctx is done.
func (b *RedisBus) StartForwarder(ctx context.Context, onEvent func(domain.ProgressEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis progress bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var event domain.ProgressEvent
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Get().Warn("Bad progress event payload", zap.Error(err))
					continue
				}
				onEvent(event)
			}
		}
	}()

	return nil
}
