package domain

import (
	"context"
	"time"
)

// ProgressEvent announces a change to a user's progress on a level.
type ProgressEvent struct {
	UserID     string         `json:"user_id"`
	LevelID    string         `json:"level_id"`
	Status     ProgressStatus `json:"status"`
	Percentage int            `json:"percentage"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ProgressPublisher fans progress events out to stream subscribers.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, event ProgressEvent) error
}

// ProgressSubscriber delivers one user's progress events. The channel is
// closed once ctx is done.
type ProgressSubscriber interface {
	Subscribe(ctx context.Context, userID string) <-chan ProgressEvent
}

// URLSigner issues time limited download URLs for stored objects.
type URLSigner interface {
	SignedURL(ctx context.Context, objectPath string, ttl time.Duration) (string, error)
}
