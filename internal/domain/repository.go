package domain

import (
	"context"
	"time"
)

// TransactionManager runs fn inside one database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Lookups return (nil, nil) when the row does not exist; services decide
// which not-found error to surface.

// LevelRepository reads and writes the level catalog.
type LevelRepository interface {
	ListPublishedLevels(ctx context.Context) ([]Level, error)
	ListAllLevels(ctx context.Context) ([]Level, error)
	GetLevelByID(ctx context.Context, id string) (*Level, error)
	GetLevelByOrderIndex(ctx context.Context, orderIndex int) (*Level, error)
	// GetNextPublishedLevel returns the published level with the lowest
	// order_index above orderIndex, or nil when there is none.
	GetNextPublishedLevel(ctx context.Context, orderIndex int) (*Level, error)

	ListVideosByLevel(ctx context.Context, levelID string) ([]Video, error)
	GetVideoByID(ctx context.Context, id string) (*Video, error)
	ListQuestionsByLevel(ctx context.Context, levelID string) ([]QuizQuestion, error)
	CountQuestionsByLevel(ctx context.Context, levelID string) (int, error)
	ListArtifactsByLevel(ctx context.Context, levelID string) ([]Artifact, error)
	GetArtifactByID(ctx context.Context, id string) (*Artifact, error)

	CreateLevel(ctx context.Context, level *Level) error
	UpdateLevel(ctx context.Context, level *Level) error
	UpdateLevelStatus(ctx context.Context, id string, status LevelStatus) error
	CreateVideo(ctx context.Context, video *Video) error
	CreateQuestion(ctx context.Context, question *QuizQuestion) error
	CreateArtifact(ctx context.Context, artifact *Artifact) error
}

// ProgressRepository stores per-user progress. Every write is an upsert on
// the row's natural key.
type ProgressRepository interface {
	GetProgress(ctx context.Context, userID, levelID string) (*UserProgress, error)
	ListProgressByUser(ctx context.Context, userID string) ([]UserProgress, error)
	// SaveProgressPercentages upserts the domain percentages and the
	// aggregate. A completed row keeps its status and 100%.
	SaveProgressPercentages(ctx context.Context, progress *UserProgress) error
	// MarkLevelCompleted reports whether the row transitioned to completed.
	MarkLevelCompleted(ctx context.Context, userID, levelID string) (bool, error)
	// CreateProgressIfAbsent inserts an in_progress row and reports whether one was created.
	CreateProgressIfAbsent(ctx context.Context, userID, levelID string) (bool, error)
	// UnlockLevel inserts an in_progress row or promotes a not_started one.
	UnlockLevel(ctx context.Context, userID, levelID string) (bool, error)
	// SaveQuizScore keeps the best of the stored and the given score.
	SaveQuizScore(ctx context.Context, userID, levelID string, score int) (int, error)

	ListVideoProgressByLevel(ctx context.Context, userID, levelID string) ([]VideoProgress, error)
	GetVideoProgress(ctx context.Context, userID, videoID string) (*VideoProgress, error)
	// SaveVideoProgress keeps the maximum watched seconds and a sticky completion flag.
	SaveVideoProgress(ctx context.Context, progress *VideoProgress) error

	ListDownloadedArtifactIDs(ctx context.Context, userID, levelID string) ([]string, error)
	MarkArtifactDownloaded(ctx context.Context, userID, artifactID string) (bool, error)
}

// BillingRepository stores subscriptions, payments and webhook bookkeeping.
type BillingRepository interface {
	// ClaimWebhookEvent records the event id; false means it was already claimed.
	ClaimWebhookEvent(ctx context.Context, eventID, eventType string) (bool, error)
	RecordWebhookError(ctx context.Context, webhookErr *WebhookError) error

	UpsertSubscription(ctx context.Context, sub *Subscription) error
	GetSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*Subscription, error)
	GetLatestSubscriptionByUser(ctx context.Context, userID string) (*Subscription, error)
	// ExpireLapsedSubscriptions marks entitling subscriptions whose period ended before cutoff as expired.
	ExpireLapsedSubscriptions(ctx context.Context, cutoff time.Time) (int64, error)

	// InsertPayment reports false when the provider payment id is already recorded.
	InsertPayment(ctx context.Context, payment *Payment) (bool, error)
}

// ProfileRepository reads and writes application profiles.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	EnsureProfile(ctx context.Context, profile *Profile) error
	UpdateCurrentPlan(ctx context.Context, userID string, plan Plan) error
	GetDisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

// ChatRepository stores assistant conversations and the FAQ.
type ChatRepository interface {
	SaveMessage(ctx context.Context, msg *ChatMessage) error
	// ListRecentMessages returns the newest limit messages in chronological order.
	ListRecentMessages(ctx context.Context, userID string, limit int) ([]ChatMessage, error)
	ListFAQ(ctx context.Context) ([]FAQEntry, error)
	UpsertFAQ(ctx context.Context, entry *FAQEntry) error
}

// AdminLogRepository stores the admin action log.
type AdminLogRepository interface {
	CreateLog(ctx context.Context, entry *AdminLog) error
	ListLogs(ctx context.Context, limit, offset int) ([]AdminLog, int, error)
}
