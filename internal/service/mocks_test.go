package service

import (
	"context"
	"time"

	"bizlevel/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockLevelRepository ---
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) ListPublishedLevels(ctx context.Context) ([]domain.Level, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Level), args.Error(1)
}

func (m *MockLevelRepository) ListAllLevels(ctx context.Context) ([]domain.Level, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Level), args.Error(1)
}

func (m *MockLevelRepository) GetLevelByID(ctx context.Context, id string) (*domain.Level, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Level), args.Error(1)
}

func (m *MockLevelRepository) GetLevelByOrderIndex(ctx context.Context, orderIndex int) (*domain.Level, error) {
	args := m.Called(ctx, orderIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Level), args.Error(1)
}

func (m *MockLevelRepository) GetNextPublishedLevel(ctx context.Context, orderIndex int) (*domain.Level, error) {
	args := m.Called(ctx, orderIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Level), args.Error(1)
}

func (m *MockLevelRepository) ListVideosByLevel(ctx context.Context, levelID string) ([]domain.Video, error) {
	args := m.Called(ctx, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Video), args.Error(1)
}

func (m *MockLevelRepository) GetVideoByID(ctx context.Context, id string) (*domain.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Video), args.Error(1)
}

func (m *MockLevelRepository) ListQuestionsByLevel(ctx context.Context, levelID string) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

func (m *MockLevelRepository) CountQuestionsByLevel(ctx context.Context, levelID string) (int, error) {
	args := m.Called(ctx, levelID)
	return args.Int(0), args.Error(1)
}

func (m *MockLevelRepository) ListArtifactsByLevel(ctx context.Context, levelID string) ([]domain.Artifact, error) {
	args := m.Called(ctx, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Artifact), args.Error(1)
}

func (m *MockLevelRepository) GetArtifactByID(ctx context.Context, id string) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockLevelRepository) CreateLevel(ctx context.Context, level *domain.Level) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockLevelRepository) UpdateLevel(ctx context.Context, level *domain.Level) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockLevelRepository) UpdateLevelStatus(ctx context.Context, id string, status domain.LevelStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLevelRepository) CreateVideo(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockLevelRepository) CreateQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockLevelRepository) CreateArtifact(ctx context.Context, artifact *domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

// --- MockProgressRepository ---
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetProgress(ctx context.Context, userID, levelID string) (*domain.UserProgress, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) ListProgressByUser(ctx context.Context, userID string) ([]domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) SaveProgressPercentages(ctx context.Context, progress *domain.UserProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) MarkLevelCompleted(ctx context.Context, userID, levelID string) (bool, error) {
	args := m.Called(ctx, userID, levelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) CreateProgressIfAbsent(ctx context.Context, userID, levelID string) (bool, error) {
	args := m.Called(ctx, userID, levelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) UnlockLevel(ctx context.Context, userID, levelID string) (bool, error) {
	args := m.Called(ctx, userID, levelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) SaveQuizScore(ctx context.Context, userID, levelID string, score int) (int, error) {
	args := m.Called(ctx, userID, levelID, score)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) ListVideoProgressByLevel(ctx context.Context, userID, levelID string) ([]domain.VideoProgress, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VideoProgress), args.Error(1)
}

func (m *MockProgressRepository) GetVideoProgress(ctx context.Context, userID, videoID string) (*domain.VideoProgress, error) {
	args := m.Called(ctx, userID, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoProgress), args.Error(1)
}

func (m *MockProgressRepository) SaveVideoProgress(ctx context.Context, progress *domain.VideoProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) ListDownloadedArtifactIDs(ctx context.Context, userID, levelID string) ([]string, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProgressRepository) MarkArtifactDownloaded(ctx context.Context, userID, artifactID string) (bool, error) {
	args := m.Called(ctx, userID, artifactID)
	return args.Bool(0), args.Error(1)
}

// --- MockBillingRepository ---
type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) ClaimWebhookEvent(ctx context.Context, eventID, eventType string) (bool, error) {
	args := m.Called(ctx, eventID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillingRepository) RecordWebhookError(ctx context.Context, webhookErr *domain.WebhookError) error {
	args := m.Called(ctx, webhookErr)
	return args.Error(0)
}

func (m *MockBillingRepository) UpsertSubscription(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockBillingRepository) GetSubscriptionByProviderID(ctx context.Context, providerSubscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, providerSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockBillingRepository) GetLatestSubscriptionByUser(ctx context.Context, userID string) (*domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockBillingRepository) ExpireLapsedSubscriptions(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) InsertPayment(ctx context.Context, payment *domain.Payment) (bool, error) {
	args := m.Called(ctx, payment)
	return args.Bool(0), args.Error(1)
}

// --- MockProfileRepository ---
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) EnsureProfile(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateCurrentPlan(ctx context.Context, userID string, plan domain.Plan) error {
	args := m.Called(ctx, userID, plan)
	return args.Error(0)
}

func (m *MockProfileRepository) GetDisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// --- MockChatRepository ---
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) SaveMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListRecentMessages(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) ListFAQ(ctx context.Context) ([]domain.FAQEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FAQEntry), args.Error(1)
}

func (m *MockChatRepository) UpsertFAQ(ctx context.Context, entry *domain.FAQEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- MockAdminLogRepository ---
type MockAdminLogRepository struct {
	mock.Mock
}

func (m *MockAdminLogRepository) CreateLog(ctx context.Context, entry *domain.AdminLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAdminLogRepository) ListLogs(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AdminLog), args.Int(1), args.Error(2)
}

// --- MockTransactionManager ---
// MockTransactionManager runs fn directly and counts the calls.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockPaymentGateway ---
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentEvent), args.Error(1)
}

// --- MockAssistant ---
type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- MockProgressPublisher ---
type MockProgressPublisher struct {
	mock.Mock
}

func (m *MockProgressPublisher) PublishProgress(ctx context.Context, event domain.ProgressEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- MockURLSigner ---
type MockURLSigner struct {
	mock.Mock
}

func (m *MockURLSigner) SignedURL(ctx context.Context, objectPath string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, objectPath, ttl)
	return args.String(0), args.Error(1)
}

// --- MockProgressService ---
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) RefreshLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressBreakdown), args.Error(1)
}

func (m *MockProgressService) GetLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressBreakdown), args.Error(1)
}

func (m *MockProgressService) ListLevelStates(ctx context.Context, userID string) ([]domain.LevelOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LevelOverview), args.Error(1)
}

func (m *MockProgressService) GetLevelState(ctx context.Context, userID, levelID string) (*domain.LevelOverview, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LevelOverview), args.Error(1)
}

func (m *MockProgressService) EnsureAccessible(ctx context.Context, userID, levelID string) (*domain.Level, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Level), args.Error(1)
}

// --- MockCompletionService ---
type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) CompleteLevelIfEligible(ctx context.Context, userID, levelID string) (*domain.CompletionResult, error) {
	args := m.Called(ctx, userID, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionResult), args.Error(1)
}
