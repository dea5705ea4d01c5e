package handler_test

import (
	"context"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/service"
)

// --- Manual Mocks ---

// MockAuthService resolves the bearer token to a user id. The token "admin"
// belongs to an administrator.
type MockAuthService struct {
	EnsureProfileFunc func(ctx context.Context, id domain.Identity) error
	GetProfileFunc    func(ctx context.Context, userID string) (*domain.Profile, error)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "invalid" {
		return nil, service.ErrInvalidJWTToken
	}
	return &domain.Identity{UserID: token, Token: token}, nil
}
func (m *MockAuthService) EnsureProfile(ctx context.Context, id domain.Identity) error {
	if m.EnsureProfileFunc != nil {
		return m.EnsureProfileFunc(ctx, id)
	}
	panic("MockAuthService.EnsureProfileFunc not implemented")
}
func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	panic("MockAuthService.GetProfileFunc not implemented")
}
func (m *MockAuthService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return userID == "admin", nil
}

// MockCatalogService
type MockCatalogService struct {
	GetLevelContentFunc func(ctx context.Context, levelID string) (*domain.LevelContent, error)
}

func (m *MockCatalogService) ListPublishedLevels(ctx context.Context) ([]domain.Level, error) {
	panic("MockCatalogService.ListPublishedLevels not implemented")
}
func (m *MockCatalogService) GetLevel(ctx context.Context, levelID string) (*domain.Level, error) {
	panic("MockCatalogService.GetLevel not implemented")
}
func (m *MockCatalogService) GetLevelContent(ctx context.Context, levelID string) (*domain.LevelContent, error) {
	if m.GetLevelContentFunc != nil {
		return m.GetLevelContentFunc(ctx, levelID)
	}
	panic("MockCatalogService.GetLevelContentFunc not implemented")
}
func (m *MockCatalogService) Invalidate(ctx context.Context, levelID string) {}

// MockProgressService
type MockProgressService struct {
	GetLevelProgressFunc func(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error)
	ListLevelStatesFunc  func(ctx context.Context, userID string) ([]domain.LevelOverview, error)
	GetLevelStateFunc    func(ctx context.Context, userID, levelID string) (*domain.LevelOverview, error)
	EnsureAccessibleFunc func(ctx context.Context, userID, levelID string) (*domain.Level, error)
}

func (m *MockProgressService) RefreshLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error) {
	panic("MockProgressService.RefreshLevelProgress not implemented")
}
func (m *MockProgressService) GetLevelProgress(ctx context.Context, userID, levelID string) (*domain.ProgressBreakdown, error) {
	if m.GetLevelProgressFunc != nil {
		return m.GetLevelProgressFunc(ctx, userID, levelID)
	}
	panic("MockProgressService.GetLevelProgressFunc not implemented")
}
func (m *MockProgressService) ListLevelStates(ctx context.Context, userID string) ([]domain.LevelOverview, error) {
	if m.ListLevelStatesFunc != nil {
		return m.ListLevelStatesFunc(ctx, userID)
	}
	panic("MockProgressService.ListLevelStatesFunc not implemented")
}
func (m *MockProgressService) GetLevelState(ctx context.Context, userID, levelID string) (*domain.LevelOverview, error) {
	if m.GetLevelStateFunc != nil {
		return m.GetLevelStateFunc(ctx, userID, levelID)
	}
	panic("MockProgressService.GetLevelStateFunc not implemented")
}
func (m *MockProgressService) EnsureAccessible(ctx context.Context, userID, levelID string) (*domain.Level, error) {
	if m.EnsureAccessibleFunc != nil {
		return m.EnsureAccessibleFunc(ctx, userID, levelID)
	}
	panic("MockProgressService.EnsureAccessibleFunc not implemented")
}

// MockCompletionService
type MockCompletionService struct {
	CompleteLevelIfEligibleFunc func(ctx context.Context, userID, levelID string) (*domain.CompletionResult, error)
}

func (m *MockCompletionService) CompleteLevelIfEligible(ctx context.Context, userID, levelID string) (*domain.CompletionResult, error) {
	if m.CompleteLevelIfEligibleFunc != nil {
		return m.CompleteLevelIfEligibleFunc(ctx, userID, levelID)
	}
	panic("MockCompletionService.CompleteLevelIfEligibleFunc not implemented")
}

// MockActivityService
type MockActivityService struct {
	RecordVideoProgressFunc    func(ctx context.Context, id domain.Identity, videoID string, watched, position int) (*service.VideoProgressResult, error)
	SubmitQuizFunc             func(ctx context.Context, id domain.Identity, levelID string, answers []domain.QuizAnswer) (*domain.QuizResult, error)
	GetArtifactDownloadURLFunc func(ctx context.Context, id domain.Identity, artifactID string) (string, error)
	MarkArtifactDownloadedFunc func(ctx context.Context, id domain.Identity, artifactID string) (*service.ArtifactResult, error)
}

func (m *MockActivityService) RecordVideoProgress(ctx context.Context, id domain.Identity, videoID string, watched, position int) (*service.VideoProgressResult, error) {
	if m.RecordVideoProgressFunc != nil {
		return m.RecordVideoProgressFunc(ctx, id, videoID, watched, position)
	}
	panic("MockActivityService.RecordVideoProgressFunc not implemented")
}
func (m *MockActivityService) SubmitQuiz(ctx context.Context, id domain.Identity, levelID string, answers []domain.QuizAnswer) (*domain.QuizResult, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, id, levelID, answers)
	}
	panic("MockActivityService.SubmitQuizFunc not implemented")
}
func (m *MockActivityService) GetArtifactDownloadURL(ctx context.Context, id domain.Identity, artifactID string) (string, error) {
	if m.GetArtifactDownloadURLFunc != nil {
		return m.GetArtifactDownloadURLFunc(ctx, id, artifactID)
	}
	panic("MockActivityService.GetArtifactDownloadURLFunc not implemented")
}
func (m *MockActivityService) MarkArtifactDownloaded(ctx context.Context, id domain.Identity, artifactID string) (*service.ArtifactResult, error) {
	if m.MarkArtifactDownloadedFunc != nil {
		return m.MarkArtifactDownloadedFunc(ctx, id, artifactID)
	}
	panic("MockActivityService.MarkArtifactDownloadedFunc not implemented")
}

// MockBillingService
type MockBillingService struct {
	CreateCheckoutSessionFunc func(ctx context.Context, id domain.Identity, plan string) (*domain.CheckoutSession, error)
	CreatePortalSessionFunc   func(ctx context.Context, id domain.Identity) (string, error)
}

func (m *MockBillingService) CreateCheckoutSession(ctx context.Context, id domain.Identity, plan string) (*domain.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, id, plan)
	}
	panic("MockBillingService.CreateCheckoutSessionFunc not implemented")
}
func (m *MockBillingService) CreatePortalSession(ctx context.Context, id domain.Identity) (string, error) {
	if m.CreatePortalSessionFunc != nil {
		return m.CreatePortalSessionFunc(ctx, id)
	}
	panic("MockBillingService.CreatePortalSessionFunc not implemented")
}

// MockWebhookService
type MockWebhookService struct {
	ProcessEventFunc func(ctx context.Context, event *domain.PaymentEvent) (domain.WebhookOutcome, error)
}

func (m *MockWebhookService) ProcessEvent(ctx context.Context, event *domain.PaymentEvent) (domain.WebhookOutcome, error) {
	if m.ProcessEventFunc != nil {
		return m.ProcessEventFunc(ctx, event)
	}
	panic("MockWebhookService.ProcessEventFunc not implemented")
}

// MockPaymentGateway
type MockPaymentGateway struct {
	ParseWebhookFunc func(payload []byte, signature string) (*domain.PaymentEvent, error)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	panic("MockPaymentGateway.CreateCheckoutSession not implemented")
}
func (m *MockPaymentGateway) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	panic("MockPaymentGateway.CreatePortalSession not implemented")
}
func (m *MockPaymentGateway) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if m.ParseWebhookFunc != nil {
		return m.ParseWebhookFunc(payload, signature)
	}
	panic("MockPaymentGateway.ParseWebhookFunc not implemented")
}

// MockChatService
type MockChatService struct {
	AskFunc     func(ctx context.Context, id domain.Identity, message string, levelID *string) (*domain.ChatReply, error)
	HistoryFunc func(ctx context.Context, id domain.Identity) ([]domain.ChatMessage, error)
}

func (m *MockChatService) Ask(ctx context.Context, id domain.Identity, message string, levelID *string) (*domain.ChatReply, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, id, message, levelID)
	}
	panic("MockChatService.AskFunc not implemented")
}
func (m *MockChatService) History(ctx context.Context, id domain.Identity) ([]domain.ChatMessage, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, id)
	}
	panic("MockChatService.HistoryFunc not implemented")
}

// MockAdminService
type MockAdminService struct {
	RecordActionFunc      func(ctx context.Context, id domain.Identity, action, entityType, entityID string, details map[string]interface{}) (*domain.AdminLog, error)
	ListActionsFunc       func(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error)
	CreateLevelFunc       func(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error)
	UpdateLevelFunc       func(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error)
	ChangeLevelStatusFunc func(ctx context.Context, id domain.Identity, levelID string, status domain.LevelStatus) error
	CreateVideoFunc       func(ctx context.Context, id domain.Identity, video *domain.Video) (*domain.Video, error)
	CreateQuestionFunc    func(ctx context.Context, id domain.Identity, question *domain.QuizQuestion) (*domain.QuizQuestion, error)
	CreateArtifactFunc    func(ctx context.Context, id domain.Identity, artifact *domain.Artifact) (*domain.Artifact, error)
}

func (m *MockAdminService) RecordAction(ctx context.Context, id domain.Identity, action, entityType, entityID string, details map[string]interface{}) (*domain.AdminLog, error) {
	if m.RecordActionFunc != nil {
		return m.RecordActionFunc(ctx, id, action, entityType, entityID, details)
	}
	panic("MockAdminService.RecordActionFunc not implemented")
}
func (m *MockAdminService) ListActions(ctx context.Context, limit, offset int) ([]domain.AdminLog, int, error) {
	if m.ListActionsFunc != nil {
		return m.ListActionsFunc(ctx, limit, offset)
	}
	panic("MockAdminService.ListActionsFunc not implemented")
}
func (m *MockAdminService) CreateLevel(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error) {
	if m.CreateLevelFunc != nil {
		return m.CreateLevelFunc(ctx, id, level)
	}
	panic("MockAdminService.CreateLevelFunc not implemented")
}
func (m *MockAdminService) UpdateLevel(ctx context.Context, id domain.Identity, level *domain.Level) (*domain.Level, error) {
	if m.UpdateLevelFunc != nil {
		return m.UpdateLevelFunc(ctx, id, level)
	}
	panic("MockAdminService.UpdateLevelFunc not implemented")
}
func (m *MockAdminService) ChangeLevelStatus(ctx context.Context, id domain.Identity, levelID string, status domain.LevelStatus) error {
	if m.ChangeLevelStatusFunc != nil {
		return m.ChangeLevelStatusFunc(ctx, id, levelID, status)
	}
	panic("MockAdminService.ChangeLevelStatusFunc not implemented")
}
func (m *MockAdminService) CreateVideo(ctx context.Context, id domain.Identity, video *domain.Video) (*domain.Video, error) {
	if m.CreateVideoFunc != nil {
		return m.CreateVideoFunc(ctx, id, video)
	}
	panic("MockAdminService.CreateVideoFunc not implemented")
}
func (m *MockAdminService) CreateQuestion(ctx context.Context, id domain.Identity, question *domain.QuizQuestion) (*domain.QuizQuestion, error) {
	if m.CreateQuestionFunc != nil {
		return m.CreateQuestionFunc(ctx, id, question)
	}
	panic("MockAdminService.CreateQuestionFunc not implemented")
}
func (m *MockAdminService) CreateArtifact(ctx context.Context, id domain.Identity, artifact *domain.Artifact) (*domain.Artifact, error) {
	if m.CreateArtifactFunc != nil {
		return m.CreateArtifactFunc(ctx, id, artifact)
	}
	panic("MockAdminService.CreateArtifactFunc not implemented")
}

// MockCache
type MockCache struct {
	PingErr error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) { return "", domain.ErrCacheMiss }
func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return nil
}
func (m *MockCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (m *MockCache) Ping(ctx context.Context) error                  { return m.PingErr }

// MockPinger
type MockPinger struct {
	Err error
}

func (m MockPinger) PingContext(ctx context.Context) error { return m.Err }
