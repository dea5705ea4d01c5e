package handler

import (
	"bizlevel/internal/middleware"
	"bizlevel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Router mounts every API route on a Fiber app.
type Router struct {
	Auth            service.AuthService
	Validation      *middleware.ValidationMiddleware
	ChatRateLimit   int
	Health          *HealthHandler
	Levels          *LevelHandler
	Activity        *ActivityHandler
	Billing         *BillingHandler
	Chat            *ChatHandler
	Admin           *AdminHandler
	Profile         *ProfileHandler
	Stream          *StreamHandler
	MetricsEndpoint fiber.Handler
}

// Register wires the public, learner and admin route groups.
func (r *Router) Register(app *fiber.App) {
	app.Get("/health", r.Health.Health)
	if r.MetricsEndpoint != nil {
		app.Get("/metrics", r.MetricsEndpoint)
	}

	api := app.Group("/api")
	validID := r.Validation.ValidateIDParam("id")

	// Signed by the payment provider, not by a user token.
	api.Post("/webhooks/stripe", r.Billing.HandleStripeWebhook)

	protected := middleware.Protected(r.Auth)

	api.Get("/profile", protected, r.Profile.GetMyProfile)

	levels := api.Group("/levels", protected)
	levels.Get("/", r.Levels.ListLevels)
	levels.Get("/:id", validID, r.Levels.GetLevel)
	levels.Post("/:id/complete", validID, r.Levels.CompleteLevel)
	levels.Post("/:id/quiz", validID, r.Activity.SubmitQuiz)

	api.Post("/videos/:id/progress", protected, validID, r.Activity.RecordVideoProgress)
	api.Get("/artifacts/:id/download-url", protected, validID, r.Activity.GetArtifactDownloadURL)
	api.Post("/artifacts/:id/downloaded", protected, validID, r.Activity.MarkArtifactDownloaded)

	api.Get("/progress/stream", protected, r.Stream.Stream)

	billing := api.Group("/billing", protected)
	billing.Post("/checkout-session", r.Billing.CreateCheckoutSession)
	billing.Post("/portal-session", r.Billing.CreatePortalSession)

	chat := api.Group("/chat", protected)
	chat.Post("/", middleware.PerUserRateLimit(r.ChatRateLimit), r.Chat.Ask)
	chat.Get("/history", r.Chat.History)

	admin := api.Group("/admin", protected, middleware.AdminOnly(r.Auth))
	admin.Get("/logs", r.Admin.ListLogs)
	admin.Post("/logs", r.Admin.CreateLog)
	admin.Post("/levels", r.Admin.CreateLevel)
	admin.Put("/levels/:id", validID, r.Admin.UpdateLevel)
	admin.Patch("/levels/:id/status", validID, r.Admin.ChangeLevelStatus)
	admin.Post("/levels/:id/videos", validID, r.Admin.CreateVideo)
	admin.Post("/levels/:id/questions", validID, r.Admin.CreateQuestion)
	admin.Post("/levels/:id/artifacts", validID, r.Admin.CreateArtifact)
}
