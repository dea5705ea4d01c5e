package handler

import (
	"time"

	"bizlevel/internal/dto"
	"bizlevel/internal/service"
	"bizlevel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ActivityHandler records learner activity: video watching, quizzes and downloads.
type ActivityHandler struct {
	activity  service.ActivityService
	validator *validation.Validator
	urlTTL    time.Duration
}

func NewActivityHandler(activity service.ActivityService, validator *validation.Validator, urlTTL time.Duration) *ActivityHandler {
	if urlTTL <= 0 {
		urlTTL = service.ArtifactURLTTL
	}
	return &ActivityHandler{activity: activity, validator: validator, urlTTL: urlTTL}
}

// RecordVideoProgress handles POST /api/videos/:id/progress
func (h *ActivityHandler) RecordVideoProgress(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.VideoProgressRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	result, err := h.activity.RecordVideoProgress(c.UserContext(), id, c.Params("id"), req.WatchedSeconds, req.LastPosition)
	if err != nil {
		return err
	}
	return c.JSON(dto.VideoProgressResponse{
		Video:      result.Video,
		Progress:   result.Progress,
		Completion: result.Completion,
	})
}

// SubmitQuiz handles POST /api/levels/:id/quiz
func (h *ActivityHandler) SubmitQuiz(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.QuizSubmitRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	result, err := h.activity.SubmitQuiz(c.UserContext(), id, c.Params("id"), req.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetArtifactDownloadURL handles GET /api/artifacts/:id/download-url
func (h *ActivityHandler) GetArtifactDownloadURL(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	url, err := h.activity.GetArtifactDownloadURL(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DownloadURLResponse{URL: url, ExpiresIn: int(h.urlTTL.Seconds())})
}

// MarkArtifactDownloaded handles POST /api/artifacts/:id/downloaded
func (h *ActivityHandler) MarkArtifactDownloaded(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	result, err := h.activity.MarkArtifactDownloaded(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ArtifactDownloadedResponse{Progress: result.Progress, Completion: result.Completion})
}
