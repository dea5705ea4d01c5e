package handler

import (
	"bizlevel/internal/dto"
	"bizlevel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LevelHandler serves the learner's view of the curriculum.
type LevelHandler struct {
	catalog    service.CatalogService
	progress   service.ProgressService
	completion service.CompletionService
}

func NewLevelHandler(catalog service.CatalogService, progress service.ProgressService, completion service.CompletionService) *LevelHandler {
	return &LevelHandler{catalog: catalog, progress: progress, completion: completion}
}

// ListLevels handles GET /api/levels
func (h *LevelHandler) ListLevels(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	overviews, err := h.progress.ListLevelStates(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}

	levels := make([]dto.LevelSummary, 0, len(overviews))
	for _, ov := range overviews {
		levels = append(levels, dto.NewLevelSummary(ov))
	}
	return c.JSON(dto.LevelListResponse{Levels: levels})
}

// GetLevel handles GET /api/levels/:id
func (h *LevelHandler) GetLevel(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	levelID := c.Params("id")

	if _, err := h.progress.EnsureAccessible(ctx, id.UserID, levelID); err != nil {
		return err
	}
	content, err := h.catalog.GetLevelContent(ctx, levelID)
	if err != nil {
		return err
	}
	overview, err := h.progress.GetLevelState(ctx, id.UserID, levelID)
	if err != nil {
		return err
	}
	breakdown, err := h.progress.GetLevelProgress(ctx, id.UserID, levelID)
	if err != nil {
		return err
	}

	return c.JSON(dto.LevelDetailResponse{
		LevelSummary: dto.NewLevelSummary(*overview),
		Videos:       content.Videos,
		Questions:    dto.NewQuestionResponses(content.Questions),
		Artifacts:    content.Artifacts,
		Progress:     *breakdown,
	})
}

// CompleteLevel handles POST /api/levels/:id/complete. Unmet requirements
// are a 200 with success false.
func (h *LevelHandler) CompleteLevel(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	levelID := c.Params("id")

	if _, err := h.progress.EnsureAccessible(ctx, id.UserID, levelID); err != nil {
		return err
	}
	result, err := h.completion.CompleteLevelIfEligible(ctx, id.UserID, levelID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
