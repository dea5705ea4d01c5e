package handler

import (
	"bizlevel/internal/domain"
	"bizlevel/internal/dto"
	"bizlevel/internal/service"
	"bizlevel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves content management and the admin action log.
// Routes are mounted behind middleware.AdminOnly.
type AdminHandler struct {
	admin     service.AdminService
	validator *validation.Validator
}

func NewAdminHandler(admin service.AdminService, validator *validation.Validator) *AdminHandler {
	return &AdminHandler{admin: admin, validator: validator}
}

// ListLogs handles GET /api/admin/logs?limit=&offset=&page=
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	var p dto.Pagination
	if err := c.QueryParser(&p); err != nil {
		return domain.NewInvalidInputError("Invalid pagination parameters")
	}
	p = p.Normalize()

	logs, total, err := h.admin.ListActions(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []domain.AdminLog{}
	}
	return c.JSON(dto.AdminLogsResponse{
		Logs:           logs,
		PaginationInfo: dto.NewPaginationInfo(p, int64(total)),
	})
}

// CreateLog handles POST /api/admin/logs
func (h *AdminHandler) CreateLog(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.AdminLogRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	entry, err := h.admin.RecordAction(c.UserContext(), id, req.Action, req.EntityType, req.EntityID, req.Details)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// CreateLevel handles POST /api/admin/levels
func (h *AdminHandler) CreateLevel(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.LevelRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	level, err := h.admin.CreateLevel(c.UserContext(), id, levelFromRequest("", req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(level)
}

// UpdateLevel handles PUT /api/admin/levels/:id
func (h *AdminHandler) UpdateLevel(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.LevelRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	level, err := h.admin.UpdateLevel(c.UserContext(), id, levelFromRequest(c.Params("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(level)
}

// ChangeLevelStatus handles PATCH /api/admin/levels/:id/status
func (h *AdminHandler) ChangeLevelStatus(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.LevelStatusRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	if err := h.admin.ChangeLevelStatus(c.UserContext(), id, c.Params("id"), domain.LevelStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "status updated"})
}

// CreateVideo handles POST /api/admin/levels/:id/videos
func (h *AdminHandler) CreateVideo(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.VideoRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	video, err := h.admin.CreateVideo(c.UserContext(), id, &domain.Video{
		LevelID:         c.Params("id"),
		Title:           req.Title,
		OrderIndex:      req.OrderIndex,
		DurationSeconds: req.DurationSeconds,
		YoutubeID:       req.YoutubeID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// CreateQuestion handles POST /api/admin/levels/:id/questions
func (h *AdminHandler) CreateQuestion(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	question, err := h.admin.CreateQuestion(c.UserContext(), id, &domain.QuizQuestion{
		LevelID:        c.Params("id"),
		VideoID:        req.VideoID,
		Question:       req.Question,
		Options:        req.Options,
		CorrectOptions: req.CorrectOptions,
		Type:           domain.QuestionType(req.Type),
		OrderIndex:     req.OrderIndex,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// CreateArtifact handles POST /api/admin/levels/:id/artifacts
func (h *AdminHandler) CreateArtifact(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.ArtifactRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	artifact, err := h.admin.CreateArtifact(c.UserContext(), id, &domain.Artifact{
		LevelID:    c.Params("id"),
		Title:      req.Title,
		FilePath:   req.FilePath,
		IsRequired: req.IsRequired,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(artifact)
}

func levelFromRequest(levelID string, req dto.LevelRequest) *domain.Level {
	return &domain.Level{
		ID:           levelID,
		Title:        req.Title,
		Description:  req.Description,
		OrderIndex:   req.OrderIndex,
		IsFree:       req.IsFree,
		ThumbnailURL: req.ThumbnailURL,
	}
}
