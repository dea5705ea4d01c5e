package dto

import "bizlevel/internal/domain"

// LevelRequest creates or updates a level.
type LevelRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	OrderIndex   int    `json:"order_index" validate:"required,min=1,max=1000"`
	IsFree       bool   `json:"is_free"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

// LevelStatusRequest changes the publication status of a level.
type LevelStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

// VideoRequest adds a video to a level.
type VideoRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	OrderIndex      int    `json:"order_index" validate:"min=0"`
	DurationSeconds *int   `json:"duration_seconds" validate:"omitempty,min=0"`
	YoutubeID       string `json:"youtube_id" validate:"required,max=64"`
}

// QuestionRequest adds a quiz question to a level.
type QuestionRequest struct {
	VideoID        *string  `json:"video_id" validate:"omitempty,uuid"`
	Question       string   `json:"question" validate:"required,max=2000"`
	Options        []string `json:"options" validate:"required,min=1,max=10,dive,required"`
	CorrectOptions []int    `json:"correct_option" validate:"required,min=1,dive,min=0"`
	Type           string   `json:"question_type" validate:"required,oneof=single_choice multiple_choice text_input"`
	OrderIndex     int      `json:"order_index" validate:"min=0"`
}

// ArtifactRequest adds a downloadable artifact to a level.
type ArtifactRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	FilePath   string `json:"file_path" validate:"required,max=1024"`
	IsRequired bool   `json:"is_required"`
}

// AdminLogRequest records a free-form admin action.
type AdminLogRequest struct {
	Action     string                 `json:"action" validate:"required,max=100"`
	EntityType string                 `json:"entity_type" validate:"required,max=100"`
	EntityID   string                 `json:"entity_id" validate:"required,max=100"`
	Details    map[string]interface{} `json:"details"`
}

// AdminLogsResponse is a page of the admin action log.
type AdminLogsResponse struct {
	Logs           []domain.AdminLog `json:"logs"`
	PaginationInfo PaginationInfo    `json:"pagination_info"`
}
