package dto

import "bizlevel/internal/domain"

// LevelSummary is one entry of the level list.
type LevelSummary struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	OrderIndex          int               `json:"order_index"`
	IsFree              bool              `json:"is_free"`
	ThumbnailURL        string            `json:"thumbnail_url,omitempty"`
	State               domain.LevelState `json:"state"`
	CompletedPercentage int               `json:"completed_percentage"`
	QuizScore           *int              `json:"quiz_score,omitempty"`
}

// LevelListResponse is the response of GET /api/levels.
type LevelListResponse struct {
	Levels []LevelSummary `json:"levels"`
}

// QuestionResponse is a quiz question without its answer key.
type QuestionResponse struct {
	ID         string              `json:"id"`
	VideoID    *string             `json:"video_id,omitempty"`
	Question   string              `json:"question"`
	Options    []string            `json:"options"`
	Type       domain.QuestionType `json:"question_type"`
	OrderIndex int                 `json:"order_index"`
}

// LevelDetailResponse is the response of GET /api/levels/:id.
type LevelDetailResponse struct {
	LevelSummary
	Videos    []domain.Video           `json:"videos"`
	Questions []QuestionResponse       `json:"questions"`
	Artifacts []domain.Artifact        `json:"artifacts"`
	Progress  domain.ProgressBreakdown `json:"progress"`
}

// NewLevelSummary maps a dashboard entry.
func NewLevelSummary(ov domain.LevelOverview) LevelSummary {
	return LevelSummary{
		ID:                  ov.Level.ID,
		Title:               ov.Level.Title,
		Description:         ov.Level.Description,
		OrderIndex:          ov.Level.OrderIndex,
		IsFree:              ov.Level.IsFree,
		ThumbnailURL:        ov.Level.ThumbnailURL,
		State:               ov.State,
		CompletedPercentage: ov.CompletedPercentage,
		QuizScore:           ov.QuizScore,
	}
}

// NewQuestionResponses strips the answer key from questions.
func NewQuestionResponses(questions []domain.QuizQuestion) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponse{
			ID:         q.ID,
			VideoID:    q.VideoID,
			Question:   q.Question,
			Options:    q.Options,
			Type:       q.Type,
			OrderIndex: q.OrderIndex,
		})
	}
	return out
}
