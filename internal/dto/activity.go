package dto

import "bizlevel/internal/domain"

// VideoProgressRequest records watch progress of a video.
type VideoProgressRequest struct {
	WatchedSeconds int `json:"watched_seconds" validate:"min=0,max=86400"`
	LastPosition   int `json:"last_position" validate:"min=0,max=86400"`
}

// VideoProgressResponse echoes the stored record and the level breakdown.
type VideoProgressResponse struct {
	Video      domain.VideoProgress     `json:"video"`
	Progress   domain.ProgressBreakdown `json:"progress"`
	Completion *domain.CompletionResult `json:"completion,omitempty"`
}

// QuizAnswerRequest is one answer of a quiz submission.
type QuizAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Selected   []int  `json:"selected" validate:"omitempty,dive,min=0"`
	Text       string `json:"text" validate:"max=500"`
}

// QuizSubmitRequest submits all answers of a level quiz.
type QuizSubmitRequest struct {
	Answers []QuizAnswerRequest `json:"answers" validate:"required,min=1,max=100,dive"`
}

// ToDomain converts the request answers.
func (r QuizSubmitRequest) ToDomain() []domain.QuizAnswer {
	out := make([]domain.QuizAnswer, 0, len(r.Answers))
	for _, a := range r.Answers {
		out = append(out, domain.QuizAnswer{QuestionID: a.QuestionID, Selected: a.Selected, Text: a.Text})
	}
	return out
}

// DownloadURLResponse carries a signed artifact URL.
type DownloadURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// ArtifactDownloadedResponse reports the level state after a download.
type ArtifactDownloadedResponse struct {
	Progress   domain.ProgressBreakdown `json:"progress"`
	Completion *domain.CompletionResult `json:"completion,omitempty"`
}
