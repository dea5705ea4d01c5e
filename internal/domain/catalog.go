package domain

import (
	"sort"
	"strings"
	"time"
)

// LevelStatus is the publication state of a level.
type LevelStatus string

const (
	LevelStatusDraft     LevelStatus = "draft"
	LevelStatusPublished LevelStatus = "published"
	LevelStatusArchived  LevelStatus = "archived"
)

// IsValid reports whether s is a known publication state.
func (s LevelStatus) IsValid() bool {
	switch s {
	case LevelStatusDraft, LevelStatusPublished, LevelStatusArchived:
		return true
	}
	return false
}

// Level is one ordered unit of curriculum. OrderIndex defines the prerequisite chain.
type Level struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	OrderIndex   int         `json:"order_index"`
	IsFree       bool        `json:"is_free"`
	Status       LevelStatus `json:"status"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsPublished reports whether the level is visible to learners.
func (l Level) IsPublished() bool {
	return l.Status == LevelStatusPublished
}

// Video belongs to one level. DurationSeconds is nil when unknown.
type Video struct {
	ID              string    `json:"id"`
	LevelID         string    `json:"level_id"`
	Title           string    `json:"title"`
	OrderIndex      int       `json:"order_index"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	YoutubeID       string    `json:"youtube_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuestionType is the answer format of a quiz question.
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTextInput      QuestionType = "text_input"
)

// IsValid reports whether t is a known question type.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionTextInput:
		return true
	}
	return false
}

// QuizQuestion belongs to one level and optionally to one of its videos.
// CorrectOptions holds option indices; single choice questions use the first one.
type QuizQuestion struct {
	ID             string       `json:"id"`
	LevelID        string       `json:"level_id"`
	VideoID        *string      `json:"video_id,omitempty"`
	Question       string       `json:"question"`
	Options        []string     `json:"options"`
	CorrectOptions []int        `json:"correct_option"`
	Type           QuestionType `json:"question_type"`
	OrderIndex     int          `json:"order_index"`
}

// QuizAnswer is one submitted answer. Selected carries option indices,
// Text carries the free-form answer of a text_input question.
type QuizAnswer struct {
	QuestionID string `json:"question_id"`
	Selected   []int  `json:"selected"`
	Text       string `json:"text"`
}

// IsCorrect grades a single answer against the question.
func (q QuizQuestion) IsCorrect(answer QuizAnswer) bool {
	switch q.Type {
	case QuestionMultipleChoice:
		return sameIndexSet(q.CorrectOptions, answer.Selected)
	case QuestionTextInput:
		given := normalizeAnswer(answer.Text)
		if given == "" {
			return false
		}
		for _, idx := range q.CorrectOptions {
			if idx >= 0 && idx < len(q.Options) && normalizeAnswer(q.Options[idx]) == given {
				return true
			}
		}
		return false
	default:
		if len(q.CorrectOptions) == 0 || len(answer.Selected) != 1 {
			return false
		}
		return answer.Selected[0] == q.CorrectOptions[0]
	}
}

func sameIndexSet(want, got []int) bool {
	a := dedupSorted(want)
	b := dedupSorted(got)
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dedupSorted(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Artifact is a downloadable file. Required artifacts gate level completion.
type Artifact struct {
	ID         string    `json:"id"`
	LevelID    string    `json:"level_id"`
	Title      string    `json:"title"`
	FilePath   string    `json:"file_path"`
	IsRequired bool      `json:"is_required"`
	CreatedAt  time.Time `json:"created_at"`
}

// LevelContent is a level with its child entities.
type LevelContent struct {
	Level     Level          `json:"level"`
	Videos    []Video        `json:"videos"`
	Questions []QuizQuestion `json:"questions"`
	Artifacts []Artifact     `json:"artifacts"`
}

// SortLevels orders levels by OrderIndex in place.
func SortLevels(levels []Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].OrderIndex < levels[j].OrderIndex
	})
}
