package domain

import (
	"math"
	"time"

	"bizlevel/internal/util"
)

const (
	// VideoCompletionThreshold is the watched share at which a video counts as completed.
	VideoCompletionThreshold = 0.85
	// QuizPassingScore is the minimum quiz score that meets the quiz requirement.
	QuizPassingScore = 70

	VideoWeight    = 0.6
	QuizWeight     = 0.3
	ArtifactWeight = 0.1
)

// ProgressStatus is the stored status of a user_progress row.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// LevelState is the derived state of a level for one user.
type LevelState string

const (
	LevelLocked     LevelState = "locked"
	LevelAvailable  LevelState = "available"
	LevelInProgress LevelState = "in_progress"
	LevelCompleted  LevelState = "completed"
)

// UserProgress is the single progress row of a user for a level.
type UserProgress struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"user_id"`
	LevelID             string         `json:"level_id"`
	Status              ProgressStatus `json:"status"`
	CompletedPercentage int            `json:"completed_percentage"`
	QuizScore           *int           `json:"quiz_score,omitempty"`
	VideoPercentage     int            `json:"video_percentage"`
	QuizPercentage      int            `json:"quiz_percentage"`
	ArtifactsPercentage int            `json:"artifacts_percentage"`
	StartedAt           *time.Time     `json:"started_at,omitempty"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// IsCompleted reports whether the row counts as a completed level.
func (p UserProgress) IsCompleted() bool {
	return p.Status == ProgressCompleted || p.CompletedPercentage >= 100
}

// VideoProgress is the watch record of a user for one video.
type VideoProgress struct {
	UserID         string    `json:"user_id"`
	VideoID        string    `json:"video_id"`
	WatchedSeconds int       `json:"watched_seconds"`
	LastPosition   int       `json:"last_position"`
	IsCompleted    bool      `json:"is_completed"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsVideoWatched decides whether a video is completed. The watched share is
// authoritative; the stored flag is only consulted when the duration is unknown.
func IsVideoWatched(video Video, progress *VideoProgress) bool {
	if progress == nil {
		return false
	}
	if video.DurationSeconds == nil || *video.DurationSeconds <= 0 {
		return progress.IsCompleted
	}
	share := util.Ratio(float64(progress.WatchedSeconds), float64(*video.DurationSeconds))
	return share >= VideoCompletionThreshold
}

// AggregateProgress combines the domain percentages with fixed weights,
// renormalised over the domains that have any progress.
func AggregateProgress(videoPct, quizPct, artifactPct int) int {
	var weighted, used float64
	for _, d := range []struct {
		pct    int
		weight float64
	}{
		{videoPct, VideoWeight},
		{quizPct, QuizWeight},
		{artifactPct, ArtifactWeight},
	} {
		if d.pct <= 0 {
			continue
		}
		weighted += d.weight * float64(d.pct)
		used += d.weight
	}
	if used == 0 {
		return 0
	}
	return util.ClampPercent(int(math.Round(weighted / used)))
}

// CalculateLevelState derives the state of the level at orderIndex from the
// published curriculum and the user's progress rows. The chain is strictly
// linear over published levels: a level is locked until the published level
// with the next lower order_index has a completed row. Gaps left by draft or
// archived levels do not break the chain.
func CalculateLevelState(orderIndex int, levels []Level, progress []UserProgress) LevelState {
	byLevel := make(map[string]UserProgress, len(progress))
	for _, p := range progress {
		byLevel[p.LevelID] = p
	}

	var current, previous *Level
	for i := range levels {
		l := &levels[i]
		switch {
		case l.OrderIndex == orderIndex:
			current = l
		case l.OrderIndex < orderIndex && (previous == nil || l.OrderIndex > previous.OrderIndex):
			previous = l
		}
	}

	state := LevelAvailable
	if previous != nil {
		prev, ok := byLevel[previous.ID]
		if !ok || !prev.IsCompleted() {
			state = LevelLocked
		}
	}

	if current != nil {
		if own, ok := byLevel[current.ID]; ok {
			switch own.Status {
			case ProgressCompleted:
				return LevelCompleted
			case ProgressInProgress:
				return LevelInProgress
			}
		}
	}
	return state
}

// ProgressBreakdown is the live per-domain view of a level for one user.
type ProgressBreakdown struct {
	VideoPercentage     int  `json:"video_percentage"`
	QuizPercentage      int  `json:"quiz_percentage"`
	ArtifactsPercentage int  `json:"artifacts_percentage"`
	Overall             int  `json:"completed_percentage"`
	VideosCompleted     bool `json:"videos_completed"`
	QuizPassed          bool `json:"quiz_passed"`
	ArtifactsDownloaded bool `json:"artifacts_downloaded"`
}

// CompletionConditions lists which requirements of a level are met.
type CompletionConditions struct {
	VideosCompleted     bool `json:"videos_completed"`
	QuizPassed          bool `json:"quiz_passed"`
	ArtifactsDownloaded bool `json:"artifacts_downloaded"`
}

// AllMet reports whether the level can be completed.
func (c CompletionConditions) AllMet() bool {
	return c.VideosCompleted && c.QuizPassed && c.ArtifactsDownloaded
}

// Unmet names the requirements that are not met.
func (c CompletionConditions) Unmet() []string {
	var unmet []string
	if !c.VideosCompleted {
		unmet = append(unmet, "videos")
	}
	if !c.QuizPassed {
		unmet = append(unmet, "quiz")
	}
	if !c.ArtifactsDownloaded {
		unmet = append(unmet, "artifacts")
	}
	return unmet
}

// NextLevel describes a level that was unlocked by a completion.
type NextLevel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CompletionResult is the outcome of a completion attempt. Unmet
// requirements are reported with Success false, not as an error.
type CompletionResult struct {
	Success    bool                 `json:"success"`
	Status     ProgressStatus       `json:"status"`
	Conditions CompletionConditions `json:"conditions"`
	Unmet      []string             `json:"unmet,omitempty"`
	NextLevel  *NextLevel           `json:"next_level,omitempty"`
}

// LevelOverview is one dashboard entry.
type LevelOverview struct {
	Level               Level      `json:"level"`
	State               LevelState `json:"state"`
	CompletedPercentage int        `json:"completed_percentage"`
	QuizScore           *int       `json:"quiz_score,omitempty"`
}

// BuildLevelOverviews derives the state of every level for one user.
func BuildLevelOverviews(levels []Level, progress []UserProgress) []LevelOverview {
	byLevel := make(map[string]UserProgress, len(progress))
	for _, p := range progress {
		byLevel[p.LevelID] = p
	}
	out := make([]LevelOverview, 0, len(levels))
	for _, l := range levels {
		ov := LevelOverview{
			Level: l,
			State: CalculateLevelState(l.OrderIndex, levels, progress),
		}
		if p, ok := byLevel[l.ID]; ok {
			ov.CompletedPercentage = p.CompletedPercentage
			ov.QuizScore = p.QuizScore
		}
		out = append(out, ov)
	}
	return out
}

// QuestionResult reports the grading of one question.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
}

// QuizResult is the outcome of a quiz submission.
type QuizResult struct {
	Score      int               `json:"score"`
	BestScore  int               `json:"best_score"`
	Passed     bool              `json:"passed"`
	Results    []QuestionResult  `json:"results"`
	Completion *CompletionResult `json:"completion,omitempty"`
}

// GradeQuiz scores answers against the level's questions. Unanswered
// questions count as wrong. The score is round(100 * correct / total).
func GradeQuiz(questions []QuizQuestion, answers []QuizAnswer) (int, []QuestionResult) {
	byQuestion := make(map[string]QuizAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	results := make([]QuestionResult, 0, len(questions))
	correct := 0
	for _, q := range questions {
		a, ok := byQuestion[q.ID]
		ok = ok && q.IsCorrect(a)
		if ok {
			correct++
		}
		results = append(results, QuestionResult{QuestionID: q.ID, Correct: ok})
	}
	return util.RoundPercent(correct, len(questions)), results
}
