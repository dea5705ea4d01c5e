package models

import (
	"database/sql"
	"time"
)

// UserProgress maps the user_progress table.
type UserProgress struct {
	ID                  string        `db:"id"`
	UserID              string        `db:"user_id"`
	LevelID             string        `db:"level_id"`
	Status              string        `db:"status"`
	CompletedPercentage int           `db:"completed_percentage"`
	QuizScore           sql.NullInt32 `db:"quiz_score"`
	VideoPercentage     int           `db:"video_percentage"`
	QuizPercentage      int           `db:"quiz_percentage"`
	ArtifactsPercentage int           `db:"artifacts_percentage"`
	StartedAt           sql.NullTime  `db:"started_at"`
	CompletedAt         sql.NullTime  `db:"completed_at"`
	CreatedAt           time.Time     `db:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at"`
}

// UserVideoProgress maps the user_video_progress table.
type UserVideoProgress struct {
	UserID         string    `db:"user_id"`
	VideoID        string    `db:"video_id"`
	WatchedSeconds int       `db:"watched_seconds"`
	LastPosition   int       `db:"last_position"`
	IsCompleted    bool      `db:"is_completed"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Profile maps the profiles table.
type Profile struct {
	ID          string         `db:"id"`
	Email       string         `db:"email"`
	DisplayName string         `db:"display_name"`
	Role        string         `db:"role"`
	CurrentPlan sql.NullString `db:"current_plan"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
