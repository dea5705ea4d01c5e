package models

import (
	"database/sql"
	"time"
)

// Level maps the levels table.
type Level struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	OrderIndex   int            `db:"order_index"`
	IsFree       bool           `db:"is_free"`
	Status       string         `db:"status"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// Video maps the videos table.
type Video struct {
	ID              string        `db:"id"`
	LevelID         string        `db:"level_id"`
	Title           string        `db:"title"`
	OrderIndex      int           `db:"order_index"`
	DurationSeconds sql.NullInt32 `db:"duration_seconds"`
	YoutubeID       string        `db:"youtube_id"`
	CreatedAt       time.Time     `db:"created_at"`
}

// QuizQuestion maps the quiz_questions table.
type QuizQuestion struct {
	ID            string         `db:"id"`
	LevelID       string         `db:"level_id"`
	VideoID       sql.NullString `db:"video_id"`
	Question      string         `db:"question"`
	Options       StringSlice    `db:"options"`
	CorrectOption IntSlice       `db:"correct_option"`
	QuestionType  string         `db:"question_type"`
	OrderIndex    int            `db:"order_index"`
}

// Artifact maps the artifacts table.
type Artifact struct {
	ID         string    `db:"id"`
	LevelID    string    `db:"level_id"`
	Title      string    `db:"title"`
	FilePath   string    `db:"file_path"`
	IsRequired bool      `db:"is_required"`
	CreatedAt  time.Time `db:"created_at"`
}
