package seedmodels

// SeedVideo defines a video of a level in the JSON seed file.
type SeedVideo struct {
	Title           string `json:"title"`
	YoutubeID       string `json:"youtube_id"`
	DurationSeconds *int   `json:"duration_seconds"`
}

// SeedQuestion defines a quiz question. VideoIndex optionally links the
// question to a video of the same level by position (0-based).
type SeedQuestion struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectOptions []int    `json:"correct_option"`
	Type           string   `json:"question_type"`
	VideoIndex     *int     `json:"video_index"`
}

// SeedArtifact defines a downloadable file of a level.
type SeedArtifact struct {
	Title      string `json:"title"`
	FilePath   string `json:"file_path"`
	IsRequired bool   `json:"is_required"`
}

// SeedLevel defines one level with its content.
type SeedLevel struct {
	OrderIndex   int            `json:"order_index"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	IsFree       bool           `json:"is_free"`
	Status       string         `json:"status"`
	ThumbnailURL string         `json:"thumbnail_url"`
	Videos       []SeedVideo    `json:"videos"`
	Questions    []SeedQuestion `json:"questions"`
	Artifacts    []SeedArtifact `json:"artifacts"`
}

// SeedFAQ defines an assistant FAQ entry.
type SeedFAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SeedCatalog is the root of the seed file.
type SeedCatalog struct {
	Levels []SeedLevel `json:"levels"`
	FAQ    []SeedFAQ   `json:"faq"`
}
