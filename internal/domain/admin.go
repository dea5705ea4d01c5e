package domain

import "time"

// Admin actions recorded for content writes.
const (
	ActionCreateLevel       = "create_level"
	ActionUpdateLevel       = "update_level"
	ActionChangeLevelStatus = "change_level_status"
	ActionCreateVideo       = "create_video"
	ActionCreateQuestion    = "create_question"
	ActionCreateArtifact    = "create_artifact"
)

// AdminLog is one entry of the admin action log. AdminName is filled on read
// and may be empty when the profile lookup fails.
type AdminLog struct {
	ID         string                 `json:"id"`
	AdminID    string                 `json:"admin_id"`
	AdminName  string                 `json:"admin_name"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
