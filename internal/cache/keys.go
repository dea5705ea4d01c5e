package cache

import "strings"

const (
	GlobalKeyPrefix = "bizlevel"

	catalogService = "catalog"
	chatService    = "chat"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// PublishedLevelsKey caches the ordered list of published levels.
func PublishedLevelsKey() string {
	return GenerateCacheKey(catalogService, "levels", "published")
}

// LevelContentKey caches one level with its videos, questions and artifacts.
func LevelContentKey(levelID string) string {
	return GenerateCacheKey(catalogService, "level", levelID, "content")
}

// FAQKey caches the assistant FAQ table.
func FAQKey() string {
	return GenerateCacheKey(chatService, "faq", "all")
}
