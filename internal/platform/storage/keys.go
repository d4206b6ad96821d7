package storage

import "fmt"

// Storage layout: one key for the profile directory, one namespaced key per
// profile's fasting log, and the pre-profile legacy key that the bootstrap
// migration consumes exactly once.
const (
	DirectoryKey = "profiles.json"
	LegacyLogKey = "fasting.json"
)

// LogKey derives the deterministic namespaced key for one profile's log.
func LogKey(profileID string) string {
	return fmt.Sprintf("fasting-%s.json", profileID)
}
