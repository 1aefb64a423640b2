package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered id; user plans sort by it naturally.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateTraceID returns a random id for request tracing.
func GenerateTraceID() string {
	return uuid.New().String()
}
