package session

import "github.com/google/uuid"

// GenerateID returns a random (v4) session identifier.
func GenerateID() string {
	return uuid.NewString()
}
