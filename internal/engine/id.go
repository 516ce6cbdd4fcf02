package engine

import "github.com/google/uuid"

// generateID creates a random batch ID.
func generateID() string {
	return uuid.NewString()
}
