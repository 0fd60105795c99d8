package domain

import "time"

// Credential identifies a player or admin account. Presence records reference
// it by ID; the tracker only reads it.
type Credential struct {
	ID        string
	Username  string
	CreatedAt time.Time
}
