package domain

// Presence is the single row tracking whether a user currently has the app
// open. Timestamps keep the fixed-offset string form they were written in.
type Presence struct {
	UserID     string `json:"userId"`
	IsActive   bool   `json:"isActive"`
	LastActive string `json:"lastActive"`
	UpdatedAt  string `json:"updatedAt"`
}
