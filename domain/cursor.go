package domain

// CursorPosition is the ephemeral location of a user's pointer inside a
// room. Last write wins per user; positions are never persisted and vanish
// when the user leaves.
type CursorPosition struct {
	UserID string  `json:"userId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}
