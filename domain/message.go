// Messages are immutable and validated before entering the pipeline.
package domain

import "time"

// ChatMessage is one immutable chat entry. Timestamp is unique and
// monotonically non-decreasing inside a room; it doubles as sort key
// and identity.
type ChatMessage struct {
	UserID             string `json:"userId"`
	UserName           string `json:"userName"`
	UserColor          string `json:"userColor"`
	UserProfilePicture string `json:"userProfilePicture,omitempty"`
	Message            string `json:"message"`
	Timestamp          int64  `json:"timestamp"`
	Lang               string `json:"lang,omitempty"`
}

// At converts the millisecond timestamp back to wall-clock time.
func (m ChatMessage) At() time.Time {
	return time.UnixMilli(m.Timestamp).UTC()
}
