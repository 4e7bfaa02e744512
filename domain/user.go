// Package domain contains core concepts of the collaborative canvas.
// This file defines User identities and the friendship rules between them.
// No runtime, storage, or UI logic should be added here.
package domain

import "github.com/samber/lo"

// User represents a registered participant. The ID is the email used at
// registration and never changes.
type User struct {
	ID                     string
	Name                   string
	Color                  string
	Bio                    string
	ProfilePicture         string
	FriendIDs              []string
	IncomingFriendRequests []string
}

// UserColors is the palette cycled through at registration so every user
// gets a stable presence/stroke tint.
var UserColors = []string{
	"#ef4444", "#3b82f6", "#22c55e", "#eab308",
	"#a855f7", "#ec4899", "#f97316", "#14b8a6",
}

// FriendshipStatus is the tagged state of the relation between two users,
// computed from both friend sets instead of ad hoc boolean checks.
type FriendshipStatus int

const (
	FriendshipNone FriendshipStatus = iota
	Friends
	FriendRequestSent
	FriendRequestReceived
)

func (s FriendshipStatus) String() string {
	switch s {
	case Friends:
		return "friends"
	case FriendRequestSent:
		return "request-sent"
	case FriendRequestReceived:
		return "request-received"
	default:
		return "none"
	}
}

// FriendshipBetween derives the status as seen from the current user.
// Friendship is symmetric once accepted, so checking the current user's
// friend set is enough for the Friends case.
func FriendshipBetween(current, other User) FriendshipStatus {
	switch {
	case lo.Contains(current.FriendIDs, other.ID):
		return Friends
	case lo.Contains(other.IncomingFriendRequests, current.ID):
		return FriendRequestSent
	case lo.Contains(current.IncomingFriendRequests, other.ID):
		return FriendRequestReceived
	default:
		return FriendshipNone
	}
}

// IsFriendOf reports whether other belongs to the user's friend set.
func (u User) IsFriendOf(otherID string) bool {
	return lo.Contains(u.FriendIDs, otherID)
}

// HasPendingRequestFrom reports whether a request from the given user is
// still waiting for an accept/decline.
func (u User) HasPendingRequestFrom(requesterID string) bool {
	return lo.Contains(u.IncomingFriendRequests, requesterID)
}
