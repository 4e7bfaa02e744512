package domain

import "github.com/samber/lo"

// CommunityCanvasID identifies the one always-public, password-less room.
// It is created on first boot and never deleted.
const CommunityCanvasID = "community-canvas-global"

// Room is a named collaborative canvas with membership and an optional
// password gate. UserIDs holds the current occupants in join order;
// InvitedUserIDs holds everyone ever granted access and is always a
// superset of UserIDs.
type Room struct {
	ID             string
	Name           string
	CreatorID      string
	UserIDs        []string
	InvitedUserIDs []string
	Password       string
}

// IsCommunityCanvas reports whether this is the shared public room.
func (r Room) IsCommunityCanvas() bool {
	return r.ID == CommunityCanvasID
}

// HasMember reports whether the user currently occupies the room.
func (r Room) HasMember(userID string) bool {
	return lo.Contains(r.UserIDs, userID)
}

// IsInvited reports whether the user was ever granted access.
func (r Room) IsInvited(userID string) bool {
	return lo.Contains(r.InvitedUserIDs, userID)
}

// AddMember appends the user to the occupant list and, if absent, to the
// invited set. It preserves the UserIDs ⊆ InvitedUserIDs invariant and is
// a no-op for an existing member.
func (r *Room) AddMember(userID string) {
	if !r.HasMember(userID) {
		r.UserIDs = append(r.UserIDs, userID)
	}
	if !r.IsInvited(userID) {
		r.InvitedUserIDs = append(r.InvitedUserIDs, userID)
	}
}

// RemoveMember removes the user from the occupant list only. Invitations
// are never revoked, so a leaving user keeps re-entry rights.
func (r *Room) RemoveMember(userID string) {
	r.UserIDs = lo.Without(r.UserIDs, userID)
}

// ReplaceMembers swaps the occupant list wholesale and unions the new ids
// into the invited set without duplicates. Used for bulk invites.
func (r *Room) ReplaceMembers(newUserIDs []string) {
	r.UserIDs = lo.Uniq(newUserIDs)
	r.InvitedUserIDs = lo.Uniq(append(r.InvitedUserIDs, newUserIDs...))
}

// VisibleTo reports whether the room shows up on the user's room list:
// the community canvas is visible to everyone, otherwise visibility
// requires being the creator or being invited.
func (r Room) VisibleTo(userID string) bool {
	return r.IsCommunityCanvas() || r.CreatorID == userID || r.IsInvited(userID)
}
