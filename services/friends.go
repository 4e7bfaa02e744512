package services

import (
	"canvas-lab/domain"
	"canvas-lab/errors"
	"canvas-lab/repositories"
	"log/slog"

	"github.com/samber/lo"
)

type IFriends interface {
	SendFriendRequest(fromID, toID string) error
	AcceptFriendRequest(userID, requesterID string) error
	DeclineFriendRequest(userID, requesterID string) error
	Status(currentID, otherID string) (domain.FriendshipStatus, error)
	Profile(userID string) (domain.User, error)
	UpdateBio(userID, bio string) error
	UpdateProfilePicture(userID, picture string) error
}

type Friends struct {
	userRepo repositories.IUserRepository
	log      *slog.Logger
}

func NewFriends(userRepo repositories.IUserRepository, log *slog.Logger) *Friends {
	return &Friends{userRepo: userRepo, log: log}
}

// SendFriendRequest records a pending request on the target user. A
// request that is already pending fails instead of piling up.
func (f *Friends) SendFriendRequest(fromID, toID string) error {
	target, err := f.userRepo.GetUser(toID)
	if err != nil {
		return err
	}
	if target.User.HasPendingRequestFrom(fromID) {
		return errors.ErrDuplicateRequest
	}

	target.User.IncomingFriendRequests = append(target.User.IncomingFriendRequests, fromID)
	if err := f.userRepo.SaveUser(target); err != nil {
		return err
	}
	f.log.Info("Friend request sent", "from", fromID, "to", toID)
	return nil
}

// AcceptFriendRequest clears the pending request and adds each user to the
// other's friend set. Both records are written in one transaction so the
// symmetry invariant holds even if the process dies mid-operation.
func (f *Friends) AcceptFriendRequest(userID, requesterID string) error {
	current, err := f.userRepo.GetUser(userID)
	if err != nil {
		return err
	}
	requester, err := f.userRepo.GetUser(requesterID)
	if err != nil {
		return err
	}

	current.User.IncomingFriendRequests = lo.Without(current.User.IncomingFriendRequests, requesterID)
	current.User.FriendIDs = lo.Uniq(append(current.User.FriendIDs, requesterID))
	requester.User.FriendIDs = lo.Uniq(append(requester.User.FriendIDs, userID))

	if err := f.userRepo.SaveUsers(current, requester); err != nil {
		return err
	}
	f.log.Info("Friend request accepted", "user", userID, "requester", requesterID)
	return nil
}

// DeclineFriendRequest drops the pending request and nothing else.
func (f *Friends) DeclineFriendRequest(userID, requesterID string) error {
	current, err := f.userRepo.GetUser(userID)
	if err != nil {
		return err
	}
	current.User.IncomingFriendRequests = lo.Without(current.User.IncomingFriendRequests, requesterID)
	return f.userRepo.SaveUser(current)
}

// Status computes the tagged friendship variant as seen from currentID.
func (f *Friends) Status(currentID, otherID string) (domain.FriendshipStatus, error) {
	current, err := f.userRepo.GetUser(currentID)
	if err != nil {
		return domain.FriendshipNone, err
	}
	other, err := f.userRepo.GetUser(otherID)
	if err != nil {
		return domain.FriendshipNone, err
	}
	return domain.FriendshipBetween(current.User, other.User), nil
}

func (f *Friends) Profile(userID string) (domain.User, error) {
	stored, err := f.userRepo.GetUser(userID)
	if err != nil {
		return domain.User{}, err
	}
	return stored.User, nil
}

func (f *Friends) UpdateBio(userID, bio string) error {
	stored, err := f.userRepo.GetUser(userID)
	if err != nil {
		return err
	}
	stored.User.Bio = bio
	return f.userRepo.SaveUser(stored)
}

// UpdateProfilePicture stores the picture as an opaque string; the engine
// never inspects image content.
func (f *Friends) UpdateProfilePicture(userID, picture string) error {
	stored, err := f.userRepo.GetUser(userID)
	if err != nil {
		return err
	}
	stored.User.ProfilePicture = picture
	return f.userRepo.SaveUser(stored)
}
