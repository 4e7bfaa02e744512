package services

import (
	"canvas-lab/domain"
	"canvas-lab/errors"
	"canvas-lab/repositories"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// IDirectory owns room lifecycle and the join access-control decision.
type IDirectory interface {
	EnsureCommunityCanvas() error
	CreateRoom(creator domain.User, name, password string) (*domain.Room, error)
	JoinRoom(user domain.User, roomID, password string) (*domain.Room, error)
	LeaveRoom(user domain.User, roomID string) error
	UpdateRoomMembers(roomID string, newUserIDs []string) (*domain.Room, error)
	VisibleRooms(user domain.User) ([]domain.Room, error)
	FindRoomByID(roomID string) (*domain.Room, error)
	ResolveJoinLink(user domain.User, rawURL, password string) (string, *domain.Room, error)
}

type Directory struct {
	roomRepo repositories.IRoomRepository
	userRepo repositories.IUserRepository
	log      *slog.Logger
}

func NewDirectory(roomRepo repositories.IRoomRepository, userRepo repositories.IUserRepository, log *slog.Logger) *Directory {
	return &Directory{roomRepo: roomRepo, userRepo: userRepo, log: log}
}

// EnsureCommunityCanvas creates the shared public room on first boot.
// Idempotent: a second boot finds the room and leaves it untouched.
func (d *Directory) EnsureCommunityCanvas() error {
	_, err := d.roomRepo.GetRoom(domain.CommunityCanvasID)
	if err == nil {
		return nil
	}
	if err != errors.ErrRoomNotFound {
		return err
	}

	canvas := domain.Room{
		ID:        domain.CommunityCanvasID,
		Name:      "🎨 Community Canvas",
		CreatorID: "system",
	}
	if err := d.roomRepo.SaveRoom(canvas); err != nil {
		return err
	}
	d.log.Info("Community canvas created")
	return nil
}

// CreateRoom produces a room occupied and owned by its creator. The name
// must be non-empty after trimming.
func (d *Directory) CreateRoom(creator domain.User, name, password string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is empty", errors.ErrInvalidInput)
	}

	room := domain.Room{
		ID:             "room-" + uuid.NewString(),
		Name:           name,
		CreatorID:      creator.ID,
		UserIDs:        []string{creator.ID},
		InvitedUserIDs: []string{creator.ID},
		Password:       password,
	}
	if err := d.roomRepo.SaveRoom(room); err != nil {
		return nil, err
	}
	d.log.Info("Room created", "room_id", room.ID, "creator_id", creator.ID)
	return &room, nil
}

// JoinRoom runs the access check and, on success, adds the user to the
// room's occupants. The operation is idempotent for a current member and
// never mutates state before all checks pass.
//
// A password is only demanded when the room has one AND the user is
// neither the creator, nor already a member, nor a friend of the creator.
func (d *Directory) JoinRoom(user domain.User, roomID, password string) (*domain.Room, error) {
	room, err := d.roomRepo.GetRoom(roomID)
	if err != nil {
		return nil, err
	}

	isMember := room.HasMember(user.ID)
	isCreator := room.CreatorID == user.ID
	isFriendOfCreator := d.isFriendOfCreator(room.CreatorID, user.ID)

	needsPassword := room.Password != "" && !isCreator && !isMember && !isFriendOfCreator
	if needsPassword {
		if password == "" {
			return nil, errors.ErrPasswordRequired
		}
		if password != room.Password {
			return nil, errors.ErrPasswordIncorrect
		}
	}

	if !isMember {
		room.AddMember(user.ID)
		if err := d.roomRepo.SaveRoom(room); err != nil {
			return nil, err
		}
		d.log.Info("User joined room", "room_id", room.ID, "user_id", user.ID)
	}
	return &room, nil
}

func (d *Directory) isFriendOfCreator(creatorID, userID string) bool {
	stored, err := d.userRepo.GetUser(creatorID)
	if err != nil {
		// The community canvas creator "system" has no user record.
		return false
	}
	return stored.User.IsFriendOf(userID)
}

// LeaveRoom removes the user from the occupant list only; the invited set
// keeps growing so a private-room member can always come back.
func (d *Directory) LeaveRoom(user domain.User, roomID string) error {
	room, err := d.roomRepo.GetRoom(roomID)
	if err != nil {
		return err
	}
	room.RemoveMember(user.ID)
	if err := d.roomRepo.SaveRoom(room); err != nil {
		return err
	}
	d.log.Info("User left room", "room_id", room.ID, "user_id", user.ID)
	return nil
}

// UpdateRoomMembers replaces the occupant list wholesale (bulk invite) and
// unions the new ids into the invited set.
func (d *Directory) UpdateRoomMembers(roomID string, newUserIDs []string) (*domain.Room, error) {
	room, err := d.roomRepo.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	room.ReplaceMembers(newUserIDs)
	if err := d.roomRepo.SaveRoom(room); err != nil {
		return nil, err
	}
	return &room, nil
}

// VisibleRooms lists what shows up on the user's home page: the community
// canvas, rooms they created, and rooms they were invited to, deduplicated
// by id.
func (d *Directory) VisibleRooms(user domain.User) ([]domain.Room, error) {
	rooms, err := d.roomRepo.ListRooms()
	if err != nil {
		return nil, err
	}
	visible := lo.Filter(rooms, func(room domain.Room, _ int) bool {
		return room.VisibleTo(user.ID)
	})
	return lo.UniqBy(visible, func(room domain.Room) string { return room.ID }), nil
}

func (d *Directory) FindRoomByID(roomID string) (*domain.Room, error) {
	room, err := d.roomRepo.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ResolveJoinLink handles a shared room link: it extracts the room
// reference from the URL, runs the normal join access check, and returns
// the URL with the reference stripped so a reload does not re-trigger the
// join. The reference is cleared even when the join fails.
func (d *Directory) ResolveJoinLink(user domain.User, rawURL, password string) (string, *domain.Room, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, nil, fmt.Errorf("%w: malformed join link", errors.ErrInvalidInput)
	}

	query := parsed.Query()
	roomID := query.Get("room")
	if roomID == "" {
		return rawURL, nil, nil
	}

	query.Del("room")
	parsed.RawQuery = query.Encode()
	cleaned := parsed.String()

	room, err := d.JoinRoom(user, roomID, password)
	if err != nil {
		return cleaned, nil, err
	}
	return cleaned, room, nil
}
