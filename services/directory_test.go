package services

import (
	"canvas-lab/domain"
	"canvas-lab/errors"
	"canvas-lab/repositories"
	"io"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDirectory(t *testing.T) (*Directory, *repositories.UserRepository) {
	t.Helper()
	db := openTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	return NewDirectory(repositories.NewRoomRepository(db), userRepo, testLogger()), userRepo
}

func Test_Ensure_Community_Canvas_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	req.NoError(directory.EnsureCommunityCanvas())
	req.NoError(directory.EnsureCommunityCanvas())

	canvas, err := directory.FindRoomByID(domain.CommunityCanvasID)
	req.NoError(err)
	req.Equal("🎨 Community Canvas", canvas.Name)
	req.Equal("system", canvas.CreatorID)
	req.Empty(canvas.Password)
}

func Test_Create_Room_Rejects_Blank_Name(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	_, err := directory.CreateRoom(domain.User{ID: "alice@example.com"}, "   ", "")
	req.ErrorIs(err, errors.ErrInvalidInput)
}

func Test_Create_Room_Seats_Creator(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	room, err := directory.CreateRoom(domain.User{ID: "alice@example.com"}, "Sketchers", "secret")
	req.NoError(err)
	req.Equal([]string{"alice@example.com"}, room.UserIDs)
	req.Equal([]string{"alice@example.com"}, room.InvitedUserIDs)
	req.Equal("alice@example.com", room.CreatorID)
}

func Test_Join_Password_Gate(t *testing.T) {
	req := require.New(t)
	directory, userRepo := newTestDirectory(t)

	creator := domain.User{ID: "alice@example.com", Name: "Alice"}
	req.NoError(userRepo.CreateUser(creator, "hash"))
	req.NoError(userRepo.CreateUser(domain.User{ID: "carol@example.com", Name: "Carol"}, "hash"))

	room, err := directory.CreateRoom(creator, "Private", "secret")
	req.NoError(err)

	stranger := domain.User{ID: "bob@example.com", Name: "Bob"}

	// Stranger without a password is turned away before any mutation.
	_, err = directory.JoinRoom(stranger, room.ID, "")
	req.ErrorIs(err, errors.ErrPasswordRequired)
	_, err = directory.JoinRoom(stranger, room.ID, "wrong")
	req.ErrorIs(err, errors.ErrPasswordIncorrect)
	unchanged, err := directory.FindRoomByID(room.ID)
	req.NoError(err)
	req.Equal([]string{"alice@example.com"}, unchanged.UserIDs)

	// The right password gets them in.
	joined, err := directory.JoinRoom(stranger, room.ID, "secret")
	req.NoError(err)
	req.True(joined.HasMember(stranger.ID))

	// While a member, a password-less rejoin is allowed.
	_, err = directory.JoinRoom(stranger, room.ID, "")
	req.NoError(err)

	// Leaving drops membership, so a password-less rejoin is gated again;
	// the invitation alone does not bypass it.
	req.NoError(directory.LeaveRoom(stranger, room.ID))
	_, err = directory.JoinRoom(stranger, room.ID, "")
	req.ErrorIs(err, errors.ErrPasswordRequired)
	rejoined, err := directory.JoinRoom(stranger, room.ID, "secret")
	req.NoError(err)
	req.True(rejoined.HasMember(stranger.ID))

	// The creator never needs the password.
	req.NoError(directory.LeaveRoom(creator, room.ID))
	_, err = directory.JoinRoom(creator, room.ID, "")
	req.NoError(err)

	// A friend of the creator bypasses the gate too.
	stored, err := userRepo.GetUser(creator.ID)
	req.NoError(err)
	stored.User.FriendIDs = []string{"carol@example.com"}
	req.NoError(userRepo.SaveUser(stored))
	_, err = directory.JoinRoom(domain.User{ID: "carol@example.com"}, room.ID, "")
	req.NoError(err)
}

func Test_Join_Unknown_Room(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	_, err := directory.JoinRoom(domain.User{ID: "alice@example.com"}, "room-missing", "")
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func Test_Join_Is_Idempotent_For_Member(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	creator := domain.User{ID: "alice@example.com"}
	room, err := directory.CreateRoom(creator, "Open", "")
	req.NoError(err)

	bob := domain.User{ID: "bob@example.com"}
	_, err = directory.JoinRoom(bob, room.ID, "")
	req.NoError(err)
	again, err := directory.JoinRoom(bob, room.ID, "")
	req.NoError(err)
	req.Equal([]string{"alice@example.com", "bob@example.com"}, again.UserIDs)
}

func Test_Leave_Keeps_Invitation(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	room, err := directory.CreateRoom(domain.User{ID: "alice@example.com"}, "Open", "")
	req.NoError(err)

	bob := domain.User{ID: "bob@example.com"}
	_, err = directory.JoinRoom(bob, room.ID, "")
	req.NoError(err)
	req.NoError(directory.LeaveRoom(bob, room.ID))

	after, err := directory.FindRoomByID(room.ID)
	req.NoError(err)
	req.False(after.HasMember(bob.ID))
	req.True(after.IsInvited(bob.ID))
}

func Test_Update_Room_Members_Unions_Invites(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	room, err := directory.CreateRoom(domain.User{ID: "alice@example.com"}, "Team", "")
	req.NoError(err)

	updated, err := directory.UpdateRoomMembers(room.ID, []string{"bob@example.com", "carol@example.com", "bob@example.com"})
	req.NoError(err)
	req.Equal([]string{"bob@example.com", "carol@example.com"}, updated.UserIDs)
	req.ElementsMatch([]string{"alice@example.com", "bob@example.com", "carol@example.com"}, updated.InvitedUserIDs)
}

func Test_Visible_Rooms(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)
	req.NoError(directory.EnsureCommunityCanvas())

	alice := domain.User{ID: "alice@example.com"}
	bob := domain.User{ID: "bob@example.com"}

	mine, err := directory.CreateRoom(alice, "Mine", "")
	req.NoError(err)
	_, err = directory.CreateRoom(bob, "Theirs", "pw")
	req.NoError(err)
	shared, err := directory.CreateRoom(bob, "Shared", "pw")
	req.NoError(err)
	_, err = directory.UpdateRoomMembers(shared.ID, []string{"alice@example.com"})
	req.NoError(err)

	visible, err := directory.VisibleRooms(alice)
	req.NoError(err)

	ids := make([]string, 0, len(visible))
	for _, room := range visible {
		ids = append(ids, room.ID)
	}
	req.ElementsMatch([]string{domain.CommunityCanvasID, mine.ID, shared.ID}, ids)
}

func Test_Resolve_Join_Link(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	room, err := directory.CreateRoom(domain.User{ID: "alice@example.com"}, "Linked", "")
	req.NoError(err)

	bob := domain.User{ID: "bob@example.com"}
	cleaned, joined, err := directory.ResolveJoinLink(bob, "https://canvas.example/app?room="+room.ID+"&tab=draw", "")
	req.NoError(err)
	req.Equal(room.ID, joined.ID)
	req.Equal("https://canvas.example/app?tab=draw", cleaned)
	req.True(joined.HasMember(bob.ID))
}

func Test_Resolve_Join_Link_Without_Room_Param(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	cleaned, joined, err := directory.ResolveJoinLink(domain.User{ID: "bob@example.com"}, "https://canvas.example/app", "")
	req.NoError(err)
	req.Nil(joined)
	req.Equal("https://canvas.example/app", cleaned)
}

func Test_Resolve_Join_Link_Strips_Param_On_Failure(t *testing.T) {
	req := require.New(t)
	directory, _ := newTestDirectory(t)

	room, err := directory.CreateRoom(domain.User{ID: "alice@example.com"}, "Guarded", "secret")
	req.NoError(err)

	cleaned, joined, err := directory.ResolveJoinLink(domain.User{ID: "bob@example.com"}, "https://canvas.example/app?room="+room.ID, "")
	req.ErrorIs(err, errors.ErrPasswordRequired)
	req.Nil(joined)
	req.Equal("https://canvas.example/app", cleaned)
}
