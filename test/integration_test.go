package test

import (
	"canvas-lab/domain"
	"canvas-lab/domain/event"
	"canvas-lab/engine"
	"canvas-lab/engine/workers"
	"canvas-lab/observability"
	"canvas-lab/repositories"
	"canvas-lab/search"
	"canvas-lab/services"
	"canvas-lab/sink"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// Test_Scenario walks the whole product path: registration, a private
// room with a password gate, a live drawing session with moderated chat,
// shared undo/redo, and full-text search over what was said.
func Test_Scenario(t *testing.T) {
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = blugeWriter.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)

	actionRepository := repositories.NewActionRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log, lo.ToPtr(100))
	roomRepository := repositories.NewRoomRepository(db)
	userRepository := repositories.NewUserRepository(db)

	// 1. Two users register; palette colors are assigned in order
	authService := services.NewAuthService(userRepository, time.Hour)
	_, err = authService.Register("Alice", "alice@example.com", "AStr0ngPassword!")
	req.NoError(err)
	_, err = authService.Register("Bob", "bob@example.com", "AnotherStr0ng1!")
	req.NoError(err)

	_, alice, err := authService.Login("alice@example.com", "AStr0ngPassword!")
	req.NoError(err)
	_, bob, err := authService.Login("bob@example.com", "AnotherStr0ng1!")
	req.NoError(err)
	req.Equal(domain.UserColors[0], alice.Color)
	req.Equal(domain.UserColors[1], bob.Color)

	// 2. Alice opens a private room; the password gates strangers only
	directory := services.NewDirectory(roomRepository, userRepository, log)
	req.NoError(directory.EnsureCommunityCanvas())

	room, err := directory.CreateRoom(alice, "Sketch night", "s3cret")
	req.NoError(err)

	_, err = directory.JoinRoom(bob, room.ID, "wrong")
	req.Error(err)
	joined, err := directory.JoinRoom(bob, room.ID, "s3cret")
	req.NoError(err)
	req.True(joined.HasMember(bob.ID))

	// 3. The engine comes up with a search sink attached
	stats := observability.NewStatsManager()
	orchestrator := engine.NewOrchestrator(
		log,
		workers.NewSupervisor(log, 200*time.Millisecond),
		engine.NewRegistry(),
		actionRepository,
		messageRepository,
		stats,
		2, 64, 16, 16,
		time.Second,
		time.Minute,
		'*',
	)
	messageIndex := search.NewMessageIndex(blugeWriter, log)
	searchSink := sink.NewSearchSink(messageIndex, log, 8, 50*time.Millisecond)
	orchestrator.Add(searchSink)

	ctx, cancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		_ = orchestrator.Start(ctx)
		close(engineDone)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-engineDone:
		case <-time.After(2 * time.Second):
			t.Log("engine did not stop in time")
		}
	})

	aliceSession, err := orchestrator.AttachSession(alice, *room)
	req.NoError(err)
	defer aliceSession.Close()
	bobSession, err := orchestrator.AttachSession(bob, *room)
	req.NoError(err)
	defer bobSession.Close()

	// 4. Alice draws; Bob receives the stroke tinted with her color
	_, err = aliceSession.Draw(domain.DrawAction{
		Tool:        domain.ToolBrush,
		StrokeWidth: 4,
		Points:      []domain.Point{{X: 10, Y: 10}, {X: 40, Y: 25}},
	})
	req.NoError(err)

	appended := waitFor[event.ActionAppended](t, bobSession.Events())
	req.Equal(alice.ID, appended.Action.UserID)
	req.Equal(alice.Color, appended.Action.Color)

	// 5. Chat goes through moderation before anyone sees or stores it
	req.NoError(aliceSession.PostChat("nice start, you stupid genius"))

	delivered := waitFor[event.SanitizedMessage](t, bobSession.Events())
	req.Equal("nice start, you ****** genius", delivered.Message.Message)
	req.Equal("Alice", delivered.Message.UserName)
	req.Equal(uint64(1), stats.Snapshot().MessagesCensored)

	// 6. Bob undoes the shared history and redoes it back
	undone, ok, err := bobSession.Undo()
	req.NoError(err)
	req.True(ok)
	req.Equal(alice.ID, undone.UserID)

	replay, err := bobSession.Replay()
	req.NoError(err)
	req.Empty(replay)

	_, ok, err = bobSession.Redo()
	req.NoError(err)
	req.True(ok)
	replay, err = bobSession.Replay()
	req.NoError(err)
	req.Len(replay, 1)

	// 7. The sanitized text is what search finds, scoped to the room
	req.Eventually(func() bool {
		hits, err := messageIndex.Search(context.Background(),
			search.ParseQuery("genius --room "+room.ID))
		return err == nil && len(hits) == 1
	}, 2*time.Second, 50*time.Millisecond)

	hits, err := messageIndex.Search(context.Background(),
		search.ParseQuery("genius --room "+room.ID))
	req.NoError(err)
	req.Equal("nice start, you ****** genius", hits[0].Content)
	req.Equal(room.ID, hits[0].RoomID)

	hits, err = messageIndex.Search(context.Background(),
		search.ParseQuery("genius --room "+domain.CommunityCanvasID))
	req.NoError(err)
	req.Empty(hits)
}

func waitFor[T event.DomainEvent](t *testing.T, events <-chan event.DomainEvent) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-events:
			if evt, ok := e.(T); ok {
				return evt
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}
