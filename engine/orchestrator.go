// Package engine runs the live drawing pipeline: command intake, room
// histories, presence, moderation, and event fan-out to attached
// sessions. It contains no access-control rules; those live in services.
package engine

import (
	"canvas-lab/contract"
	"canvas-lab/domain"
	"canvas-lab/domain/event"
	"canvas-lab/engine/workers"
	"canvas-lab/moderation"
	"canvas-lab/observability"
	"canvas-lab/repositories"
	"canvas-lab/sink"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:embed censored/*
var censoredFolder embed.FS

var _ contract.Dispatcher = (*Orchestrator)(nil)
var _ contract.CommandExecutor = (*Orchestrator)(nil)

type Orchestrator struct {
	mu              sync.Mutex
	log             *slog.Logger
	numWorkers      int
	supervisor      contract.ISupervisor
	registry        *Registry
	presence        *Presence
	chatLog         *ChatLog
	stats           *observability.StatsManager
	actionRepo      repositories.IActionRepository
	messageRepo     repositories.IMessageRepository
	actionLogs      map[string]*ActionLog
	permanentSinks  []contract.EventSink
	extraWorkers    []contract.Worker
	commands        chan domain.Command
	rawEvents       chan event.DomainEvent
	domainEvents    chan event.DomainEvent
	telemetryEvents chan event.DomainEvent
	sinkTimeout     time.Duration
	metricInterval  time.Duration
	charReplacement rune
	sessionBuffer   int
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	registry *Registry,
	actionRepo repositories.IActionRepository,
	messageRepo repositories.IMessageRepository,
	stats *observability.StatsManager,
	numWorkers, bufferSize, chatWindow, sessionBuffer int,
	sinkTimeout, metricInterval time.Duration,
	charReplacement rune) *Orchestrator {
	return &Orchestrator{
		log:             log,
		numWorkers:      numWorkers,
		supervisor:      supervisor,
		registry:        registry,
		presence:        NewPresence(),
		chatLog:         NewChatLog(chatWindow),
		stats:           stats,
		actionRepo:      actionRepo,
		messageRepo:     messageRepo,
		actionLogs:      make(map[string]*ActionLog),
		commands:        make(chan domain.Command, bufferSize),
		rawEvents:       make(chan event.DomainEvent, bufferSize),
		domainEvents:    make(chan event.DomainEvent, bufferSize),
		telemetryEvents: make(chan event.DomainEvent, bufferSize),
		sinkTimeout:     sinkTimeout,
		metricInterval:  metricInterval,
		charReplacement: charReplacement,
		sessionBuffer:   sessionBuffer,
	}
}

// RoomLog returns the room's action history, loading it from disk the
// first time the room is touched in this process.
func (o *Orchestrator) RoomLog(roomID string) (*ActionLog, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if actionLog, ok := o.actionLogs[roomID]; ok {
		return actionLog, nil
	}
	actionLog, err := OpenActionLog(roomID, o.actionRepo)
	if err != nil {
		return nil, err
	}
	o.actionLogs[roomID] = actionLog
	return actionLog, nil
}

// Add registers extra permanent sinks before Start. Used for the search
// sink, which needs an index writer the engine does not own.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// AddWorkers registers extra supervised workers before Start, such as
// the peer activity source and the telemetry loop.
func (o *Orchestrator) AddWorkers(workers ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extraWorkers = append(o.extraWorkers, workers...)
}

// Dispatch queues a command for the worker pool. Never blocks: when the
// pipeline is saturated the command is dropped and counted.
func (o *Orchestrator) Dispatch(cmd domain.Command) {
	select {
	case o.commands <- cmd:
	default:
		o.stats.IncrEventsDropped()
		o.log.Warn(fmt.Sprintf("Command channel full for room %s, dropping command", cmd.RoomID()))
	}
}

// ExecuteDraw validates and commits a draw action, then announces it.
func (o *Orchestrator) ExecuteDraw(roomID string, action domain.DrawAction) (uint64, error) {
	if err := action.Validate(); err != nil {
		return 0, err
	}
	actionLog, err := o.RoomLog(roomID)
	if err != nil {
		return 0, err
	}
	seq, err := actionLog.Append(action)
	if err != nil {
		return 0, err
	}
	o.stats.IncrActionsAppended()
	o.emitRaw(event.ActionAppended{Room: roomID, Seq: seq, Action: action})
	return seq, nil
}

// ExecuteUndo moves the newest committed action onto the redo stack.
// Returns false when there is nothing to undo.
func (o *Orchestrator) ExecuteUndo(roomID string) (domain.DrawAction, bool, error) {
	actionLog, err := o.RoomLog(roomID)
	if err != nil {
		return domain.DrawAction{}, false, err
	}
	action, ok, err := actionLog.Undo()
	if err != nil || !ok {
		return domain.DrawAction{}, ok, err
	}
	o.stats.IncrActionsUndone()
	o.emitRaw(event.ActionUndone{Room: roomID, Action: action})
	return action, true, nil
}

// ExecuteRedo restores the most recently undone action.
func (o *Orchestrator) ExecuteRedo(roomID string) (domain.DrawAction, bool, error) {
	actionLog, err := o.RoomLog(roomID)
	if err != nil {
		return domain.DrawAction{}, false, err
	}
	action, _, ok, err := actionLog.Redo()
	if err != nil || !ok {
		return domain.DrawAction{}, ok, err
	}
	o.stats.IncrActionsRedone()
	o.emitRaw(event.ActionRedone{Room: roomID, Action: action})
	return action, true, nil
}

// ExecuteCursor records a cursor update and announces it. Cheap enough
// to run inline even at presence frequency.
func (o *Orchestrator) ExecuteCursor(roomID string, position domain.CursorPosition) {
	o.presence.Publish(roomID, position)
	o.stats.IncrCursorMoves()
	o.emitRaw(event.CursorMoved{Room: roomID, Position: position})
}

// ExecuteChat timestamps a message and pushes it into the moderation
// stage. The sanitized form is what sinks and storage eventually see.
func (o *Orchestrator) ExecuteChat(cmd domain.PostMessageCommand) error {
	message, err := o.chatLog.Compose(cmd.Room, cmd.Author, cmd.Content, cmd.CreatedAt)
	if err != nil {
		return err
	}
	o.stats.IncrMessagesPosted()
	o.emitRaw(event.MessagePosted{ID: uuid.New(), Room: cmd.Room, Message: message})
	return nil
}

// emitRaw feeds the pipeline without ever blocking a caller. Draw and
// chat events keep their emission order because every mutation happens
// before its event is queued. With several pool workers two commits can
// still race between mutation and queueing, so ActionAppended carries
// Seq and receivers order by it, not by arrival.
func (o *Orchestrator) emitRaw(e event.DomainEvent) {
	select {
	case o.rawEvents <- e:
	default:
		o.stats.IncrEventsDropped()
		o.log.Warn("Raw event channel full, dropping event", "room", e.RoomID())
	}
}

// Messages pages through a room's durable chat history, newest first.
func (o *Orchestrator) Messages(roomID string, cursor *string) ([]repositories.DiskMessage, *string, error) {
	return o.messageRepo.GetMessages(roomID, cursor)
}

func (o *Orchestrator) Stats() observability.EngineStats {
	return o.stats.Snapshot()
}

// Start prepares all workers and runs the supervisor until the context
// is canceled. Heavy setup (word lists, automaton build) happens before
// anything is locked.
func (o *Orchestrator) Start(ctx context.Context) error {
	poolWorkers := o.preparePoolWorkers()

	moderationWorker, err := o.prepareModeration()
	if err != nil {
		return err
	}

	fanoutWorker := o.preparePipeline()
	telemetryWorker := workers.NewTelemetryWorker(o.log, o.metricInterval, o.telemetryEvents, o.stats)

	o.mu.Lock()
	o.supervisor.Add(moderationWorker)
	o.supervisor.Add(fanoutWorker)
	o.supervisor.Add(telemetryWorker)
	for _, w := range poolWorkers {
		o.supervisor.Add(w)
	}
	for _, w := range o.extraWorkers {
		o.supervisor.Add(w)
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) preparePoolWorkers() []contract.Worker {
	var res []contract.Worker
	for i := 0; i < o.numWorkers; i++ {
		res = append(res, workers.NewPoolUnitWorker(o, o.commands, o.log))
	}
	return res
}

// prepareModeration loads the embedded word lists and builds the
// Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration() (contract.Worker, error) {
	lists, err := LoadWordLists(censoredFolder, "censored")
	if err != nil {
		return nil, err
	}
	o.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(lists.Languages), strings.Join(lists.Languages, ",")))
	o.log.Info(fmt.Sprintf("%d unique censored words loaded", len(lists.Words)))

	moderator, err := moderation.NewModerator(lists.Words, o.charReplacement, o.log)
	if err != nil {
		return nil, err
	}
	return workers.NewModerationWorker(moderator, o.rawEvents, o.domainEvents, o.stats, o.log), nil
}

// preparePipeline wires the permanent sinks into the fanout.
func (o *Orchestrator) preparePipeline() contract.Worker {
	o.mu.Lock()
	o.permanentSinks = append(o.permanentSinks,
		sink.NewTimelineSink(o.chatLog),
		sink.NewDiskSink(o.messageRepo, o.log),
	)
	allSinks := append([]contract.EventSink{}, o.permanentSinks...)
	o.mu.Unlock()

	return workers.NewEventFanout(
		o.log,
		allSinks,
		o.registry,
		o.domainEvents,
		o.telemetryEvents,
		o.sinkTimeout,
		o.stats,
	)
}

// Stop cancels the supervision context. Start returns once every worker
// observed the cancellation.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
