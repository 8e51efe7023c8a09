package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-client/internal/apperror"
	"github.com/rocketscienceinc/connectfour-client/internal/entity"
	"github.com/rocketscienceinc/connectfour-client/internal/view"
)

const errorStatusPrefix = "Error: "

type gameAPI interface {
	Move(ctx context.Context, column int) error
	State(ctx context.Context) (*entity.GameState, error)
}

type snapshotRepo interface {
	Save(ctx context.Context, key string, snapshot *entity.Snapshot) error
	Get(ctx context.Context, key string) (*entity.Snapshot, error)
	Delete(ctx context.Context, key string) error
}

// Observer is called with every state that made it onto the view.
type Observer func(state *entity.GameState)

// BoardClient keeps a board view in line with the game server.
//
// Every refresh takes a sequence number when it is issued. A fetched state is drawn only when its
// sequence is newer than the last one drawn, so a slow response can never overwrite a newer board.
type BoardClient struct {
	logger *slog.Logger
	api    gameAPI
	layout *view.Layout

	snapshots   snapshotRepo
	snapshotKey string

	mu        sync.Mutex
	issued    uint64
	applied   uint64
	observers []Observer
}

// NewBoardClient builds a client drawing onto layout. snapshots may be nil.
func NewBoardClient(logger *slog.Logger, api gameAPI, layout *view.Layout, snapshots snapshotRepo, snapshotKey string) *BoardClient {
	return &BoardClient{
		logger: logger.With("component", "board_client"),
		api:    api,
		layout: layout,

		snapshots:   snapshots,
		snapshotKey: snapshotKey,
	}
}

func (that *BoardClient) Subscribe(observer Observer) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.observers = append(that.observers, observer)
}

// Init draws the last stored snapshot, if any, and then refreshes from the server once.
func (that *BoardClient) Init(ctx context.Context) error {
	that.restore(ctx)

	if err := that.RefreshBoard(ctx); err != nil {
		return fmt.Errorf("failed initial refresh: %w", err)
	}

	return nil
}

// SubmitMove drops a piece in column and, once the server accepted it, refreshes the board.
// The column is passed through unchecked; the server decides whether the move is legal.
func (that *BoardClient) SubmitMove(ctx context.Context, column int) error {
	log := that.logger.With("method", "SubmitMove", "column", column)

	if err := that.api.Move(ctx, column); err != nil {
		that.reportFailure(err)
		return fmt.Errorf("failed to submit move: %w", err)
	}

	log.Info("move accepted")

	err := that.RefreshBoard(ctx)
	if errors.Is(err, apperror.ErrStaleSnapshot) {
		return nil
	}

	return err
}

// RefreshBoard fetches the current state and draws it. It returns an error wrapping
// apperror.ErrStaleSnapshot when a newer refresh has already been drawn.
func (that *BoardClient) RefreshBoard(ctx context.Context) error {
	log := that.logger.With("method", "RefreshBoard")

	sequence := that.nextSequence()

	state, err := that.api.State(ctx)
	if err != nil {
		that.reportFailureAt(sequence, err)
		return fmt.Errorf("failed to refresh board: %w", err)
	}

	observers, err := that.apply(sequence, state)
	if errors.Is(err, apperror.ErrStaleSnapshot) {
		log.Debug("discarded stale state", "sequence", sequence)
		return err
	}

	if err != nil {
		that.reportFailureAt(sequence, err)
		return fmt.Errorf("failed to render board: %w", err)
	}

	log.Debug("board refreshed", "sequence", sequence, "winner", state.Winner)

	that.save(ctx, &entity.Snapshot{Sequence: sequence, State: state})

	for _, observer := range observers {
		observer(state)
	}

	return nil
}

// Watch refreshes the board every interval until ctx is done.
func (that *BoardClient) Watch(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "Watch")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := that.RefreshBoard(ctx); err != nil && !errors.Is(err, apperror.ErrStaleSnapshot) {
				log.Warn("periodic refresh failed", "error", err)
			}
		}
	}
}

// Applied returns the sequence number of the state currently drawn, zero if none.
func (that *BoardClient) Applied() uint64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.applied
}

func (that *BoardClient) nextSequence() uint64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.issued++

	return that.issued
}

func (that *BoardClient) apply(sequence uint64, state *entity.GameState) ([]Observer, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if sequence <= that.applied {
		return nil, fmt.Errorf("%w: got %d, drawn %d", apperror.ErrStaleSnapshot, sequence, that.applied)
	}

	if err := view.Render(that.layout, state); err != nil {
		return nil, err
	}

	that.applied = sequence
	that.layout.ReportStatus("")

	return append([]Observer(nil), that.observers...), nil
}

func (that *BoardClient) restore(ctx context.Context) {
	if that.snapshots == nil {
		return
	}

	log := that.logger.With("method", "restore")

	snapshot, err := that.snapshots.Get(ctx, that.snapshotKey)
	if errors.Is(err, apperror.ErrSnapshotNotFound) {
		return
	}

	if err != nil {
		log.Warn("could not load snapshot", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.applied > 0 {
		return
	}

	if err = view.Render(that.layout, snapshot.State); err != nil {
		log.Warn("could not draw snapshot", "error", err)
		return
	}

	log.Info("restored last known board", "sequence", snapshot.Sequence)
}

// save stores the drawn snapshot. A finished game has nothing worth restoring, so its snapshot is dropped instead.
func (that *BoardClient) save(ctx context.Context, snapshot *entity.Snapshot) {
	if that.snapshots == nil {
		return
	}

	log := that.logger.With("method", "save")

	if snapshot.State.HasWinner() {
		if err := that.snapshots.Delete(ctx, that.snapshotKey); err != nil {
			log.Warn("could not delete snapshot", "error", err)
		}
		return
	}

	if err := that.snapshots.Save(ctx, that.snapshotKey, snapshot); err != nil {
		log.Warn("could not save snapshot", "error", err)
	}
}

// reportFailureAt reports a failed refresh unless a newer one has already been drawn.
func (that *BoardClient) reportFailureAt(sequence uint64, err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if sequence <= that.applied {
		that.logger.Debug("ignored failure of stale refresh", "sequence", sequence, "error", err)
		return
	}

	that.reportFailure(err)
}

func (that *BoardClient) reportFailure(err error) {
	that.logger.Error("board update failed", "error", err)
	that.layout.ReportStatus(errorStatusPrefix + err.Error())
}
