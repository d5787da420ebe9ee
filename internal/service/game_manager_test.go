package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chessington/internal/model"
	"github.com/benbeisheim/chessington/internal/store"
)

type memoryStore struct {
	mu    sync.Mutex
	snaps map[string]model.Snapshot
	saves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: make(map[string]model.Snapshot)}
}

func (m *memoryStore) Save(_ context.Context, snap model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.GameID] = snap
	m.saves++
	return nil
}

func (m *memoryStore) Load(_ context.Context, id string) (model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[id]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return snap, nil
}

func TestCreateAndJoin(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(nil)
	if _, err := gm.CreateGame(ctx, "g1"); err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if _, err := gm.CreateGame(ctx, "g1"); !errors.Is(err, ErrGameExists) {
		t.Fatalf("duplicate err = %v", err)
	}
	if color, err := gm.AddPlayerToGame(ctx, "g1", "alice"); err != nil || color != model.White {
		t.Fatalf("AddPlayerToGame = %q, %v", color, err)
	}
	if _, err := gm.AddPlayerToGame(ctx, "missing", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing game err = %v", err)
	}
	if _, err := gm.GetGameState(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing state err = %v", err)
	}
}

func TestMovesPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore()
	gm := NewGameManager(st)
	gm.CreateGame(ctx, "g1")
	gm.AddPlayerToGame(ctx, "g1", "alice")
	gm.AddPlayerToGame(ctx, "g1", "bob")

	moves, err := gm.AvailableMoves(ctx, "g1", model.At(1, 4))
	if err != nil || len(moves) != 2 {
		t.Fatalf("AvailableMoves = %v, %v", moves, err)
	}
	if err := gm.MakeMove(ctx, "g1", "alice", model.SimpleMove{From: model.At(1, 4), To: model.At(3, 4)}); err != nil {
		t.Fatalf("MakeMove failed: %v", err)
	}
	if err := gm.MakeMove(ctx, "g1", "alice", model.SimpleMove{From: model.At(1, 3), To: model.At(2, 3)}); !errors.Is(err, model.ErrNotYourTurn) {
		t.Fatalf("second white move err = %v", err)
	}

	// A fresh manager over the same store picks the game back up.
	reloaded := NewGameManager(st)
	state, err := reloaded.GetGameState(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGameState after restart failed: %v", err)
	}
	if state.ToMove != model.Black || state.Players.Black.ID != "bob" {
		t.Fatalf("restored state = %+v", state)
	}
	if err := reloaded.MakeMove(ctx, "g1", "bob", model.SimpleMove{From: model.At(6, 4), To: model.At(4, 4)}); err != nil {
		t.Fatalf("black reply failed: %v", err)
	}
	if st.snaps["g1"].ToMove != model.White {
		t.Fatalf("reply not persisted: %+v", st.snaps["g1"])
	}
}

func TestMatchmaking(t *testing.T) {
	ctx := context.Background()
	gm := NewGameManager(nil)
	if gm.pairWaiting(ctx) {
		t.Fatalf("paired an empty queue")
	}
	gm.JoinMatchmaking("alice")
	if err := gm.JoinMatchmaking("alice"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Fatalf("duplicate join err = %v", err)
	}
	if gm.pairWaiting(ctx) {
		t.Fatalf("paired a single player")
	}
	gm.JoinMatchmaking("bob")
	if !gm.pairWaiting(ctx) {
		t.Fatalf("expected a pair")
	}

	alice, ok := gm.MatchStatus("alice")
	if !ok || alice.Color != model.White {
		t.Fatalf("alice match = %+v, %v", alice, ok)
	}
	bob, ok := gm.MatchStatus("bob")
	if !ok || bob.GameID != alice.GameID || bob.Color != model.Black {
		t.Fatalf("bob match = %+v, %v", bob, ok)
	}
	if _, ok := gm.MatchStatus("alice"); ok {
		t.Fatalf("match handed out twice")
	}
	game, err := gm.GetGame(ctx, alice.GameID)
	if err != nil || !game.IsPlayerInGame("bob") {
		t.Fatalf("matched game = %v, %v", game, err)
	}
}

func TestRunPairsUntilCancelled(t *testing.T) {
	gm := NewGameManager(nil)
	gm.JoinMatchmaking("alice")
	gm.JoinMatchmaking("bob")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := gm.MatchStatus("alice"); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Run never paired the queue")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
