package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbeisheim/chessington/internal/model"
)

func openTemp(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	snap := model.Snapshot{
		GameID:    "g1",
		Placement: model.StartingPlacement,
		ToMove:    model.White,
		White:     "alice",
		UpdatedAt: time.Unix(1700000000, 42),
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Placement != snap.Placement || got.ToMove != snap.ToMove || got.White != "alice" || got.Black != "" {
		t.Fatalf("Load() = %+v", got)
	}
	if !got.UpdatedAt.Equal(snap.UpdatedAt) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, snap.UpdatedAt)
	}

	snap.ToMove = model.Black
	snap.Black = "bob"
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	got, _ = s.Load(ctx, "g1")
	if got.ToMove != model.Black || got.Black != "bob" {
		t.Fatalf("upsert not applied: %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRestoreFromStore(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	g := model.NewGame("g2")
	g.AddPlayer("alice")
	if err := s.Save(ctx, g.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	snap, err := s.Load(ctx, "g2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	restored, err := model.RestoreGame(snap)
	if err != nil {
		t.Fatalf("RestoreGame failed: %v", err)
	}
	if !restored.IsPlayerInGame("alice") || restored.State().Placement != model.StartingPlacement {
		t.Fatalf("restored state = %+v", restored.State())
	}
}

func TestSaveKeepsNewest(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	older := model.Snapshot{
		GameID:    "g3",
		Placement: model.StartingPlacement,
		ToMove:    model.White,
		UpdatedAt: time.Unix(1700000000, 0),
	}
	newer := older
	newer.Placement = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"
	newer.ToMove = model.Black
	newer.UpdatedAt = older.UpdatedAt.Add(time.Millisecond)

	// The newer save lands first; the late, older one must not win.
	if err := s.Save(ctx, newer); err != nil {
		t.Fatalf("Save(newer) failed: %v", err)
	}
	if err := s.Save(ctx, older); err != nil {
		t.Fatalf("Save(older) failed: %v", err)
	}
	got, err := s.Load(ctx, "g3")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Placement != newer.Placement || got.ToMove != model.Black {
		t.Fatalf("stale snapshot overwrote newer one: %+v", got)
	}
}

func TestLastMoveSurvivesRestore(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	g := model.NewGame("g4")
	g.AddPlayer("alice")
	g.AddPlayer("bob")
	if err := g.MakeMove("alice", model.SimpleMove{From: model.At(1, 4), To: model.At(3, 4)}); err != nil {
		t.Fatalf("MakeMove failed: %v", err)
	}
	if err := s.Save(ctx, g.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	snap, err := s.Load(ctx, "g4")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	restored, err := model.RestoreGame(snap)
	if err != nil {
		t.Fatalf("RestoreGame failed: %v", err)
	}
	last := restored.State().LastMove
	if last == nil || last.Notation != "e4" || last.To != model.At(3, 4) {
		t.Fatalf("restored last move = %+v", last)
	}
}
