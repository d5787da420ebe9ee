package model

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	if _, _, ok := q.NextPair(); ok {
		t.Fatalf("empty queue produced a pair")
	}
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", id, err)
		}
	}
	if err := q.AddPlayer("b"); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("duplicate err = %v", err)
	}

	first, second, ok := q.NextPair()
	if !ok || first.ID != "a" || second.ID != "b" {
		t.Fatalf("NextPair() = %v, %v, %v", first, second, ok)
	}
	if q.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", q.Size())
	}
	if !q.Remove("c") || q.Remove("c") {
		t.Fatalf("Remove did not report correctly")
	}
}
