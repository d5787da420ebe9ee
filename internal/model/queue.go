package model

import (
	"errors"
	"sync"
	"time"
)

var ErrAlreadyQueued = errors.New("player already in queue")

type QueuedPlayer struct {
	ID       string
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.ID == playerID {
			return ErrAlreadyQueued
		}
	}

	q.players = append(q.players, QueuedPlayer{
		ID:       playerID,
		JoinedAt: time.Now(),
	})
	return nil
}

// NextPair pops the two players who have waited longest.
func (q *Queue) NextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	first, second := q.players[0], q.players[1]
	q.players = q.players[2:]
	return first, second, true
}

func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
