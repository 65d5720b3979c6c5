package telemetry

import (
	"encoding/json"
	"sync"
)

// queue holds encoded lines waiting for upload. When limit is positive the
// oldest lines are dropped to stay within it.
type queue struct {
	mu    sync.Mutex
	limit int
	lines []json.RawMessage
}

// push appends a line and returns how many old lines were dropped
func (q *queue) push(line json.RawMessage) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(q.lines, line)
	return q.trimLocked()
}

// take removes up to n lines from the head
func (q *queue) take(n int) []json.RawMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	n = min(n, len(q.lines))
	if n == 0 {
		return nil
	}
	batch := make([]json.RawMessage, n)
	copy(batch, q.lines[:n])
	q.lines = q.lines[n:]
	return batch
}

// requeue puts a failed batch back at the head, ahead of newer lines, and
// returns how many lines were dropped
func (q *queue) requeue(batch []json.RawMessage) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(append(make([]json.RawMessage, 0, len(batch)+len(q.lines)), batch...), q.lines...)
	return q.trimLocked()
}

func (q *queue) trimLocked() int {
	over := len(q.lines) - q.limit
	if q.limit <= 0 || over <= 0 {
		return 0
	}
	clear(q.lines[:over])
	q.lines = q.lines[over:]
	return over
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}
