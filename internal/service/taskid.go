package service

import (
	"strconv"
	"sync"
	"time"
)

// TaskIDGenerator derives task ids from the creation time in milliseconds.
// Two ids handed out in the same millisecond still differ: the later one is
// bumped past the last issued value.
type TaskIDGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *TaskIDGenerator) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return strconv.FormatInt(id, 10)
}
