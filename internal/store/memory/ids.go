package memory

import "time"

// nextTaskID derives an id from the clock in milliseconds, bumping past the
// previous id when the clock has not advanced. Callers hold s.mu.
func (s *Store) nextTaskID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastTaskID {
		id = s.lastTaskID + 1
	}
	s.lastTaskID = id
	return id
}
