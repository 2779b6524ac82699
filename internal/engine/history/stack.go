package history

import "time"

// OperationInfo describes a recorded command for undo menus and status
// lines.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

type entry struct {
	cmd Command
	at  time.Time
}

func (e entry) info() OperationInfo {
	return OperationInfo{Description: e.cmd.Description(), Timestamp: e.at}
}

// stack holds entries oldest first. A positive limit evicts the oldest
// entries on overflow.
type stack struct {
	entries []entry
	limit   int
}

func (s *stack) push(e entry) {
	s.entries = append(s.entries, e)
	s.trim()
}

func (s *stack) pop() (entry, bool) {
	n := len(s.entries)
	if n == 0 {
		return entry{}, false
	}
	e := s.entries[n-1]
	s.entries[n-1] = entry{}
	s.entries = s.entries[:n-1]
	return e, true
}

func (s *stack) peek() (OperationInfo, bool) {
	if len(s.entries) == 0 {
		return OperationInfo{}, false
	}
	return s.entries[len(s.entries)-1].info(), true
}

func (s *stack) trim() {
	excess := len(s.entries) - s.limit
	if s.limit <= 0 || excess <= 0 {
		return
	}
	clear(s.entries[:excess])
	s.entries = s.entries[excess:]
}

func (s *stack) infos() []OperationInfo {
	out := make([]OperationInfo, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.info()
	}
	return out
}

func (s *stack) reset() {
	s.entries = nil
}
