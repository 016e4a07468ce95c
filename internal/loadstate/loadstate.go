// Package loadstate tracks the lifecycle of one asynchronous fetch owned by a
// single page.
//
// Every fetch is issued a Ticket. Only the result carrying the most recently
// issued ticket may change the state; results for older tickets are dropped,
// so a slow earlier response can never overwrite a newer one.
package loadstate

// Phase is the active variant of a State.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Ticket identifies one issued fetch.
type Ticket uint64

// State is a tagged idle/loading/ready/failed value. The zero value is Idle.
type State[T any] struct {
	phase  Phase
	data   T
	err    error
	issued Ticket
}

// Begin moves to Loading, drops any previous data and returns the ticket the
// caller must hand back to Resolve or Fail.
func (s *State[T]) Begin() Ticket {
	var zero T
	s.issued++
	s.phase = Loading
	s.data = zero
	s.err = nil
	return s.issued
}

// Resolve moves to Ready with data. It reports false and leaves the state
// untouched when t is not the latest ticket.
func (s *State[T]) Resolve(t Ticket, data T) bool {
	if t != s.issued || s.phase != Loading {
		return false
	}
	s.phase = Ready
	s.data = data
	s.err = nil
	return true
}

// Fail moves to Failed and resets data. Stale tickets are ignored.
func (s *State[T]) Fail(t Ticket, err error) bool {
	if t != s.issued || s.phase != Loading {
		return false
	}
	var zero T
	s.phase = Failed
	s.data = zero
	s.err = err
	return true
}

// Reset returns to Idle. Results for tickets issued before the reset are
// dropped.
func (s *State[T]) Reset() {
	var zero T
	s.issued++
	s.phase = Idle
	s.data = zero
	s.err = nil
}

func (s *State[T]) Phase() Phase          { return s.phase }
func (s *State[T]) Data() T               { return s.data }
func (s *State[T]) Err() error            { return s.err }
func (s *State[T]) Loading() bool         { return s.phase == Loading }
func (s *State[T]) Latest() Ticket        { return s.issued }
func (s *State[T]) IsStale(t Ticket) bool { return t != s.issued }
