package deletion

import (
	"sync"

	"github.com/google/uuid"
)

// Progress is the UI-visible lifecycle of one deletion run. Each run emits
// a single linear sequence: STARTED, PROGRESS_INDICATOR_CAN_START, then
// COMPLETED or FAILED, then PROGRESS_INDICATOR_CAN_END. The indicator pair
// brackets the dispatch so the UI can show and hide a spinner regardless of
// outcome.
type Progress string

const (
	NotStarted                Progress = "NOT_STARTED"
	Started                   Progress = "STARTED"
	ProgressIndicatorCanStart Progress = "PROGRESS_INDICATOR_CAN_START"
	ProgressIndicatorCanEnd   Progress = "PROGRESS_INDICATOR_CAN_END"
	Completed                 Progress = "COMPLETED"
	Failed                    Progress = "FAILED"
)

// Update is one emission of the progress state machine. Affected is set on
// COMPLETED and lists the domains whose data changed, telling the presenting
// screen which reloads to run.
type Update struct {
	RunID    uuid.UUID `json:"run_id"`
	Progress Progress  `json:"progress"`
	Affected []Domain  `json:"affected,omitempty"`
}

// ProgressStream is a latest-value-wins observable backed by a callback
// registry. The last published update is retained so a late subscriber
// immediately sees it. State lives in memory only and does not survive the
// process.
type ProgressStream struct {
	mu     sync.Mutex
	last   Update
	subs   map[int]func(Update)
	nextID int
}

func NewProgressStream() *ProgressStream {
	return &ProgressStream{
		last: Update{Progress: NotStarted},
		subs: make(map[int]func(Update)),
	}
}

// Latest returns the last published update, or a NOT_STARTED update if
// nothing has been published yet.
func (s *ProgressStream) Latest() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Subscribe registers fn and returns a cancel function. fn is invoked
// immediately with the latest update, then synchronously on every publish
// until cancelled. Callbacks must not publish back into the stream.
func (s *ProgressStream) Subscribe(fn func(Update)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	last := s.last
	s.mu.Unlock()

	fn(last)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Publish records u as the latest update and notifies subscribers.
func (s *ProgressStream) Publish(u Update) {
	s.mu.Lock()
	s.last = u
	fns := make([]func(Update), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
