package workspace

import "time"

// EventType labels a store change notification.
type EventType string

const (
	EventProjectReplaced   EventType = "project:replaced"
	EventBatchApplied      EventType = "files:batch_applied"
	EventFileUpdated       EventType = "file:updated"
	EventFileDeleted       EventType = "file:deleted"
	EventActiveFileChanged EventType = "file:active_changed"
	EventChatAppended      EventType = "chat:appended"
)

// Event is what subscribers receive after a store mutation. Consumers re-query
// the store for full snapshots; events carry just enough to know what changed.
type Event struct {
	Type      EventType    `json:"type"`
	Project   string       `json:"project,omitempty"`
	Path      string       `json:"path,omitempty"`
	Paths     []string     `json:"paths,omitempty"`
	Message   *ChatMessage `json:"message,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

const subscriberBuffer = 32

// Subscribe registers a change listener. The returned cancel func must be
// called when the consumer goes away. A subscriber that falls behind loses
// events rather than blocking store mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close tears the store down, closing all subscriber channels. Used by the
// session manager on eviction.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// notify fans an event out to subscribers. Callers hold the write lock.
func (s *Store) notify(ev Event) {
	if len(s.subs) == 0 {
		return
	}
	ev.Timestamp = time.Now().UnixMilli()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
