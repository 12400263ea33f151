package events

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore keeps consumption event streams in process memory.
// With a retention bound, the oldest streams are dropped whole once the
// log grows past it.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []Event
	// positions[i] is the global log position of allEvents[i]
	positions []int
	maxEvents int
	logger    *zap.Logger
}

// NewInMemoryEventStore creates a store that retains every event
func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	return NewBoundedEventStore(logger, 0)
}

// NewBoundedEventStore creates a store retaining at most maxEvents events.
// A non-positive maxEvents disables the bound.
func NewBoundedEventStore(logger *zap.Logger, maxEvents int) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxEvents < 0 {
		maxEvents = 0
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		maxEvents:   maxEvents,
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent versions the event within its stream and delivers it to the
// subscribers of its type. Delivery happens on the caller's goroutine once
// the store lock is released.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	eventWithVersion := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.positions = append(s.positions, s.position)
	s.position++
	if s.maxEvents > 0 && len(s.allEvents) > s.maxEvents {
		s.trim()
	}
	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)
	s.mutex.Unlock()

	s.notify(handlers, eventWithVersion)
	return nil
}

// trim drops the oldest streams until the log is back to three quarters of
// its bound. Callers hold the write lock.
func (s *InMemoryEventStore) trim() {
	target := s.maxEvents - s.maxEvents/4
	dropped := make(map[string]bool)
	removed := 0
	for i := 0; i < len(s.allEvents) && len(s.allEvents)-removed > target; i++ {
		id := s.allEvents[i].StreamID()
		if dropped[id] {
			continue
		}
		dropped[id] = true
		removed += len(s.streams[id])
	}

	keptEvents := make([]Event, 0, len(s.allEvents)-removed)
	keptPositions := make([]int, 0, len(s.allEvents)-removed)
	for i, e := range s.allEvents {
		if dropped[e.StreamID()] {
			continue
		}
		keptEvents = append(keptEvents, e)
		keptPositions = append(keptPositions, s.positions[i])
	}
	for id := range dropped {
		delete(s.streams, id)
	}
	s.allEvents = keptEvents
	s.positions = keptPositions

	s.logger.Debug("event store trimmed",
		zap.Int("streams_dropped", len(dropped)),
		zap.Int("events_dropped", removed),
		zap.Int("events_retained", len(keptEvents)))
}

// Len returns the number of retained events
func (s *InMemoryEventStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.allEvents)
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

// ReadAllEvents returns the retained events at or after the global log
// position fromPosition. Positions of dropped events are not reused.
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := sort.SearchInts(s.positions, fromPosition)
	if start >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[start:]...), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event_type", event.Type()),
				zap.String("stream_id", event.StreamID()),
				zap.Error(err))
		}
	}
}
