// Package streaming fans simulation events out to per-run subscribers.
package streaming

import (
	"sync"

	"github.com/google/uuid"

	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

type EventStreamer struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID][]chan *storage.SimulationEvent
}

func NewEventStreamer() *EventStreamer {
	return &EventStreamer{
		subscribers: make(map[uuid.UUID][]chan *storage.SimulationEvent),
	}
}

func (s *EventStreamer) Subscribe(simulationID uuid.UUID) <-chan *storage.SimulationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *storage.SimulationEvent, 100)
	s.subscribers[simulationID] = append(s.subscribers[simulationID], ch)
	return ch
}

func (s *EventStreamer) Unsubscribe(simulationID uuid.UUID, ch <-chan *storage.SimulationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.subscribers[simulationID]
	for i, sub := range subs {
		if sub == ch {
			s.subscribers[simulationID] = append(subs[:i], subs[i+1:]...)
			close(sub)
			break
		}
	}
}

func (s *EventStreamer) Broadcast(simulationID uuid.UUID, event *storage.SimulationEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers[simulationID] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full
		}
	}
}
