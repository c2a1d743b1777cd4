package server

import "sync"

// Broker is an in-process pub/sub for live game events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan LiveEvent]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan LiveEvent]struct{}),
	}
}

// Subscribe returns a channel that receives the game's events.
func (b *Broker) Subscribe(gameID string) chan LiveEvent {
	ch := make(chan LiveEvent, 32)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan LiveEvent]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan LiveEvent) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to every subscriber of the game. Slow subscribers
// miss events rather than hold up the game.
func (b *Broker) Publish(gameID string, ev LiveEvent) {
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- ev:
		default:
		}
	}
	b.mu.RUnlock()
}

// Subscribers returns how many channels listen to the game.
func (b *Broker) Subscribers(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[gameID])
}
