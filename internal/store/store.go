package store

import (
	"sync"

	"github.com/sharetube/embedplayer/internal/domain"
)

// Store holds the single current PlayerValue of a player and fans every
// replacement out to subscribers.
type Store struct {
	mu     sync.RWMutex
	value  domain.PlayerValue
	subs   map[int]chan domain.PlayerValue
	nextID int
	closed bool
}

func New(initial domain.PlayerValue) *Store {
	return &Store{
		value: initial,
		subs:  make(map[int]chan domain.PlayerValue),
	}
}

func (s *Store) Value() domain.PlayerValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value
}

// Publish replaces the current value. It never blocks: a subscriber that has
// not drained its channel loses the oldest pending value, not the newest.
func (s *Store) Publish(v domain.PlayerValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.value = v
	for _, ch := range s.subs {
		deliver(ch, v)
	}
}

// Update publishes fn applied to the current value and returns the result.
func (s *Store) Update(fn func(domain.PlayerValue) domain.PlayerValue) domain.PlayerValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.value
	}

	s.value = fn(s.value)
	for _, ch := range s.subs {
		deliver(ch, s.value)
	}

	return s.value
}

func deliver(ch chan domain.PlayerValue, v domain.PlayerValue) {
	for {
		select {
		case ch <- v:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe returns a channel that first yields the current value and then
// every published one. cancel closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan domain.PlayerValue, func()) {
	if buffer < 1 {
		buffer = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan domain.PlayerValue, buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.value

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Store) subscribersCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subs)
}

// Close closes every subscriber channel. Later publishes are ignored.
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
