package session

import "github.com/migueltorresd/gallery/internal/models"

// subscriber is one observer of the session state stream.
type subscriber struct {
	ch chan models.Session
}

// Subscribe registers an observer of the session state. The latest
// snapshot is replayed immediately, so late subscribers start from the
// current state rather than history. Updates are delivered in
// subscription order; a subscriber that is not keeping up is conflated to
// the newest snapshot instead of being buffered.
//
// The returned cancel func removes the subscription. The channel is not
// closed on cancel; the caller simply stops reading.
func (s *Store) Subscribe() (<-chan models.Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &subscriber{ch: make(chan models.Session, 1)}
	sub.ch <- s.state
	s.subs = append(s.subs, sub)

	return sub.ch, func() { s.unsubscribe(sub) }
}

func (s *Store) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.subs {
		if cur == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// setState swaps in the new snapshot and broadcasts it to every
// subscriber. Only the session store mutates the state; collaborators
// observe it through Subscribe or the snapshot accessors.
func (s *Store) setState(next models.Session) {
	s.mu.Lock()
	s.state = next
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- next:
		default:
			// drop the stale value, then try once more; if another
			// broadcast won the race the subscriber already holds a
			// newer snapshot
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- next:
			default:
			}
		}
	}
}
