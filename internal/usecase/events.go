package usecase

import "sync"

type EventKind string

const (
	EventNewMatchFound       EventKind = "new_match_found"
	EventParticipantsUpdated EventKind = "participants_updated"
	EventMatchEnded          EventKind = "match_ended"
)

// Event describes one visible change of the tracked match. ParticipantIDs
// carries summoner ids; NewParticipant is only meaningful for
// EventParticipantsUpdated.
type Event struct {
	Kind           EventKind
	MatchID        string
	ParticipantIDs []string
	NewParticipant bool
}

// Notifier fans events out to subscribers without ever blocking the
// publisher. A subscriber that stops draining its channel loses events.
type Notifier struct {
	mu   sync.Mutex
	subs []chan Event
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe returns a buffered channel of events. The channel is closed by
// Close.
func (n *Notifier) Subscribe(buffer int) <-chan Event {
	if buffer < 1 {
		buffer = 16
	}

	ch := make(chan Event, buffer)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()

	return ch
}

func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	subs := make([]chan Event, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (n *Notifier) Close() {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}
