// Package session drives the interactive batch-confirmation workflow over
// a reconciled offer list. The state machine is pure input/output: the
// front end feeds operator choices through Submit and renders the emitted
// events, so a test harness can drive a whole session deterministically.
package session

import (
	"log"
	"strings"

	"freeclaim/internal/domain"
)

type State int

const (
	Idle State = iota
	Presenting
	AwaitingChoice
	Opening
	Skipped
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	case AwaitingChoice:
		return "awaiting_choice"
	case Opening:
		return "opening"
	case Skipped:
		return "skipped"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Opener performs the browser-open side effect for one offer URL.
// Implementations handle their own fallbacks; an error here is logged and
// never blocks claim recording.
type Opener interface {
	Open(url string) error
}

type EventType string

const (
	// EventPresented carries the full reconciled queue for display.
	EventPresented EventType = "presented"
	// EventOpened carries one opened batch plus the remaining count.
	EventOpened EventType = "opened"
	EventSkipped   EventType = "skipped"
	EventCompleted EventType = "completed"
	// EventNothingNew ends a session that started with an empty queue.
	EventNothingNew EventType = "nothing_new"
)

type Event struct {
	Type      EventType
	Offers    []domain.Offer
	Remaining int
}

type Session struct {
	queue     []domain.Offer
	claimed   []string // case-folded titles opened so far
	batchSize int
	opener    Opener
	state     State
}

func New(offers []domain.Offer, batchSize int, opener Opener) *Session {
	q := make([]domain.Offer, len(offers))
	copy(q, offers)
	return &Session{queue: q, batchSize: batchSize, opener: opener, state: Idle}
}

func (s *Session) State() State { return s.state }

// Done reports whether the session reached a terminal state. The caller
// commits Claimed() to the ledger exactly once when this turns true.
func (s *Session) Done() bool {
	return s.state == Completed || s.state == Skipped
}

// Claimed returns the case-folded titles opened so far, in open order.
// Valid in any state: a skip still commits batches opened before it.
func (s *Session) Claimed() []string {
	out := make([]string, len(s.claimed))
	copy(out, s.claimed)
	return out
}

// Start presents the queue. An empty queue completes immediately.
func (s *Session) Start() Event {
	if s.state != Idle {
		return Event{Type: EventNothingNew}
	}
	s.state = Presenting
	if len(s.queue) == 0 {
		s.state = Completed
		return Event{Type: EventNothingNew}
	}

	offers := make([]domain.Offer, len(s.queue))
	copy(offers, s.queue)
	s.state = AwaitingChoice
	return Event{Type: EventPresented, Offers: offers, Remaining: len(offers)}
}

// Submit feeds one line of operator input. "no" (case-insensitive) skips
// the remaining queue; anything else, the empty string included, opens the
// next batch.
func (s *Session) Submit(choice string) []Event {
	if s.state != AwaitingChoice {
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(choice), "no") {
		s.state = Skipped
		return []Event{{Type: EventSkipped, Remaining: len(s.queue)}}
	}

	s.state = Opening
	n := s.batchSize
	if n > len(s.queue) {
		n = len(s.queue)
	}
	batch := s.queue[:n]
	s.queue = s.queue[n:]

	for _, o := range batch {
		if err := s.opener.Open(o.URL); err != nil {
			// Opening is best-effort; the claim is recorded regardless.
			log.Printf("[session] open %q: %v", o.Title, err)
		}
		s.claimed = append(s.claimed, o.Key())
	}

	events := []Event{{Type: EventOpened, Offers: batch, Remaining: len(s.queue)}}
	if len(s.queue) == 0 {
		s.state = Completed
		events = append(events, Event{Type: EventCompleted})
	} else {
		s.state = AwaitingChoice
	}
	return events
}

// BySource groups offers for the per-source presentation breakdown,
// keyed in storefront priority order.
func BySource(offers []domain.Offer) map[domain.Source][]domain.Offer {
	out := make(map[domain.Source][]domain.Offer)
	for _, o := range offers {
		out[o.Source] = append(out[o.Source], o)
	}
	return out
}
