package app

import (
	"sync"

	"quiz-assessment-service/internal/domain"
)

// ScoreFeed fans newly recorded scores out to each user's live subscribers.
type ScoreFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.ScoreSummary]struct{}
}

func NewScoreFeed() *ScoreFeed {
	return &ScoreFeed{subscribers: make(map[string]map[chan domain.ScoreSummary]struct{})}
}

// Subscribe returns a channel of the user's new scores.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ScoreFeed) Subscribe(userID string) (<-chan domain.ScoreSummary, func()) {
	ch := make(chan domain.ScoreSummary, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[userID]
	if !ok {
		subs = make(map[chan domain.ScoreSummary]struct{})
		f.subscribers[userID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs, ok := f.subscribers[userID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(f.subscribers, userID)
		}
	}
	return ch, cancel
}

// Publish delivers a score to every subscriber of the user without blocking.
func (f *ScoreFeed) Publish(userID string, summary domain.ScoreSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[userID] {
		select {
		case ch <- summary:
		default:
			// Full buffer: drop the oldest update so a slow reader never blocks grading.
			select {
			case <-ch:
			default:
			}
			ch <- summary
		}
	}
}

// Subscribers reports how many live subscriptions the user has.
func (f *ScoreFeed) Subscribers(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[userID])
}
