// Package notify holds the single notification slot shown to the user.
// A new notification replaces whatever is displayed; a shown notification
// hides itself after a fixed time.
package notify

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Slot keeps at most one notification. Listeners are called synchronously
// from Notify, in registration order.
type Slot struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	current   *models.Notification
	shownAt   time.Time
	listeners []func(models.Notification)
}

// New returns an empty slot. ttl <= 0 keeps notifications until dismissed.
func New(ttl time.Duration) *Slot {
	return &Slot{ttl: ttl, now: time.Now}
}

// Subscribe registers fn to be called with every new notification.
func (s *Slot) Subscribe(fn func(models.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Slot) Notify(n models.Notification) {
	s.mu.Lock()
	s.current = &n
	s.shownAt = s.now()
	listeners := append([]func(models.Notification){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
}

// Current returns the visible notification, if any.
func (s *Slot) Current() (models.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Notification{}, false
	}
	if s.ttl > 0 && s.now().Sub(s.shownAt) >= s.ttl {
		s.current = nil
		return models.Notification{}, false
	}
	return *s.current, true
}

func (s *Slot) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
