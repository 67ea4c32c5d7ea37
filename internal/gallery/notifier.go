package gallery

import (
	"sync"
	"time"

	"prompt_galeri/internal/domain/models"
)

// Notifier is a transient queue of user-facing status messages. Each entry
// expires on its own timer, independent of the others, or earlier through an
// explicit Dismiss.
type Notifier struct {
	mu      sync.Mutex
	seq     int64
	ttl     time.Duration
	entries []models.Notification
	timers  map[int64]*time.Timer
}

func NewNotifier() *Notifier {
	return NewNotifierTTL(models.NotificationTTL)
}

func NewNotifierTTL(ttl time.Duration) *Notifier {
	return &Notifier{
		ttl:    ttl,
		timers: make(map[int64]*time.Timer),
	}
}

// Post appends a notification and schedules its removal after the configured
// display duration, counted from this insertion. Returns the entry id.
func (n *Notifier) Post(message string, severity models.Severity) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	id := n.seq
	n.entries = append(n.entries, models.Notification{
		ID:       id,
		Message:  message,
		Severity: severity,
		PostedAt: time.Now(),
	})
	n.timers[id] = time.AfterFunc(n.ttl, func() {
		n.Dismiss(id)
	})

	return id
}

// Dismiss removes an entry early. Dismissing an unknown or already expired id
// is a no-op.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, e := range n.entries {
		if e.ID == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

// Active returns the currently visible notifications in posting order.
func (n *Notifier) Active() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]models.Notification(nil), n.entries...)
}
