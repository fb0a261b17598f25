package app

import (
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NotificationType is the kind of a toast.
type NotificationType int

// Toast kinds. NotificationLoading is shown with a spinner and never expires.
const (
	NotificationSuccess NotificationType = iota
	NotificationError
	NotificationWarning
	NotificationInfo
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID of the single loading toast.
	LoadingNotificationID = "loading"

	maxNotifications = 10
)

func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification is a toast shown over the top right of the screen.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	// Duration of zero keeps the toast until it is removed.
	Duration time.Duration
}

// IsExpired reports whether the toast outlived its duration.
func (n *Notification) IsExpired() bool {
	return n.Duration > 0 && time.Since(n.CreatedAt) > n.Duration
}

// toastQueue keeps toasts in arrival order, keyed by ID.
type toastQueue struct {
	items *orderedmap.OrderedMap[string, Notification]
	seq   int
}

func newToastQueue() *toastQueue {
	return &toastQueue{items: orderedmap.New[string, Notification]()}
}

func (q *toastQueue) push(n Notification) {
	q.items.Set(n.ID, n)
	for q.items.Len() > maxNotifications {
		q.items.Delete(q.items.Oldest().Key)
	}
}

func (q *toastQueue) active() []Notification {
	out := make([]Notification, 0, q.items.Len())
	for pair := q.items.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.IsExpired() {
			out = append(out, pair.Value)
		}
	}
	return out
}

func (q *toastQueue) prune() {
	var expired []string
	for pair := q.items.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.IsExpired() {
			expired = append(expired, pair.Key)
		}
	}
	for _, id := range expired {
		q.items.Delete(id)
	}
}

// AddNotification queues a toast and returns its ID. Only the newest
// maxNotifications toasts are kept.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toasts.seq++
	id := "n" + strconv.Itoa(s.toasts.seq)
	s.toasts.push(Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})
	return id
}

// RemoveNotification drops a toast. Unknown IDs are ignored.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts.items.Delete(id)
}

// ClearExpiredNotifications drops every expired toast.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts.prune()
}

// GetNotifications returns the unexpired toasts, oldest first.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toasts.active()
}

// ClearAllNotifications drops every toast.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts.items = orderedmap.New[string, Notification]()
}

// SetLoadingNotification shows message in the loading toast, creating it
// if needed. There is at most one loading toast.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pair := s.toasts.items.GetPair(LoadingNotificationID); pair != nil {
		pair.Value.Message = message
		return
	}
	s.toasts.push(Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading toast.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
