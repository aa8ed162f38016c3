package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/pkg/debounce"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 4 * time.Second

type notificationObserver interface {
	ObserveNotification(severity models.Severity)
}

// NotificationService shows one transient notification at a time. A new
// notification replaces the visible one and restarts the dismiss timer.
type NotificationService struct {
	logger   *zap.Logger
	observer notificationObserver
	dismiss  *debounce.Debouncer
	now      func() time.Time

	mu      sync.Mutex
	current *models.Notification

	subscribers listeners[*models.Notification]
}

// NewNotificationService constructs a NotificationService. A nil scheduler
// uses wall-clock timers.
func NewNotificationService(ttl time.Duration, scheduler debounce.Scheduler, observer notificationObserver, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationService{
		logger:   logger,
		observer: observer,
		dismiss:  debounce.NewDebouncer(ttl, scheduler),
		now:      time.Now,
	}
}

// Success shows a success notification.
func (s *NotificationService) Success(message string) models.Notification {
	return s.show(models.SeveritySuccess, message)
}

// Error shows an error notification.
func (s *NotificationService) Error(message string) models.Notification {
	return s.show(models.SeverityError, message)
}

func (s *NotificationService) show(severity models.Severity, message string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.current = &n
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveNotification(severity)
	}
	s.logger.Debug("notification shown", zap.String("severity", string(severity)), zap.String("message", message))

	id := n.ID
	s.dismiss.Debounce(func() { s.Dismiss(id) })

	shown := n
	s.subscribers.emit(&shown)
	return n
}

// Current returns the visible notification.
func (s *NotificationService) Current() (models.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Notification{}, false
	}
	return *s.current, true
}

// Dismiss hides the notification with id. Dismissing anything other than the
// visible notification is a no-op.
func (s *NotificationService) Dismiss(id string) bool {
	s.mu.Lock()
	if s.current == nil || s.current.ID != id {
		s.mu.Unlock()
		return false
	}
	s.current = nil
	s.mu.Unlock()

	s.dismiss.Cancel()
	s.subscribers.emit(nil)
	return true
}

// Subscribe registers fn for changes. fn receives nil when the notification
// is dismissed.
func (s *NotificationService) Subscribe(fn func(*models.Notification)) func() {
	return s.subscribers.add(fn)
}

// Close stops the dismiss timer.
func (s *NotificationService) Close() {
	s.dismiss.Cancel()
}
