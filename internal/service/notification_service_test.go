package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/pkg/debounce"
)

func TestNotificationAutoDismiss(t *testing.T) {
	sched := debounce.NewManualScheduler()
	svc := NewNotificationService(4*time.Second, sched, nil, nil)
	defer svc.Close()

	n := svc.Success("Employee added!")
	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, n.ID, current.ID)

	sched.Advance(3999 * time.Millisecond)
	_, ok = svc.Current()
	assert.True(t, ok)

	sched.Advance(time.Millisecond)
	_, ok = svc.Current()
	assert.False(t, ok)
}

func TestNotificationReplacementRestartsTimer(t *testing.T) {
	sched := debounce.NewManualScheduler()
	svc := NewNotificationService(4*time.Second, sched, nil, nil)
	defer svc.Close()

	svc.Success("first")
	sched.Advance(3 * time.Second)
	second := svc.Error("second")
	sched.Advance(3 * time.Second)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, models.SeverityError, current.Severity)

	sched.Advance(time.Second)
	_, ok = svc.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, sched.Pending())
}

func TestNotificationDismiss(t *testing.T) {
	sched := debounce.NewManualScheduler()
	svc := NewNotificationService(0, sched, nil, nil)
	defer svc.Close()

	var events []*models.Notification
	unsubscribe := svc.Subscribe(func(n *models.Notification) { events = append(events, n) })
	defer unsubscribe()

	n := svc.Success("saved")
	assert.False(t, svc.Dismiss("someone-else"))
	assert.True(t, svc.Dismiss(n.ID))
	assert.Equal(t, 0, sched.Pending())

	require.Len(t, events, 2)
	assert.Equal(t, "saved", events[0].Message)
	assert.Nil(t, events[1])
}

func TestNotificationCountsBySeverity(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewNotificationService(time.Second, debounce.NewManualScheduler(), metrics, nil)
	defer svc.Close()

	svc.Success("a")
	svc.Error("b")
	svc.Error("c")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.notifications.WithLabelValues("error")))
}
