package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

type chanNotifier struct {
	ch chan models.Notification
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan models.Notification, 4)}
}

func (n *chanNotifier) Success(message string) models.Notification {
	note := models.Notification{Severity: models.SeveritySuccess, Message: message}
	n.ch <- note
	return note
}

func (n *chanNotifier) Error(message string) models.Notification {
	note := models.Notification{Severity: models.SeverityError, Message: message}
	n.ch <- note
	return note
}

func (n *chanNotifier) next(t *testing.T) models.Notification {
	t.Helper()
	select {
	case note := <-n.ch:
		return note
	case <-time.After(2 * time.Second):
		t.Fatal("no notification")
		return models.Notification{}
	}
}

type failingExporter struct {
	calls chan struct{}
}

func (f *failingExporter) Export(context.Context, string, []models.Employee, models.ListQueryState) (string, error) {
	f.calls <- struct{}{}
	return "", errors.New("disk full")
}

func TestExportQueueWritesInBackground(t *testing.T) {
	svc, _ := newExportFixture(t)
	notes := newChanNotifier()
	q := NewExportQueue(svc, notes, nil)
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Submit("csv", employees(2, "emp"), models.DefaultListQueryState(8))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	note := notes.next(t)
	assert.Equal(t, models.SeveritySuccess, note.Severity)
	require.True(t, strings.HasPrefix(note.Message, "Exported to "))
	_, err = os.Stat(strings.TrimPrefix(note.Message, "Exported to "))
	assert.NoError(t, err)
}

func TestExportQueueReportsFailureAfterRetry(t *testing.T) {
	exporter := &failingExporter{calls: make(chan struct{}, 4)}
	notes := newChanNotifier()
	q := NewExportQueue(exporter, notes, nil)
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Submit("pdf", employees(1, "emp"), models.DefaultListQueryState(8))
	require.NoError(t, err)

	note := notes.next(t)
	assert.Equal(t, models.SeverityError, note.Severity)
	assert.Equal(t, "Export failed: disk full", note.Message)
	assert.Len(t, exporter.calls, 2)
}

func TestExportQueueRejectsUnknownFormat(t *testing.T) {
	q := NewExportQueue(&failingExporter{calls: make(chan struct{}, 1)}, nil, nil)
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Submit("docx", nil, models.DefaultListQueryState(8))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestExportQueueSubmitBeforeStart(t *testing.T) {
	q := NewExportQueue(&failingExporter{calls: make(chan struct{}, 1)}, nil, nil)
	_, err := q.Submit("csv", nil, models.DefaultListQueryState(8))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidState))
}
