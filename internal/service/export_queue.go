package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/models"
	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
	"github.com/noah-isme/employee-admin-client/pkg/jobs"
)

// ExportRequest is a queued export of one list page.
type ExportRequest struct {
	Format string
	Items  []models.Employee
	State  models.ListQueryState
}

type pageExporter interface {
	Export(ctx context.Context, format string, items []models.Employee, state models.ListQueryState) (string, error)
}

// ExportQueue renders exports on a background worker and reports the outcome
// as a notification, so the browser stays responsive while files are written.
type ExportQueue struct {
	queue    *jobs.Queue[ExportRequest]
	exporter pageExporter
	notifier mutationNotifier
	logger   *zap.Logger
}

// NewExportQueue constructs an ExportQueue with a single worker and one retry.
func NewExportQueue(exporter pageExporter, notifier mutationNotifier, logger *zap.Logger) *ExportQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &ExportQueue{exporter: exporter, notifier: notifier, logger: logger}
	q.queue = jobs.New("exports", q.handle, jobs.Config{Workers: 1, MaxRetries: 1, RetryDelay: 500 * time.Millisecond, Logger: logger})
	q.queue.OnGiveUp(q.giveUp)
	return q
}

// Start launches the worker.
func (q *ExportQueue) Start(ctx context.Context) {
	q.queue.Start(ctx)
}

// Stop waits for the worker to exit. Queued exports that have not started are dropped.
func (q *ExportQueue) Stop() {
	q.queue.Stop()
}

// Submit queues an export of items and returns the job ID.
func (q *ExportQueue) Submit(format string, items []models.Employee, state models.ListQueryState) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case ExportCSV, ExportPDF, ExportXLSX:
	default:
		return "", appErrors.Validation("invalid export", map[string]string{"format": "format must be csv, pdf or xlsx"})
	}
	snapshot := make([]models.Employee, len(items))
	copy(snapshot, items)

	id := uuid.NewString()
	job := jobs.Job[ExportRequest]{ID: id, Payload: ExportRequest{Format: format, Items: snapshot, State: state}}
	if err := q.queue.Enqueue(job); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidState.Code, appErrors.ErrInvalidState.Status, "export queue is not running")
	}
	return id, nil
}

func (q *ExportQueue) handle(ctx context.Context, job jobs.Job[ExportRequest]) error {
	req := job.Payload
	path, err := q.exporter.Export(ctx, req.Format, req.Items, req.State)
	if err != nil {
		return err
	}
	q.logger.Info("export finished", zap.String("job_id", job.ID), zap.String("path", path))
	if q.notifier != nil {
		q.notifier.Success("Exported to " + path)
	}
	return nil
}

func (q *ExportQueue) giveUp(job jobs.Job[ExportRequest], err error) {
	if q.notifier != nil {
		q.notifier.Error("Export failed: " + appErrors.UserMessage(err))
	}
}
