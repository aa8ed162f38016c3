package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/employee-admin-client/internal/models"
	"github.com/noah-isme/employee-admin-client/pkg/export"
)

// Export formats.
const (
	ExportCSV  = "csv"
	ExportPDF  = "pdf"
	ExportXLSX = "xlsx"
)

var employeeHeaders = []string{"ID", "Name", "Age", "Class", "Subjects", "Attendance"}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ExportService renders a page of employees and stores the file.
type ExportService struct {
	storage   fileStorage
	renderers map[string]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV, PDF and XLSX renderers.
func NewExportService(storage fileStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		storage: storage,
		renderers: map[string]export.Renderer{
			ExportCSV:  export.NewCSVExporter(),
			ExportPDF:  export.NewPDFExporter(),
			ExportXLSX: export.NewXLSXExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export writes items in format and returns the stored file path.
func (s *ExportService) Export(ctx context.Context, format string, items []models.Employee, state models.ListQueryState) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	renderer, ok := s.renderers[format]
	if !ok {
		return "", fmt.Errorf("unsupported export format %q", format)
	}

	payload, err := renderer.Render(buildEmployeeDataset(items, state))
	if err != nil {
		return "", fmt.Errorf("render %s export: %w", format, err)
	}

	filename := fmt.Sprintf("employees-p%d-%s.%s", state.Page+1, s.now().UTC().Format("20060102T150405"), renderer.Extension())
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	s.logger.Info("employees exported", zap.String("format", format), zap.String("path", path), zap.Int("rows", len(items)))
	return path, nil
}

func buildEmployeeDataset(items []models.Employee, state models.ListQueryState) export.Dataset {
	title := fmt.Sprintf("Employees page %d sorted by %s %s", state.Page+1, state.SortBy, state.SortOrder)
	if state.AppliedSearch != "" {
		title += fmt.Sprintf(" matching %q", state.AppliedSearch)
	}
	rows := make([]map[string]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, map[string]string{
			"ID":         e.ID,
			"Name":       e.Name,
			"Age":        strconv.Itoa(e.Age),
			"Class":      e.Class,
			"Subjects":   strings.Join(e.Subjects, ", "),
			"Attendance": strconv.FormatFloat(e.Attendance, 'f', -1, 64),
		})
	}
	return export.Dataset{Title: title, Headers: employeeHeaders, Rows: rows}
}
