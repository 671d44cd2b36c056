package repository

import (
	"context"

	"intelfeed/internal/reports/domain/model"
)

// ReportRepository persists report generation records.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Get(ctx context.Context, reportID string) (*model.Report, error)
	Update(ctx context.Context, report *model.Report) error
	List(ctx context.Context, limit int) ([]*model.Report, error)
}

// ProgressEventStore persists progress events so WebSocket clients can
// resume a stream from the last token they saw.
type ProgressEventStore interface {
	Append(ctx context.Context, event model.ProgressEvent) error
	EventsSince(ctx context.Context, reportID, resumeToken string) ([]model.ProgressEvent, error)
	Trim(ctx context.Context, reportID string) error
}

// ReportFileStore writes and reads the generated report documents.
type ReportFileStore interface {
	Save(reportID string, data *model.ReportData) (string, error)
	Read(path string) ([]byte, error)
	Exists(path string) bool
}
