package usecase

import (
	"context"
	"time"

	newsusecase "intelfeed/internal/news/usecase"
	"intelfeed/internal/reports/config"
	"intelfeed/internal/reports/domain/model"
	"intelfeed/internal/reports/domain/repository"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"

	"github.com/google/uuid"
)

// Progress checkpoints and stage labels for the generation pipeline.
var generationStages = []struct {
	pct   int
	label string
}{
	{20, "Searching RSS feeds"},
	{40, "RSS feeds processed"},
	{60, "Analyzing collected data"},
	{80, "Data analysis completed"},
	{90, "Generating report document"},
}

// ReportUsecaseInterface defines the report operations.
type ReportUsecaseInterface interface {
	StartReport(ctx context.Context, params model.ReportParams, requestedBy string) (*model.Report, error)
	GetReport(ctx context.Context, reportID string) (*model.Report, error)
	ListReports(ctx context.Context, limit int) ([]*model.Report, error)
	DownloadReport(ctx context.Context, reportID string) ([]byte, error)
	ProgressSince(ctx context.Context, reportID, resumeToken string) ([]model.ProgressEvent, error)
}

// ReportUsecase runs asynchronous report generation with staged progress.
// Progress events reach WebSocket clients through the event bus; see
// SubscribeRealtimeBridge.
type ReportUsecase struct {
	repo   repository.ReportRepository
	events repository.ProgressEventStore
	files  repository.ReportFileStore
	news   newsusecase.NewsUsecaseInterface
	bus    eventbus.EventBusInterface
	cfg    *config.Config
	log    logger.Logger
	now    func() time.Time
}

// NewReportUsecase creates the report usecase.
func NewReportUsecase(
	repo repository.ReportRepository,
	events repository.ProgressEventStore,
	files repository.ReportFileStore,
	news newsusecase.NewsUsecaseInterface,
	bus eventbus.EventBusInterface,
	cfg *config.Config,
	log logger.Logger,
) *ReportUsecase {
	return &ReportUsecase{
		repo:   repo,
		events: events,
		files:  files,
		news:   news,
		bus:    bus,
		cfg:    cfg,
		log:    log.WithComponent("report_usecase"),
		now:    time.Now,
	}
}

// StartReport validates the parameters, persists a queued report, and
// launches generation in the background.
func (uc *ReportUsecase) StartReport(ctx context.Context, params model.ReportParams, requestedBy string) (*model.Report, error) {
	if len(params.Keywords) == 0 {
		return nil, apperrors.ErrNoKeywords
	}
	if params.AssetClass == "" {
		params.AssetClass = newsusecase.AssetClassAny
	}
	if !newsusecase.ValidAssetClass(params.AssetClass) {
		return nil, apperrors.ErrInvalidAssetClass
	}

	now := uc.now()
	report := &model.Report{
		ID:               uuid.NewString(),
		Status:           model.StatusQueued,
		CreatedAt:        now,
		UpdatedAt:        now,
		Params:           params,
		SourcesProcessed: []string{},
		RequestedBy:      requestedBy,
	}

	if err := uc.repo.Create(ctx, report); err != nil {
		return nil, apperrors.NewInternalError("failed to create report").WithCause(err)
	}

	uc.emit(context.Background(), report, "")

	// Generation outlives the request context.
	go uc.generate(context.Background(), report.ID, params)

	uc.log.WithFields(map[string]interface{}{
		"report_id": report.ID,
		"keywords":  params.Keywords,
	}).Info("report generation queued")
	return report, nil
}

// generate runs the staged pipeline for a single report.
func (uc *ReportUsecase) generate(ctx context.Context, reportID string, params model.ReportParams) {
	fail := func(err error) {
		uc.log.WithFields(map[string]interface{}{"report_id": reportID}).
			WithError(err).Error("report generation failed")
		uc.transition(ctx, reportID, model.StatusFailed, 0, "Error generating report: "+err.Error(), "")
	}

	if err := uc.transition(ctx, reportID, model.StatusProcessing, 10, "", ""); err != nil {
		fail(err)
		return
	}

	uc.stage(ctx, reportID, 0)

	articles, _, err := uc.news.Search(ctx, newsusecase.SearchRequest{
		Keywords:      params.Keywords,
		Location:      params.Location,
		AssetClass:    params.AssetClass,
		Limit:         uc.cfg.SearchLimit,
		IncludeAlerts: true,
	})
	if err != nil {
		fail(err)
		return
	}

	uc.stage(ctx, reportID, 1)
	uc.stage(ctx, reportID, 2)

	data := AnalyzeIntelligence(articles, params, uc.now())

	uc.stage(ctx, reportID, 3)
	uc.stage(ctx, reportID, 4)

	path, err := uc.files.Save(reportID, data)
	if err != nil {
		fail(err)
		return
	}

	if err := uc.transition(ctx, reportID, model.StatusCompleted, 100, "Report generation completed", path); err != nil {
		fail(err)
		return
	}

	uc.log.WithFields(map[string]interface{}{
		"report_id": reportID,
		"articles":  len(articles),
		"path":      path,
	}).Info("report generation completed")
}

func (uc *ReportUsecase) stage(ctx context.Context, reportID string, idx int) {
	s := generationStages[idx]
	_ = uc.transition(ctx, reportID, model.StatusProcessing, s.pct, s.label, "")
}

// transition updates the stored report, recomputes the estimated
// completion time, and fans the progress event out.
func (uc *ReportUsecase) transition(ctx context.Context, reportID string, status model.ReportStatus, pct int, stage, outputPath string) error {
	report, err := uc.repo.Get(ctx, reportID)
	if err != nil {
		return err
	}

	now := uc.now()
	report.Status = status
	report.UpdatedAt = now
	report.CompletionPercentage = pct
	if stage != "" {
		report.SourcesProcessed = append(report.SourcesProcessed, stage)
	}
	if outputPath != "" {
		report.OutputPath = outputPath
	}

	if status == model.StatusProcessing {
		report.EstimatedCompletion = estimateCompletion(report.CreatedAt, now, pct)
	} else {
		report.EstimatedCompletion = nil
	}

	if err := uc.repo.Update(ctx, report); err != nil {
		return err
	}

	uc.emit(ctx, report, stage)
	return nil
}

// estimateCompletion extrapolates from the time spent so far and the
// fraction of work remaining.
func estimateCompletion(createdAt, now time.Time, pct int) *time.Time {
	if pct < 1 {
		pct = 1
	}
	elapsed := now.Sub(createdAt)
	remaining := time.Duration(float64(elapsed) * float64(100-pct) / float64(pct))
	eta := now.Add(remaining)
	return &eta
}

func (uc *ReportUsecase) emit(ctx context.Context, report *model.Report, stage string) {
	event := model.ProgressEvent{
		ReportID:             report.ID,
		Status:               report.Status,
		CompletionPercentage: report.CompletionPercentage,
		Stage:                stage,
		Timestamp:            report.UpdatedAt,
	}

	if uc.events != nil {
		if err := uc.events.Append(ctx, event); err != nil {
			uc.log.WithError(err).Warn("failed to persist progress event")
		}
	}
	if uc.bus != nil {
		uc.bus.PublishAndForget(ctx, eventbus.NewBasicEvent(eventbus.EventTypeReportProgress, event))
	}
}

// GetReport returns the report record.
func (uc *ReportUsecase) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	return uc.repo.Get(ctx, reportID)
}

// ListReports returns the newest reports.
func (uc *ReportUsecase) ListReports(ctx context.Context, limit int) ([]*model.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.repo.List(ctx, limit)
}

// DownloadReport returns the completed report document.
func (uc *ReportUsecase) DownloadReport(ctx context.Context, reportID string) ([]byte, error) {
	report, err := uc.repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != model.StatusCompleted {
		return nil, apperrors.ErrReportNotReady
	}
	if !uc.files.Exists(report.OutputPath) {
		return nil, apperrors.ErrReportNotFound
	}
	return uc.files.Read(report.OutputPath)
}

// ProgressSince replays persisted progress events after a resume token.
func (uc *ReportUsecase) ProgressSince(ctx context.Context, reportID, resumeToken string) ([]model.ProgressEvent, error) {
	if uc.events == nil {
		return []model.ProgressEvent{}, nil
	}
	return uc.events.EventsSince(ctx, reportID, resumeToken)
}
