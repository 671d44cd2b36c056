package http

import (
	"fmt"

	"intelfeed/internal/reports/domain/model"
	"intelfeed/internal/reports/usecase"
	apperrors "intelfeed/internal/shared/errors"
	"intelfeed/internal/shared/logger"
	"intelfeed/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// ReportHTTPHandler exposes the threat report endpoints.
type ReportHTTPHandler struct {
	reportUC usecase.ReportUsecaseInterface
	log      logger.Logger
}

// NewReportHTTPHandler creates a new report HTTP handler.
func NewReportHTTPHandler(reportUC usecase.ReportUsecaseInterface, log logger.Logger) *ReportHTTPHandler {
	return &ReportHTTPHandler{
		reportUC: reportUC,
		log:      log.WithComponent("report_http"),
	}
}

// RegisterRoutes mounts the report routes.
func (h *ReportHTTPHandler) RegisterRoutes(router fiber.Router) {
	bg := router.Group("/blackglass")
	bg.Post("/generate-report", h.generateReport)
	bg.Get("/reports", h.listReports)
	bg.Get("/report/:reportId", h.getReportStatus)
	bg.Get("/download/:reportId", h.downloadReport)
}

func (h *ReportHTTPHandler) listReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	reports, err := h.reportUC.ListReports(c.UserContext(), limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list reports")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list reports"})
	}

	items := make([]fiber.Map, 0, len(reports))
	for _, report := range reports {
		items = append(items, fiber.Map{
			"id":                    report.ID,
			"status":                report.Status,
			"completion_percentage": report.CompletionPercentage,
			"created_at":            report.CreatedAt,
			"keywords":              report.Params.Keywords,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"count":   len(items),
		"reports": items,
	})
}

func (h *ReportHTTPHandler) generateReport(c *fiber.Ctx) error {
	var body struct {
		Keywords   []string `json:"keywords"`
		Location   string   `json:"location"`
		AssetClass string   `json:"asset_class"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	params := model.ReportParams{
		Keywords:   body.Keywords,
		Location:   body.Location,
		AssetClass: body.AssetClass,
	}
	requestedBy := utils.GetUserIDOrDefault(c.UserContext(), "")

	report, err := h.reportUC.StartReport(c.UserContext(), params, requestedBy)
	if err != nil {
		switch err {
		case apperrors.ErrNoKeywords:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "at least one keyword is required"})
		case apperrors.ErrInvalidAssetClass:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			h.log.WithError(err).Error("failed to start report")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start report"})
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":                    "success",
		"message":                   "Report generation started",
		"report_id":                 report.ID,
		"estimated_completion_time": report.EstimatedCompletion,
	})
}

func (h *ReportHTTPHandler) getReportStatus(c *fiber.Ctx) error {
	reportID := c.Params("reportId")

	report, err := h.reportUC.GetReport(c.UserContext(), reportID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Report with ID %s not found", reportID),
			})
		}
		h.log.WithError(err).Error("failed to load report")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load report"})
	}

	payload := fiber.Map{
		"id":                    report.ID,
		"status":                report.Status,
		"completion_percentage": report.CompletionPercentage,
		"created_at":            report.CreatedAt,
		"updated_at":            report.UpdatedAt,
	}
	if len(report.SourcesProcessed) > 0 {
		payload["sources_processed"] = report.SourcesProcessed
	}
	if report.Status == model.StatusProcessing && report.EstimatedCompletion != nil {
		payload["estimated_completion_time"] = report.EstimatedCompletion
	}
	if report.Status == model.StatusCompleted {
		payload["download_url"] = "/api/blackglass/download/" + report.ID
	}

	return c.JSON(fiber.Map{"status": "success", "report": payload})
}

func (h *ReportHTTPHandler) downloadReport(c *fiber.Ctx) error {
	reportID := c.Params("reportId")

	data, err := h.reportUC.DownloadReport(c.UserContext(), reportID)
	if err != nil {
		if apperrors.IsNotFound(err) || err == apperrors.ErrReportNotReady {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Report file for ID %s not found", reportID),
			})
		}
		h.log.WithError(err).Error("failed to read report file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read report"})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=blackglass_report_%s.json", reportID))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
