package model

import (
	"time"

	newsmodel "intelfeed/internal/news/domain/model"
)

// ReportStatus is the lifecycle state of a report.
type ReportStatus string

// Report lifecycle: queued -> processing -> completed | failed.
const (
	StatusQueued     ReportStatus = "queued"
	StatusProcessing ReportStatus = "processing"
	StatusCompleted  ReportStatus = "completed"
	StatusFailed     ReportStatus = "failed"
)

// Threat levels assigned by the analysis.
const (
	ThreatLow      = "LOW"
	ThreatMedium   = "MEDIUM"
	ThreatHigh     = "HIGH"
	ThreatCritical = "CRITICAL"
)

// ReportParams are the caller-supplied generation parameters.
type ReportParams struct {
	Keywords   []string `json:"keywords" bson:"keywords"`
	Location   string   `json:"location,omitempty" bson:"location,omitempty"`
	AssetClass string   `json:"asset_class" bson:"asset_class"`
}

// Report is the persisted generation record.
type Report struct {
	ID                   string       `json:"id" bson:"_id"`
	Status               ReportStatus `json:"status" bson:"status"`
	CreatedAt            time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" bson:"updated_at"`
	Params               ReportParams `json:"params" bson:"params"`
	SourcesProcessed     []string     `json:"sources_processed" bson:"sources_processed"`
	CompletionPercentage int          `json:"completion_percentage" bson:"completion_percentage"`
	EstimatedCompletion  *time.Time   `json:"estimated_completion_time,omitempty" bson:"estimated_completion_time,omitempty"`
	OutputPath           string       `json:"output_path,omitempty" bson:"output_path,omitempty"`
	RequestedBy          string       `json:"requested_by,omitempty" bson:"requested_by,omitempty"`
}

// IsTerminal reports whether the status admits no further transitions.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ReportData is the generated report document.
type ReportData struct {
	Summary          ReportSummary    `json:"summary"`
	ThreatAssessment ThreatAssessment `json:"threat_assessment"`
	Sources          ReportSources    `json:"sources"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// ReportSummary aggregates the collection counts and extracted entities.
type ReportSummary struct {
	Keywords                []string `json:"keywords"`
	LocationFocus           string   `json:"location_focus,omitempty"`
	AssetClass              string   `json:"asset_class"`
	TotalSources            int      `json:"total_sources"`
	HighCredibilitySources  int      `json:"high_credibility_sources"`
	MediumCredibilitySource int      `json:"medium_credibility_sources"`
	IntelligenceCategories  []string `json:"intelligence_categories"`
	IdentifiedLocations     []string `json:"identified_locations"`
	IdentifiedOrganizations []string `json:"identified_organizations"`
}

// ThreatAssessment carries the overall level and per-category breakdown.
type ThreatAssessment struct {
	OverallThreatLevel string                      `json:"overall_threat_level"`
	Categories         map[string]CategoryAnalysis `json:"categories"`
}

// CategoryAnalysis is the per-category article breakdown.
type CategoryAnalysis struct {
	Count       int                  `json:"count"`
	TopArticles []*newsmodel.Article `json:"top_articles"`
}

// ReportSources groups collected articles by source credibility.
type ReportSources struct {
	HighCredibility     []*newsmodel.Article `json:"high_credibility"`
	MediumCredibility   []*newsmodel.Article `json:"medium_credibility"`
	StandardCredibility []*newsmodel.Article `json:"standard_credibility"`
}

// ProgressEvent is a single report progress transition, streamed to
// WebSocket subscribers and appended to the report's Redis Stream.
type ProgressEvent struct {
	ReportID             string       `json:"report_id"`
	Status               ReportStatus `json:"status"`
	CompletionPercentage int          `json:"completion_percentage"`
	Stage                string       `json:"stage,omitempty"`
	Timestamp            time.Time    `json:"timestamp"`
	ResumeToken          string       `json:"resume_token,omitempty"`
}
