// Package reports generates asynchronous threat intelligence reports with
// staged progress, persisted progress streams, and live WebSocket delivery.
package reports

import (
	"fmt"

	newsusecase "intelfeed/internal/news/usecase"
	reporthttp "intelfeed/internal/reports/adapter/http"
	"intelfeed/internal/reports/adapter/persistence"
	"intelfeed/internal/reports/adapter/persistence/mongodb"
	"intelfeed/internal/reports/adapter/storage"
	"intelfeed/internal/reports/config"
	"intelfeed/internal/reports/usecase"
	"intelfeed/internal/shared/eventbus"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module bundles the reports components for the DI container.
type Module struct {
	Config  *config.Config
	Usecase usecase.ReportUsecaseInterface

	reportHandler *reporthttp.ReportHTTPHandler
	wsHandler     *reporthttp.WebSocketHandler
}

// NewModule builds the reports module.
func NewModule(db *mongo.Database, redisClient *redis.Client, news newsusecase.NewsUsecaseInterface, bus eventbus.EventBusInterface, log logger.Logger) (*Module, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("reports config: %w", err)
	}

	files, err := storage.NewFileReportStore(cfg.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("reports dir: %w", err)
	}

	repo := mongodb.NewMongoReportRepository(db)
	events := persistence.NewRedisProgressEventStore(redisClient, cfg.StreamMaxLength, log)
	realtime := usecase.NewRealtimeUsecase(log)
	usecase.SubscribeRealtimeBridge(bus, realtime, log)
	uc := usecase.NewReportUsecase(repo, events, files, news, bus, cfg, log)

	return &Module{
		Config:        cfg,
		Usecase:       uc,
		reportHandler: reporthttp.NewReportHTTPHandler(uc, log),
		wsHandler:     reporthttp.NewWebSocketHandler(realtime, uc, log),
	}, nil
}

// RegisterRoutes mounts the report API routes under the API group.
func (m *Module) RegisterRoutes(router fiber.Router) {
	m.reportHandler.RegisterRoutes(router)
}

// RegisterWebSocket mounts the progress stream endpoint on the app root.
func (m *Module) RegisterWebSocket(router fiber.Router) {
	m.wsHandler.RegisterRoutes(router)
}
