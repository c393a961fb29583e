package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"gorm.io/gorm"

	companyapp "github.com/leadflow/crm-import/internal/application/company"
	importapp "github.com/leadflow/crm-import/internal/application/companyimport"
	"github.com/leadflow/crm-import/internal/config"
	domain "github.com/leadflow/crm-import/internal/domain/company"
	"github.com/leadflow/crm-import/internal/infrastructure/metrics"
	"github.com/leadflow/crm-import/internal/infrastructure/repository"
	"github.com/leadflow/crm-import/internal/infrastructure/session"
	"github.com/leadflow/crm-import/internal/infrastructure/spreadsheet"
	httpecho "github.com/leadflow/crm-import/internal/interfaces/http/echo"
)

// Deps are the long-lived handles the HTTP server is built from. Redis is
// only read when the preview store is redis.
type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

func NewHTTPServer(deps Deps) (*echo.Echo, error) {
	cfg := deps.Config

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(httpecho.RequestLogger(deps.Logger))
	server.Use(httpecho.RequestMetrics(deps.Metrics))
	// multipart framing needs headroom over the file itself
	server.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.MaxUploadSizeMB+1)))
	if cfg.RequestTimeout > 0 {
		server.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}

	rate, err := limiter.NewRateFromFormatted(cfg.UploadRateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_RATE_LIMIT %q: %w", cfg.UploadRateLimit, err)
	}
	uploadLimit := httpecho.RateLimit(limiter.New(memory.NewStore(), rate))

	companies := repository.NewCompanyRepository(deps.Pool)
	opportunities := repository.NewOpportunityRepository(deps.Pool)
	stages := repository.NewPipelineStageRepository(deps.DB)
	audit := repository.NewAuditLogRepository(deps.DB)
	roster := repository.NewRosterRepository(deps.DB)

	bulkImport := companyapp.NewBulkImportCompanies(companies, opportunities, stages, audit, deps.Logger)
	createCompany := companyapp.NewCreateCompany(companies, opportunities, stages, deps.Logger)
	listRoster := companyapp.NewListRoster(roster)

	store := previewStore(deps)
	preview := importapp.NewPreviewImport(spreadsheet.NewReader(), roster, store, cfg.MaxUploadBytes(), deps.Logger)
	sessions := importapp.NewPreviewSessions(store, func(userID string, role domain.Role) importapp.BulkInserter {
		return companyapp.CallerInserter{UseCase: bulkImport, UserID: userID, Role: role}
	}, deps.Logger)

	httpecho.RegisterRoutes(server, httpecho.Handlers{
		Imports:   httpecho.NewImportHandler(preview, sessions, deps.Metrics),
		Companies: httpecho.NewCompanyHandler(bulkImport, createCompany, deps.Metrics),
		Roster:    httpecho.NewRosterHandler(listRoster),
	}, uploadLimit)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))

	return server, nil
}

func previewStore(deps Deps) domain.PreviewStore {
	if deps.Config.PreviewStore == config.PreviewStoreRedis {
		return session.NewRedisStore(deps.Redis, deps.Config.PreviewTTL)
	}
	return session.NewMemoryStore(deps.Config.PreviewTTL)
}
