package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printshop/backend/internal/application/attachment"
	catalogapp "github.com/printshop/backend/internal/application/catalog"
	"github.com/printshop/backend/internal/application/document"
	financeapp "github.com/printshop/backend/internal/application/finance"
	inventoryapp "github.com/printshop/backend/internal/application/inventory"
	partnerapp "github.com/printshop/backend/internal/application/partner"
	productionapp "github.com/printshop/backend/internal/application/production"
	quoteapp "github.com/printshop/backend/internal/application/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/auth"
	"github.com/printshop/backend/internal/infrastructure/cache"
	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/printshop/backend/internal/infrastructure/event"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/printshop/backend/internal/infrastructure/persistence"
	"github.com/printshop/backend/internal/infrastructure/printing"
	"github.com/printshop/backend/internal/infrastructure/scheduler"
	"github.com/printshop/backend/internal/infrastructure/storage"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"github.com/printshop/backend/internal/interfaces/http/handler"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
	"github.com/printshop/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/printshop/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Printshop Backend API
//	@version		1.0
//	@description	Quotes, production orders, stock and receivables for print shops

//	@contact.name	API Support

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// OTLP log export is teed into the application logger
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: logProvider,
		Level:          zapcore.InfoLevel,
	}))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Printshop Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerCfg := telemetry.ConfigFromTelemetry(cfg.Telemetry)
	tracerCfg.ServiceVersion = version
	tracerProvider, err := telemetry.NewTracerProvider(ctx, tracerCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFromTelemetry(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(telemetry.TracerName)
	defer shutdownTelemetry(log, logProvider, tracerProvider, meterProvider)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFromTelemetry(cfg.Telemetry), log).RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
	dbMetricsCfg.Enabled = cfg.Telemetry.Enabled
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meter, dbMetricsCfg, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}
	log.Info("Database connected successfully")

	coordination, err := cache.NewCoordination(ctx, cfg.Redis, cfg.Event,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to initialize event coordination", zap.Error(err))
	}
	defer func() {
		if err := coordination.Close(); err != nil {
			log.Error("Error closing coordination store", zap.Error(err))
		}
	}()

	objectStorage := newObjectStorage(ctx, cfg, log)

	pdfGenerator, closeRenderer := newPDFGenerator(cfg, log)
	defer closeRenderer()

	// Repositories and the transaction scope
	repos := persistence.NewGormRepositories(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)
	tenantProvider := persistence.NewGormTenantProvider(db.DB)
	paymentTermRepo := persistence.NewGormPaymentTermRepository(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	customerService := partnerapp.NewCustomerService(repos.Customers())
	productService := catalogapp.NewProductService(repos.Products(), objectStorage, log)
	stockService := inventoryapp.NewStockService(scope, repos, eventBus, log)
	quoteService := quoteapp.NewQuoteService(quoteapp.QuoteServiceDeps{
		Scope:     scope,
		Repos:     repos,
		Locker:    coordination.Locker,
		Publisher: eventBus,
		Storage:   objectStorage,
		Logger:    log,
	})
	quoteStatusService := quoteapp.NewStatusService(repos.QuoteStatuses())
	productionStatusService := productionapp.NewStatusService(repos.ProductionStatuses())
	orderService := productionapp.NewOrderService(scope, repos.Orders(), eventBus, log)
	receivableService := financeapp.NewReceivableService(repos.Receivables())
	payableService := financeapp.NewPayableService(repos.Payables(), log)
	paymentService := financeapp.NewPaymentService(scope, eventBus, log)
	paymentTermService := financeapp.NewPaymentTermService(paymentTermRepo)
	overdueService := financeapp.NewOverdueService(repos.Receivables(), repos.Payables(), tenantProvider, log)
	documentService := document.NewDocumentService(repos.Quotes(), repos.Orders(), pdfGenerator, log)

	workflowMetrics := subscribeHandlers(eventBus, coordination, cfg.Event, scope, meter, log)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Daily overdue sweep
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewOverdueExecutor(overdueService, log)
		if workflowMetrics != nil {
			executor = executor.WithRecorder(workflowMetrics)
		}
		overdueScheduler, err := scheduler.NewScheduler(scheduler.OptionsFromConfig(cfg.Scheduler), executor, log)
		if err != nil {
			log.Fatal("Failed to create overdue scheduler", zap.Error(err))
		}
		if err := overdueScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start overdue scheduler", zap.Error(err))
		}
		defer func() {
			if err := overdueScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping overdue scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfigFromConfig(cfg), overdueScheduler, tenantProvider, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start overdue trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping overdue trigger", zap.Error(err))
			}
		}()
		log.Info("Overdue scheduler started",
			zap.Int("hour", cfg.Scheduler.OverdueHour),
			zap.Int("minute", cfg.Scheduler.OverdueMinute),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// HTTP handlers
	handlers := router.Handlers{
		System: handler.NewSystemHandler(version,
			handler.NewHealthCheck("database", db.Ping),
			handler.NewHealthCheck("coordination", coordination.Ping),
		),
		Customers:  handler.NewCustomerHandler(customerService),
		Products:   handler.NewProductHandler(productService, stockService),
		Inventory:  handler.NewInventoryHandler(stockService),
		Quotes:     handler.NewQuoteHandler(quoteService),
		Statuses:   handler.NewStatusHandler(quoteStatusService, productionStatusService),
		Production: handler.NewProductionHandler(orderService),
		Finance: handler.NewFinanceHandler(handler.FinanceServices{
			Receivables:  receivableService,
			Payables:     payableService,
			Payments:     paymentService,
			PaymentTerms: paymentTermService,
		}),
		Documents: handler.NewDocumentHandler(documentService),
	}

	engine := newEngine(cfg, meter, log)
	router.RegisterHealth(engine, handlers.System)

	if cfg.Swagger.Enabled && !cfg.IsProduction() {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Info("Swagger UI enabled", zap.String("path", "/swagger/index.html"))
	}

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Verifier:            auth.NewVerifier(cfg.JWT),
		AllowHeaderIdentity: cfg.JWT.AllowHeaderIdentity,
		Logger:              log,
	})
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.APIGroups(handlers, authMiddleware, middleware.TracingAttributeInjector())...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newEngine builds the gin engine with the global middleware chain. Auth is
// applied per route group by the router.
func newEngine(cfg *config.Config, meter metric.Meter, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meter, log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	return engine
}

// subscribeHandlers registers the quote to cash workflow handlers in the order
// the events cascade, each behind the shared idempotency store, then the
// metrics recorder for every event type. It returns nil metrics when the meter
// cannot create instruments.
func subscribeHandlers(
	bus *event.InMemoryEventBus,
	coordination *cache.Coordination,
	eventCfg config.EventConfig,
	scope *persistence.GormTransactionScope,
	meter metric.Meter,
	log *zap.Logger,
) *telemetry.WorkflowMetrics {
	idempotency := shared.DefaultIdempotencyConfig()
	if eventCfg.IdempotencyTTL > 0 {
		idempotency.TTL = eventCfg.IdempotencyTTL
	}

	workflow := []shared.EventHandler{
		productionapp.NewQuoteApprovedHandler(scope, bus, log),
		productionapp.NewMaterialDeductionHandler(scope, bus, log),
		financeapp.NewReceivableGenerationHandler(scope, bus, log),
		inventoryapp.NewStockProjectionHandler(scope, coordination.Locker, log),
	}
	for _, h := range workflow {
		bus.Subscribe(event.NewIdempotentHandler(h, coordination.Store, log,
			event.WithIdempotencyConfig(idempotency),
		))
	}

	metrics, err := telemetry.NewWorkflowMetrics(meter)
	if err != nil {
		log.Warn("Workflow metrics disabled", zap.Error(err))
		return nil
	}
	bus.Subscribe(metrics)

	log.Info("Event handlers registered", zap.Int("handlers", len(workflow)+1))
	return metrics
}

// newObjectStorage returns S3 storage, or process memory when no bucket is
// configured outside production.
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) attachment.ObjectStorage {
	if cfg.Storage.Bucket == "" {
		if cfg.IsProduction() {
			log.Fatal("Object storage bucket is required in production")
		}
		log.Warn("No storage bucket configured, attachments are kept in memory")
		return storage.NewMemoryObjectStorage()
	}

	s3Storage, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if !cfg.IsProduction() {
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.String("bucket", s3Storage.Bucket()), zap.Error(err))
		}
	}
	log.Info("Object storage ready", zap.String("bucket", s3Storage.Bucket()))
	return s3Storage
}

// newPDFGenerator starts the headless browser. With printing disabled the
// document endpoints answer 424.
func newPDFGenerator(cfg *config.Config, log *zap.Logger) (document.PDFGenerator, func()) {
	if !cfg.Printing.Enabled {
		log.Info("PDF printing disabled")
		return nil, func() {}
	}

	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.RemoteURL,
		NoSandbox:      cfg.Printing.NoSandbox,
		MaxConcurrent:  cfg.Printing.MaxConcurrent,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to start PDF renderer", zap.Error(err))
	}
	closeRenderer := func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}

	loc, err := time.LoadLocation(cfg.Printing.Timezone)
	if err != nil {
		log.Warn("Unknown printing timezone, using UTC", zap.String("timezone", cfg.Printing.Timezone))
		loc = time.UTC
	}
	generator, err := printing.NewGenerator(printing.NewTemplateEngine(printing.WithLocation(loc)), renderer, log)
	if err != nil {
		closeRenderer()
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	return generator, closeRenderer
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTelemetry flushes the exporters; logs go last so shutdown errors of
// the others are still exported.
func shutdownTelemetry(log *zap.Logger, logs shutdowner, providers ...shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}
	if err := logs.Shutdown(ctx); err != nil {
		log.Error("Log exporter shutdown failed", zap.Error(err))
	}
}
