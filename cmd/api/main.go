package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/rf-picking-service/internal/application"
	"github.com/wms-platform/rf-picking-service/internal/infrastructure/events"
	"github.com/wms-platform/rf-picking-service/internal/infrastructure/gateway"
	mongoRepo "github.com/wms-platform/rf-picking-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/api"
	"github.com/wms-platform/rf-picking-service/pkg/cloudevents"
	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/idempotency"
	"github.com/wms-platform/rf-picking-service/pkg/kafka"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
	"github.com/wms-platform/rf-picking-service/pkg/middleware"
	"github.com/wms-platform/rf-picking-service/pkg/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/outbox"
	"github.com/wms-platform/rf-picking-service/pkg/tracing"
)

const serviceName = "rf-picking-service"

func main() {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting rf-picking-service API")

	// Load configuration
	config := loadConfig()
	ctx := context.Background()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing - don't exit
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB with instrumentation
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	instrumentedMongo := mongodb.NewInstrumentedClient(mongoClient, m, logger)
	cbMongo := mongodb.NewCircuitBreakerClient(instrumentedMongo, logger)
	defer cbMongo.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize idempotency indexes
	if err := idempotency.InitializeIndexes(ctx, instrumentedMongo.Database()); err != nil {
		logger.WithError(err).Warn("Failed to initialize idempotency indexes")
	} else {
		logger.Info("Idempotency indexes initialized")
	}

	// Initialize Kafka producer with instrumentation and circuit breaker
	kafkaProducer := kafka.NewProducer(config.Kafka)
	instrumentedProducer := kafka.NewInstrumentedProducer(kafkaProducer, m, logger)
	cbProducer := kafka.NewCircuitBreakerProducer(instrumentedProducer, logger)
	defer cbProducer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize CloudEvents factory
	eventFactory := cloudevents.NewEventFactory("/rf-picking-service")

	// Initialize repositories with instrumented client and event factory
	db := instrumentedMongo.Database()
	sessionRepo := mongoRepo.NewSessionRepository(db, eventFactory)
	unitRepo := mongoRepo.NewHandlingUnitRepository(db)
	roundRepo := mongoRepo.NewRoundRepository(db)
	movementRepo := mongoRepo.NewMovementRepository(db, eventFactory)
	parameterRepo := mongoRepo.NewParameterRepository(db)
	locationRepo := mongoRepo.NewLocationRepository(db)
	featureRepo := mongoRepo.NewFeatureRepository(db)

	// Initialize idempotency repository
	idempotencyKeyRepo := idempotency.NewMongoKeyRepository(db)
	logger.Info("Repositories initialized")

	// Initialize and start outbox publisher
	outboxPublisher := outbox.NewPublisher(
		sessionRepo.GetOutboxRepository(),
		kafkaProducer,
		logger,
		m,
		&outbox.PublisherConfig{
			PollInterval: 1 * time.Second,
			BatchSize:    100,
		},
	)
	if err := outboxPublisher.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start outbox publisher")
		os.Exit(1)
	}
	defer outboxPublisher.Stop()
	logger.Info("Outbox publisher started")

	// Initialize warehouse function gateway
	functionClient := gateway.NewWarehouseFunctionClient(gateway.Config{
		BaseURL: getEnv("WAREHOUSE_FUNCTIONS_URL", "http://localhost:8090"),
	}, logger, m)

	// Initialize direct event publisher for compensation notifications
	eventPublisher := events.NewKafkaEventPublisher(cbProducer, eventFactory, logger)

	// Initialize application services
	sessionService := application.NewSessionApplicationService(
		sessionRepo,
		roundRepo,
		unitRepo,
		parameterRepo,
		featureRepo,
		logger,
		m,
	)
	packingService := application.NewPackingApplicationService(
		unitRepo,
		roundRepo,
		movementRepo,
		locationRepo,
		featureRepo,
		functionClient,
		eventPublisher,
		logger,
		m,
	)

	// Setup Gin router with middleware
	router := gin.New()

	// Apply standard middleware (includes recovery, request ID, correlation, logging, error handling)
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	// Propagate WMS CloudEvents extensions and tenant context
	router.Use(middleware.CloudEvents())
	router.Use(middleware.TenantAuth(middleware.DefaultTenantAuthConfig()))

	// Add metrics middleware
	router.Use(middleware.MetricsMiddleware(m))

	// Add tracing middleware
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	// Handle 404 and 405 errors
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return cbMongo.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// Session routes drive the guided workflow
	sessions := router.Group("/api/v1/sessions")
	{
		sessions.POST("", startSessionHandler(sessionService, logger))
		sessions.GET("", listSessionsHandler(sessionService, logger))
		sessions.GET("/:sessionId", getSessionHandler(sessionService, logger))
		sessions.POST("/:sessionId/steps/:stepCode", submitStepHandler(sessionService, logger))
		sessions.POST("/:sessionId/next-candidate", nextCandidateHandler(sessionService, logger))
		sessions.POST("/:sessionId/reset", resetSessionHandler(sessionService, logger))
		sessions.POST("/:sessionId/complete", completeSessionHandler(sessionService, logger))
	}

	// Packing validation is a stock-moving transaction; resubmitting the
	// same Idempotency-Key replays the stored response instead of packing
	// twice.
	idempotencyConfig := idempotency.DefaultConfig(serviceName, idempotencyKeyRepo)
	rounds := router.Group("/api/v1/rounds")
	rounds.Use(idempotency.Middleware(idempotencyConfig))
	{
		rounds.POST("/:roundId/validate-packing", validatePackingHandler(packingService, logger))
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8007"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "rf_picking_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ConsumerGroup: "rf-picking-service",
			ClientID:      "rf-picking-service",
			BatchSize:     100,
			BatchTimeout:  10 * time.Millisecond,
			RequiredAcks:  -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// HTTP Handlers
func startSessionHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			OwnerID     string `json:"ownerId" binding:"required,safe_string"`
			ProcessName string `json:"processName" binding:"required,process_name"`
		}

		if appErr := api.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"session.owner":   req.OwnerID,
			"session.process": req.ProcessName,
		})

		cmd := application.StartSessionCommand{
			OwnerID:     req.OwnerID,
			ProcessName: req.ProcessName,
		}

		session, err := service.StartSession(c.Request.Context(), cmd)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusCreated, session)
	}
}

func listSessionsHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)
		query := application.ListSessionsQuery{
			Status:  c.Query("status"),
			OwnerID: c.Query("ownerId"),
			RoundID: c.Query("roundId"),
			Limit:   page.GetLimit(),
			Offset:  page.GetOffset(),
		}

		sessions, total, err := service.ListSessions(c.Request.Context(), query)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(sessions, page.Page, page.PageSize, total))
	}
}

func getSessionHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		sessionID := c.Param("sessionId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"session.id": sessionID,
		})

		query := application.GetSessionQuery{SessionID: sessionID}

		session, err := service.GetSession(c.Request.Context(), query)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, session)
	}
}

func submitStepHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var params struct {
			SessionID string `uri:"sessionId" binding:"required"`
			StepCode  int    `uri:"stepCode" binding:"required,step_code"`
		}
		if appErr := api.BindURIAndValidate(c, &params); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		sessionID := params.SessionID
		stepCode := params.StepCode

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"session.id": sessionID,
			"step.code":  stepCode,
		})

		var req struct {
			EquipmentID       string `json:"equipmentId" binding:"omitempty,safe_string"`
			RoundName         string `json:"roundName" binding:"omitempty,round_name"`
			ParentUnitID      string `json:"parentUnitId" binding:"omitempty,handling_unit_id"`
			LocationID        string `json:"locationId" binding:"omitempty,location_id"`
			ArticleCode       string `json:"articleCode" binding:"omitempty,safe_string"`
			SerialNumber      string `json:"serialNumber" binding:"omitempty,safe_string"`
			Quantity          int    `json:"quantity"`
			DestinationUnitID string `json:"destinationUnitId" binding:"omitempty,handling_unit_id"`
		}

		if appErr := api.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.SubmitStepCommand{
			SessionID:         sessionID,
			StepCode:          stepCode,
			EquipmentID:       req.EquipmentID,
			RoundName:         req.RoundName,
			ParentUnitID:      req.ParentUnitID,
			LocationID:        req.LocationID,
			ArticleCode:       req.ArticleCode,
			SerialNumber:      req.SerialNumber,
			Quantity:          req.Quantity,
			DestinationUnitID: req.DestinationUnitID,
		}

		session, err := service.SubmitStep(c.Request.Context(), cmd)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, session)
	}
}

func nextCandidateHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		sessionID := c.Param("sessionId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"session.id": sessionID,
		})

		cmd := application.NextCandidateCommand{SessionID: sessionID}

		session, err := service.NextCandidate(c.Request.Context(), cmd)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, session)
	}
}

func resetSessionHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		sessionID := c.Param("sessionId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"session.id": sessionID,
		})

		cmd := application.ResetSessionCommand{SessionID: sessionID}

		session, err := service.ResetSession(c.Request.Context(), cmd)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, session)
	}
}

func completeSessionHandler(service *application.SessionApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		sessionID := c.Param("sessionId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"session.id": sessionID,
		})

		cmd := application.CompleteSessionCommand{SessionID: sessionID}

		if err := service.CompleteSession(c.Request.Context(), cmd); err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "completed"})
	}
}

func validatePackingHandler(service *application.PackingApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		roundID := c.Param("roundId")
		middleware.AddSpanAttributes(c, map[string]interface{}{
			"round.id": roundID,
		})

		var req struct {
			ArticleID         string `json:"articleId" binding:"required"`
			ArticleCode       string `json:"articleCode" binding:"omitempty,safe_string"`
			FeatureValue      string `json:"featureValue" binding:"omitempty,safe_string"`
			MovingQuantity    int    `json:"movingQuantity" binding:"required"`
			ResType           string `json:"resType"`
			RoundHandlingUnit string `json:"roundHandlingUnit" binding:"required,handling_unit_id"`
			SourceContentID   string `json:"sourceContentId" binding:"required"`
			SourceLocationID  string `json:"sourceLocationId" binding:"omitempty,location_id"`
			ExistingFinalHUO  string `json:"existingFinalHuo" binding:"omitempty,handling_unit_id"`
			HandlingUnitModel string `json:"handlingUnitModel" binding:"required"`
			SessionID         string `json:"sessionId"`
		}

		if appErr := api.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		middleware.AddSpanAttributes(c, map[string]interface{}{
			"article.id":      req.ArticleID,
			"moving.quantity": req.MovingQuantity,
		})

		cmd := application.ValidateRoundPackingCommand{
			RoundID:           roundID,
			ArticleID:         req.ArticleID,
			ArticleCode:       req.ArticleCode,
			FeatureValue:      req.FeatureValue,
			MovingQuantity:    req.MovingQuantity,
			ResType:           req.ResType,
			RoundHandlingUnit: req.RoundHandlingUnit,
			SourceContentID:   req.SourceContentID,
			SourceLocationID:  req.SourceLocationID,
			ExistingFinalHUO:  req.ExistingFinalHUO,
			HandlingUnitModel: req.HandlingUnitModel,
			SessionID:         req.SessionID,
		}

		result, err := service.ValidateRoundPacking(c.Request.Context(), cmd)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
