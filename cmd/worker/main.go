package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wms-platform/rf-picking-service/internal/activities"
	"github.com/wms-platform/rf-picking-service/internal/application"
	"github.com/wms-platform/rf-picking-service/internal/infrastructure/events"
	"github.com/wms-platform/rf-picking-service/internal/infrastructure/gateway"
	mongoRepo "github.com/wms-platform/rf-picking-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/rf-picking-service/internal/workflows"
	"github.com/wms-platform/rf-picking-service/pkg/cloudevents"
	"github.com/wms-platform/rf-picking-service/pkg/kafka"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
	"github.com/wms-platform/rf-picking-service/pkg/mongodb"
	"github.com/wms-platform/rf-picking-service/pkg/temporal"
)

const serviceName = "rf-picking-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting rf-picking-service worker")

	// Load configuration
	config := loadConfig()

	// Initialize metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))

	// Initialize MongoDB
	ctx := context.Background()
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer for compensation notifications
	kafkaProducer := kafka.NewProductionProducer(config.Kafka, m, logger)
	defer kafkaProducer.Close()

	// Initialize CloudEvents factory
	eventFactory := cloudevents.NewEventFactory("/rf-picking-service")

	// Initialize repositories
	db := mongoClient.Database()
	sessionRepo := mongoRepo.NewSessionRepository(db, eventFactory)
	unitRepo := mongoRepo.NewHandlingUnitRepository(db)
	roundRepo := mongoRepo.NewRoundRepository(db)
	movementRepo := mongoRepo.NewMovementRepository(db, eventFactory)
	parameterRepo := mongoRepo.NewParameterRepository(db)
	locationRepo := mongoRepo.NewLocationRepository(db)
	featureRepo := mongoRepo.NewFeatureRepository(db)

	// Initialize warehouse function gateway
	functionClient := gateway.NewWarehouseFunctionClient(gateway.Config{
		BaseURL: getEnv("WAREHOUSE_FUNCTIONS_URL", "http://localhost:8090"),
	}, logger, m)

	eventPublisher := events.NewKafkaEventPublisher(kafkaProducer, eventFactory, logger)

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

	// Initialize Temporal client
	temporalClient, err := temporal.NewClient(ctx, config.Temporal)
	if err != nil {
		logger.WithError(err).Error("Failed to create Temporal client")
		os.Exit(1)
	}
	defer temporalClient.Close()
	logger.Info("Connected to Temporal", "hostPort", config.Temporal.HostPort)

	// Create activities
	packingActivities := activities.NewPackingActivities(packingService, sessionService)

	// Create worker
	workerOpts := temporal.DefaultWorkerOptions(temporal.TaskQueues.RFPicking)
	w := temporalClient.NewWorker(workerOpts)

	// Register workflow
	w.RegisterWorkflow(workflows.RoundPackingWorkflow)
	logger.Info("Registered workflow", "workflow", temporal.WorkflowNames.RoundPacking)

	// Register activities
	w.RegisterActivity(packingActivities.ValidateRoundPacking)
	w.RegisterActivity(packingActivities.CompleteSession)
	logger.Info("Registered activities")

	// Start worker in background
	go func() {
		if err := w.Run(nil); err != nil {
			logger.WithError(err).Error("Worker failed")
			os.Exit(1)
		}
	}()
	logger.Info("Worker started", "taskQueue", temporal.TaskQueues.RFPicking)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down worker...")

	w.Stop()
	logger.Info("Worker stopped")
}

// Config holds application configuration
type Config struct {
	MongoDB  *mongodb.Config
	Kafka    *kafka.Config
	Temporal *temporal.Config
}

func loadConfig() *Config {
	return &Config{
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "rf_picking_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ConsumerGroup: "rf-picking-service-worker",
			ClientID:      "rf-picking-service-worker",
			BatchSize:     100,
			BatchTimeout:  10 * time.Millisecond,
			RequiredAcks:  -1,
		},
		Temporal: &temporal.Config{
			HostPort:  getEnv("TEMPORAL_HOST", "localhost:7233"),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			Identity:  "rf-picking-worker",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
