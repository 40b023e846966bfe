package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/register4u/inventory-service/internal/application/usecase"
	"github.com/register4u/inventory-service/internal/database"
	"github.com/register4u/inventory-service/internal/domain/inventory"
	"github.com/register4u/inventory-service/internal/entities"
	"github.com/register4u/inventory-service/internal/infrastructure/adapter"
	"github.com/register4u/inventory-service/internal/infrastructure/config"
	"github.com/register4u/inventory-service/internal/logger"
)

func main() {
	roomNumber := flag.String("room", "", "inspect a single room by number without persisting anything")
	dryRun := flag.Bool("dry-run", false, "compute corrections without writing them")
	flag.Parse()

	applicationLogger := logger.SetupLogger("info")

	cfg, err := config.LoadConfig()
	if err != nil {
		applicationLogger.Error("Failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	db, err := database.GormOpen(cfg.Database.DSN())
	if err != nil {
		applicationLogger.Error("db connect failed", "error", err.Error())
		os.Exit(1)
	}

	if err := database.RunMigrations(db, &entities.HotelData{}, &entities.RoomCategoryData{}, &entities.RoomData{}, &entities.AllotmentData{}); err != nil {
		applicationLogger.Error("db migrations failed", "error", err.Error())
		os.Exit(1)
	}

	inventoryRepo := adapter.NewPostgresInventoryRepository(db, applicationLogger)
	computeRoomLoadUseCase := usecase.NewComputeRoomLoadUseCase(inventoryRepo, applicationLogger)

	var publisher inventory.EventPublisher
	var closePublisher func()
	if cfg.RabbitMQ.Enabled {
		conn, err := adapter.DialRabbitMQ(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.Username, cfg.RabbitMQ.Password)
		if err != nil {
			applicationLogger.Error("rabbitmq connect failed", "error", err.Error())
			os.Exit(1)
		}
		mqPublisher, err := adapter.NewRabbitMQPublisher(conn, cfg.RabbitMQ.CorrectionsQueue, cfg.RabbitMQ.MaxRetryAttempts)
		if err != nil {
			applicationLogger.Error("rabbitmq publisher setup failed", "error", err.Error())
			os.Exit(1)
		}
		publisher = mqPublisher
		closePublisher = mqPublisher.Close
	}

	var notifier inventory.Notifier
	if cfg.Webhook.URL != "" {
		notifier = adapter.NewWebhookNotifier(adapter.WebhookConfig{
			URL:           cfg.Webhook.URL,
			APIKey:        cfg.Webhook.APIKey,
			Timeout:       cfg.Webhook.Timeout,
			RateLimit:     cfg.Webhook.RateLimit,
			BurstLimit:    cfg.Webhook.BurstLimit,
			MaxRetries:    cfg.Webhook.MaxRetries,
			RetryInterval: cfg.Webhook.RetryInterval,
			MaxFailures:   cfg.Webhook.MaxFailures,
			ResetTimeout:  cfg.Webhook.ResetTimeout,
		}, applicationLogger)
	}

	reconcileUseCase := usecase.NewReconcileRoomStatusUseCase(
		inventoryRepo,
		computeRoomLoadUseCase,
		publisher,
		notifier,
		applicationLogger,
	)

	reconciler := NewReconciler(cfg, reconcileUseCase, applicationLogger)

	if *roomNumber != "" {
		if err := reconciler.InspectRoom(context.Background(), *roomNumber); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if cfg.Reconciler.IntervalMinutes > 0 {
		reconciler.RunForever(*dryRun)
	} else if err := reconciler.RunOnce(context.Background(), *dryRun); err != nil {
		applicationLogger.Error("Reconciliation run failed", "error", err.Error())
		if closePublisher != nil {
			closePublisher()
		}
		os.Exit(1)
	}

	if closePublisher != nil {
		closePublisher()
	}
}
