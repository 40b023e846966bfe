package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jasonlvhit/gocron"
	"github.com/register4u/inventory-service/internal/application/usecase"
	"github.com/register4u/inventory-service/internal/infrastructure/config"
)

type Reconciler struct {
	config    *config.Config
	useCase   *usecase.ReconcileRoomStatusUseCase
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

func NewReconciler(cfg *config.Config, uc *usecase.ReconcileRoomStatusUseCase, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		config:    cfg,
		useCase:   uc,
		scheduler: gocron.NewScheduler(),
		logger:    logger,
	}
}

// RunOnce executes one full batch repair and prints the per-room outcomes
// and a final summary. It completes after processing all rooms regardless
// of individual failures; only a failure to start the batch at all (the
// room list itself is unreachable) is returned.
func (r *Reconciler) RunOnce(ctx context.Context, dryRun bool) error {
	result, err := r.useCase.Execute(ctx, usecase.ReconcileOptions{DryRun: dryRun})
	if err != nil {
		return err
	}

	for _, correction := range result.Corrections {
		fmt.Printf("room %-10s %s -> %s (load %d / capacity %d)\n",
			correction.RoomNumber,
			correction.PreviousStatus,
			correction.NewStatus,
			correction.Load,
			correction.Capacity)
	}
	for _, message := range result.Errors {
		fmt.Printf("FAILED: %s\n", message)
	}

	mode := ""
	if dryRun {
		mode = " (dry run)"
	}
	fmt.Printf("checked %d rooms%s: %d corrected, %d skipped, %d failed in %s\n",
		result.CheckedRooms, mode, result.CorrectedRooms, result.SkippedRooms, result.FailedRooms, result.Duration)

	return nil
}

// RunForever repeats the batch on the configured interval until interrupted.
// A failed run is logged and retried at the next tick.
func (r *Reconciler) RunForever(dryRun bool) {
	interval := r.config.Reconciler.IntervalMinutes

	err := r.scheduler.Every(interval).Minutes().Do(func() {
		if err := r.RunOnce(context.Background(), dryRun); err != nil {
			r.logger.Error("Reconciliation run failed", "error", err)
		}
	})
	if err != nil {
		r.logger.Error("Failed to schedule reconciliation", "error", err)
		os.Exit(1)
	}

	r.scheduler.Start()
	figure.NewFigure("RECONCILER", "", true).Print()
	r.logger.Info("Reconciler started", "interval_minutes", interval, "dry_run", dryRun)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	r.logger.Info("Shutting down reconciler")
	r.scheduler.Clear()
}

// InspectRoom prints computed load versus stored status for one room. Pure
// read, nothing is corrected.
func (r *Reconciler) InspectRoom(ctx context.Context, roomNumber string) error {
	inspection, err := r.useCase.Inspect(ctx, roomNumber)
	if err != nil {
		return err
	}

	fmt.Printf("room %s\n", inspection.RoomNumber)
	fmt.Printf("  stored status:   %s\n", inspection.StoredStatus)
	if inspection.CapacityKnown {
		fmt.Printf("  computed status: %s (load %d / capacity %d)\n", inspection.ComputedStatus, inspection.Load, inspection.Capacity)
	} else {
		fmt.Printf("  computed status: unknown (no category, load %d)\n", inspection.Load)
	}
	if inspection.InSync {
		fmt.Println("  in sync")
	} else {
		fmt.Println("  DRIFT: stored status disagrees with computed load")
	}

	return nil
}
