package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/register4u/inventory-service/internal/domain/inventory"
)

// ReconcileRoomStatusUseCase corrects the denormalized room status cache
// against the load computed from allotments. Reconciliation is idempotent:
// re-running it on a consistent room is a no-op, so it is safe to trigger at
// any time, including concurrently with bookings.
type ReconcileRoomStatusUseCase struct {
	repo      inventory.Repository
	loadUC    *ComputeRoomLoadUseCase
	publisher inventory.EventPublisher
	notifier  inventory.Notifier
	logger    *slog.Logger
}

func NewReconcileRoomStatusUseCase(
	repo inventory.Repository,
	loadUC *ComputeRoomLoadUseCase,
	publisher inventory.EventPublisher,
	notifier inventory.Notifier,
	logger *slog.Logger,
) *ReconcileRoomStatusUseCase {
	return &ReconcileRoomStatusUseCase{
		repo:      repo,
		loadUC:    loadUC,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

type ReconcileOptions struct {
	// DryRun computes corrections without persisting status updates.
	DryRun bool
}

type ReconcileResult struct {
	CheckedRooms   int                    `json:"checkedRooms"`
	CorrectedRooms int                    `json:"correctedRooms"`
	SkippedRooms   int                    `json:"skippedRooms"`
	FailedRooms    int                    `json:"failedRooms"`
	Corrections    []inventory.Correction `json:"corrections"`
	Errors         []string               `json:"errors,omitempty"`
	StartTime      time.Time              `json:"startTime"`
	EndTime        time.Time              `json:"endTime"`
	Duration       time.Duration          `json:"duration"`
}

// ExecuteRoom reconciles a single room against the current day's window.
// Rooms without a resolvable category are skipped: capacity is unknown and
// guessing one would corrupt the cache rather than repair it.
func (uc *ReconcileRoomStatusUseCase) ExecuteRoom(ctx context.Context, room *inventory.Room, opts ReconcileOptions) (*inventory.Correction, error) {
	if room == nil {
		return nil, fmt.Errorf("room is required")
	}
	if room.Category == nil {
		uc.logger.Warn("Room has no resolvable category, skipping", "room_number", room.RoomNumber)
		return nil, nil
	}

	window := inventory.DayWindow(time.Now())
	load, err := uc.loadUC.Execute(ctx, room.ID, window)
	if err != nil {
		return nil, err
	}

	capacity := room.Category.Capacity()
	newStatus := inventory.RoomStatusAvailable
	if load >= capacity {
		newStatus = inventory.RoomStatusOccupied
	}

	correction := &inventory.Correction{
		RoomID:         room.ID,
		RoomNumber:     room.RoomNumber,
		HotelID:        room.HotelID,
		Changed:        newStatus != room.Status,
		PreviousStatus: room.Status,
		NewStatus:      newStatus,
		Load:           load,
		Capacity:       capacity,
		CorrectedAt:    time.Now(),
	}

	if !correction.Changed {
		return correction, nil
	}

	if opts.DryRun {
		uc.logger.Info("Room status drift detected (dry run)",
			"room_number", room.RoomNumber,
			"stored_status", room.Status,
			"computed_status", newStatus,
			"load", load,
			"capacity", capacity)
		return correction, nil
	}

	if err := uc.repo.UpdateRoomStatus(ctx, room.ID, newStatus); err != nil {
		uc.logger.Error("Failed to persist room status correction",
			"room_number", room.RoomNumber, "error", err)
		return nil, fmt.Errorf("failed to update status of room %s: %w", room.RoomNumber, err)
	}

	uc.logger.Info("Room status corrected",
		"room_number", room.RoomNumber,
		"previous_status", correction.PreviousStatus,
		"new_status", correction.NewStatus,
		"load", load,
		"capacity", capacity)

	return correction, nil
}

// Execute reconciles every room. A failure on one room is recorded and the
// batch moves on; the run only fails outright when the room list itself
// cannot be loaded.
func (uc *ReconcileRoomStatusUseCase) Execute(ctx context.Context, opts ReconcileOptions) (*ReconcileResult, error) {
	result := &ReconcileResult{
		StartTime:   time.Now(),
		Corrections: make([]inventory.Correction, 0),
		Errors:      make([]string, 0),
	}

	uc.logger.Info("Starting room status reconciliation", "dry_run", opts.DryRun)

	rooms, err := uc.repo.FindAllRooms(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch rooms", "error", err)
		return result, fmt.Errorf("failed to fetch rooms: %w", err)
	}

	for _, room := range rooms {
		result.CheckedRooms++

		correction, err := uc.ExecuteRoom(ctx, room, opts)
		if err != nil {
			result.FailedRooms++
			result.Errors = append(result.Errors, fmt.Sprintf("room %s: %v", room.RoomNumber, err))
			continue
		}
		if correction == nil {
			result.SkippedRooms++
			continue
		}
		if correction.Changed {
			result.CorrectedRooms++
			result.Corrections = append(result.Corrections, *correction)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	uc.logger.Info("Room status reconciliation completed",
		"checked_rooms", result.CheckedRooms,
		"corrected_rooms", result.CorrectedRooms,
		"skipped_rooms", result.SkippedRooms,
		"failed_rooms", result.FailedRooms,
		"duration", result.Duration)

	if !opts.DryRun && len(result.Corrections) > 0 {
		uc.dispatchCorrections(ctx, result.Corrections)
	}

	return result, nil
}

// InspectionResult is the read-only view of a single room's computed state
// versus its stored status. Nothing is persisted.
type InspectionResult struct {
	RoomNumber     string `json:"roomNumber"`
	HotelID        string `json:"hotelId"`
	StoredStatus   string `json:"storedStatus"`
	ComputedStatus string `json:"computedStatus"`
	Load           int    `json:"load"`
	Capacity       int    `json:"capacity"`
	CapacityKnown  bool   `json:"capacityKnown"`
	InSync         bool   `json:"inSync"`
}

func (uc *ReconcileRoomStatusUseCase) Inspect(ctx context.Context, roomNumber string) (*InspectionResult, error) {
	room, err := uc.repo.FindRoomByNumber(ctx, roomNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %s: %w", roomNumber, err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomNumber, inventory.ErrRoomNotFound)
	}

	window := inventory.DayWindow(time.Now())
	load, err := uc.loadUC.Execute(ctx, room.ID, window)
	if err != nil {
		return nil, err
	}

	result := &InspectionResult{
		RoomNumber:   room.RoomNumber,
		HotelID:      room.HotelID,
		StoredStatus: room.Status,
		Load:         load,
	}

	if room.Category == nil {
		result.ComputedStatus = room.Status
		result.InSync = true
		return result, nil
	}

	result.CapacityKnown = true
	result.Capacity = room.Category.Capacity()
	result.ComputedStatus = inventory.RoomStatusAvailable
	if load >= result.Capacity {
		result.ComputedStatus = inventory.RoomStatusOccupied
	}
	result.InSync = result.ComputedStatus == result.StoredStatus

	return result, nil
}

func (uc *ReconcileRoomStatusUseCase) dispatchCorrections(ctx context.Context, corrections []inventory.Correction) {
	if uc.publisher != nil {
		if err := uc.publisher.PublishCorrections(ctx, corrections); err != nil {
			uc.logger.Error("Failed to publish correction events", "count", len(corrections), "error", err)
		} else {
			uc.logger.Info("Correction events published", "count", len(corrections))
		}
	}

	if uc.notifier != nil {
		if err := uc.notifier.NotifyCorrections(ctx, corrections); err != nil {
			uc.logger.Warn("Failed to notify operations webhook", "count", len(corrections), "error", err)
		}
	}
}
