package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/register4u/inventory-service/internal/domain/inventory"
)

// ComputeRoomLoadUseCase sums the guest load of a room over a half-open time
// window. Only booked and checked-in allotments count; an allotment with no
// recorded occupancy counts as one guest.
type ComputeRoomLoadUseCase struct {
	repo   inventory.Repository
	logger *slog.Logger
}

func NewComputeRoomLoadUseCase(repo inventory.Repository, logger *slog.Logger) *ComputeRoomLoadUseCase {
	return &ComputeRoomLoadUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ComputeRoomLoadUseCase) Execute(ctx context.Context, roomID string, window inventory.Window) (int, error) {
	allotments, err := uc.repo.FindActiveAllotments(ctx, roomID, window)
	if err != nil {
		uc.logger.Error("Failed to fetch allotments for room", "room_id", roomID, "error", err)
		return 0, fmt.Errorf("failed to fetch allotments for room %s: %w", roomID, err)
	}

	load := 0
	for _, allotment := range allotments {
		// The repository already filters by status and overlap; re-check here
		// so fakes and future backends cannot silently widen the rule.
		if !allotment.IsActive() || !allotment.Overlaps(window) {
			continue
		}
		load += allotment.Guests()
	}

	uc.logger.Debug("Computed room load",
		"room_id", roomID,
		"window_start", window.Start,
		"window_end", window.End,
		"allotments", len(allotments),
		"load", load)

	return load, nil
}
