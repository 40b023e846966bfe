package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/register4u/inventory-service/internal/domain/inventory"
)

const inventoryCacheTTL = 5 * time.Minute

// GetInventoryStatusUseCase produces the per-hotel day occupancy report.
// occupiedRooms counts distinct overlapping active allotments against the
// hotel's configured room total; it does not re-derive per-room status and
// the two metrics are intentionally separate.
type GetInventoryStatusUseCase struct {
	repo   inventory.Repository
	cache  inventory.CacheRepository
	logger *slog.Logger
}

func NewGetInventoryStatusUseCase(
	repo inventory.Repository,
	cache inventory.CacheRepository,
	logger *slog.Logger,
) *GetInventoryStatusUseCase {
	return &GetInventoryStatusUseCase{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (uc *GetInventoryStatusUseCase) Execute(ctx context.Context, date time.Time) ([]inventory.HotelOccupancy, error) {
	window := inventory.DayWindow(date)
	cacheKey := fmt.Sprintf("inventory:%s", window.Start.Format("2006-01-02"))

	if uc.cache != nil {
		if cachedData, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var cached []inventory.HotelOccupancy
			unmarshalErr := json.Unmarshal(cachedData, &cached)
			if unmarshalErr == nil {
				uc.logger.Debug("Inventory report served from cache", "date", window.Start)
				return cached, nil
			}
			uc.logger.Warn("Failed to unmarshal cached inventory report", "error", unmarshalErr)
		}
	}

	hotels, err := uc.repo.FindAllHotels(ctx)
	if err != nil {
		uc.logger.Error("Failed to fetch hotels", "error", err)
		return nil, fmt.Errorf("failed to fetch hotels: %w", err)
	}

	report := make([]inventory.HotelOccupancy, 0, len(hotels))
	for _, hotel := range hotels {
		row := inventory.HotelOccupancy{
			HotelID:       hotel.ID,
			CustomHotelID: hotel.CustomHotelID,
			HotelName:     hotel.Name,
		}

		for _, category := range hotel.Categories {
			row.TotalRooms += int(category.RoomCount)
		}

		occupied, err := uc.repo.CountHotelActiveAllotments(ctx, hotel.ID, window)
		if err != nil {
			uc.logger.Error("Failed to count allotments for hotel, reporting zero occupancy",
				"hotel_id", hotel.ID, "error", err)
			occupied = 0
		}
		row.OccupiedRooms = occupied

		row.AvailableRooms = row.TotalRooms - row.OccupiedRooms
		if row.AvailableRooms < 0 {
			row.AvailableRooms = 0
		}

		report = append(report, row)
	}

	if uc.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, inventoryCacheTTL); err != nil {
				uc.logger.Warn("Failed to cache inventory report", "error", err)
			}
		}
	}

	uc.logger.Info("Inventory report computed",
		"date", window.Start.Format("2006-01-02"),
		"hotels", len(report))

	return report, nil
}
