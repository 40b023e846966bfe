package inventory

import (
	"context"
	"time"
)

// Repository is the persistence port. Finders return (nil, nil) when the
// entity does not exist so callers can distinguish absence from failure.
type Repository interface {
	FindRoomByID(ctx context.Context, id string) (*Room, error)
	FindRoomByNumber(ctx context.Context, roomNumber string) (*Room, error)
	FindAllRooms(ctx context.Context) ([]*Room, error)
	FindActiveAllotments(ctx context.Context, roomID string, window Window) ([]*Allotment, error)
	CountHotelActiveAllotments(ctx context.Context, hotelID string, window Window) (int, error)
	FindAllHotels(ctx context.Context) ([]*Hotel, error)
	UpdateRoomStatus(ctx context.Context, roomID, status string) error
}

type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher fans corrections out to downstream consumers (notification
// workers, audit trail). Implementations must tolerate empty batches.
type EventPublisher interface {
	PublishCorrections(ctx context.Context, corrections []Correction) error
}

// Notifier pushes a human-facing summary of a reconciliation run to an
// operations endpoint.
type Notifier interface {
	NotifyCorrections(ctx context.Context, corrections []Correction) error
}
