package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/register4u/inventory-service/internal/domain/inventory"
)

// fakeRepository is an in-memory Repository with per-room error injection,
// filtering allotments the same way the SQL implementation does.
type fakeRepository struct {
	rooms      []*inventory.Room
	allotments []*inventory.Allotment
	hotels     []*inventory.Hotel

	findRoomsErr   error
	countErrByID   map[string]error
	updateErrByID  map[string]error
	updatedStatus  map[string]string
	allotmentsErr  error
	findHotelsErr  error
	updateCalls    int
	allotmentCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		countErrByID:  make(map[string]error),
		updateErrByID: make(map[string]error),
		updatedStatus: make(map[string]string),
	}
}

func (f *fakeRepository) FindRoomByID(_ context.Context, id string) (*inventory.Room, error) {
	for _, room := range f.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) FindRoomByNumber(_ context.Context, roomNumber string) (*inventory.Room, error) {
	for _, room := range f.rooms {
		if room.RoomNumber == roomNumber {
			return room, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) FindAllRooms(_ context.Context) ([]*inventory.Room, error) {
	if f.findRoomsErr != nil {
		return nil, f.findRoomsErr
	}
	return f.rooms, nil
}

func (f *fakeRepository) FindActiveAllotments(_ context.Context, roomID string, window inventory.Window) ([]*inventory.Allotment, error) {
	f.allotmentCalls++
	if f.allotmentsErr != nil {
		return nil, f.allotmentsErr
	}
	var result []*inventory.Allotment
	for _, allotment := range f.allotments {
		if allotment.RoomID == roomID && allotment.IsActive() && allotment.Overlaps(window) {
			result = append(result, allotment)
		}
	}
	return result, nil
}

func (f *fakeRepository) CountHotelActiveAllotments(_ context.Context, hotelID string, window inventory.Window) (int, error) {
	if err := f.countErrByID[hotelID]; err != nil {
		return 0, err
	}
	count := 0
	for _, allotment := range f.allotments {
		if allotment.HotelID == hotelID && allotment.IsActive() && allotment.Overlaps(window) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) FindAllHotels(_ context.Context) ([]*inventory.Hotel, error) {
	if f.findHotelsErr != nil {
		return nil, f.findHotelsErr
	}
	return f.hotels, nil
}

func (f *fakeRepository) UpdateRoomStatus(_ context.Context, roomID, status string) error {
	f.updateCalls++
	if err := f.updateErrByID[roomID]; err != nil {
		return err
	}
	f.updatedStatus[roomID] = status
	for _, room := range f.rooms {
		if room.ID == roomID {
			room.Status = status
		}
	}
	return nil
}

type fakeCache struct {
	data     map[string][]byte
	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.getCalls++
	value, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("cache miss for key %s", key)
	}
	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.setCalls++
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type fakePublisher struct {
	published [][]inventory.Correction
	err       error
}

func (f *fakePublisher) PublishCorrections(_ context.Context, corrections []inventory.Correction) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, corrections)
	return nil
}

type fakeNotifier struct {
	notified [][]inventory.Correction
}

func (f *fakeNotifier) NotifyCorrections(_ context.Context, corrections []inventory.Correction) error {
	f.notified = append(f.notified, corrections)
	return nil
}
