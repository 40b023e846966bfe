package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/register4u/inventory-service/internal/domain/inventory"
	"github.com/register4u/inventory-service/internal/entities"
	"gorm.io/gorm"
)

type PostgresInventoryRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPostgresInventoryRepository(db *gorm.DB, logger *slog.Logger) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresInventoryRepository) FindRoomByID(ctx context.Context, id string) (*inventory.Room, error) {
	var roomModel entities.RoomData

	err := r.db.WithContext(ctx).
		Preload("CategoryData").
		Where("id = ?", id).First(&roomModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to find room by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find room %s: %w", id, err)
	}

	return r.convertRoomModelToDomain(&roomModel), nil
}

func (r *PostgresInventoryRepository) FindRoomByNumber(ctx context.Context, roomNumber string) (*inventory.Room, error) {
	var roomModel entities.RoomData

	err := r.db.WithContext(ctx).
		Preload("CategoryData").
		Where("room_number = ?", roomNumber).First(&roomModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to find room by number", "room_number", roomNumber, "error", err)
		return nil, fmt.Errorf("failed to find room %s: %w", roomNumber, err)
	}

	return r.convertRoomModelToDomain(&roomModel), nil
}

func (r *PostgresInventoryRepository) FindAllRooms(ctx context.Context) ([]*inventory.Room, error) {
	var roomModels []entities.RoomData

	err := r.db.WithContext(ctx).
		Preload("CategoryData").
		Order("room_number ASC").
		Find(&roomModels).Error
	if err != nil {
		r.logger.Error("Failed to find rooms", "error", err)
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}

	rooms := make([]*inventory.Room, len(roomModels))
	for i := range roomModels {
		rooms[i] = r.convertRoomModelToDomain(&roomModels[i])
	}

	return rooms, nil
}

func (r *PostgresInventoryRepository) FindActiveAllotments(ctx context.Context, roomID string, window inventory.Window) ([]*inventory.Allotment, error) {
	var allotmentModels []entities.AllotmentData

	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status IN ?", []string{inventory.AllotmentStatusBooked, inventory.AllotmentStatusCheckedIn}).
		Where("check_in_date < ? AND check_out_date > ?", window.End, window.Start).
		Find(&allotmentModels).Error
	if err != nil {
		r.logger.Error("Failed to find allotments for room", "room_id", roomID, "error", err)
		return nil, fmt.Errorf("failed to find allotments for room %s: %w", roomID, err)
	}

	allotments := make([]*inventory.Allotment, len(allotmentModels))
	for i := range allotmentModels {
		allotments[i] = convertAllotmentModelToDomain(&allotmentModels[i])
	}

	return allotments, nil
}

func (r *PostgresInventoryRepository) CountHotelActiveAllotments(ctx context.Context, hotelID string, window inventory.Window) (int, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&entities.AllotmentData{}).
		Where("hotel_id = ?", hotelID).
		Where("status IN ?", []string{inventory.AllotmentStatusBooked, inventory.AllotmentStatusCheckedIn}).
		Where("check_in_date < ? AND check_out_date > ?", window.End, window.Start).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to count allotments for hotel", "hotel_id", hotelID, "error", err)
		return 0, fmt.Errorf("failed to count allotments for hotel %s: %w", hotelID, err)
	}

	return int(count), nil
}

func (r *PostgresInventoryRepository) FindAllHotels(ctx context.Context) ([]*inventory.Hotel, error) {
	var hotelModels []entities.HotelData

	err := r.db.WithContext(ctx).
		Preload("CategoriesData").
		Find(&hotelModels).Error
	if err != nil {
		r.logger.Error("Failed to find hotels", "error", err)
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}

	hotels := make([]*inventory.Hotel, len(hotelModels))
	for i := range hotelModels {
		hotels[i] = r.convertHotelModelToDomain(&hotelModels[i])
	}

	return hotels, nil
}

// UpdateRoomStatus corrects only the cached status column. There is no
// read-modify-write guard: reconciliation is idempotent, so a lost race with
// a concurrent booking is healed by the next pass.
func (r *PostgresInventoryRepository) UpdateRoomStatus(ctx context.Context, roomID, status string) error {
	err := r.db.WithContext(ctx).
		Model(&entities.RoomData{}).
		Where("id = ?", roomID).
		Update("status", status).Error
	if err != nil {
		r.logger.Error("Failed to update room status", "room_id", roomID, "status", status, "error", err)
		return fmt.Errorf("failed to update status of room %s: %w", roomID, err)
	}

	r.logger.Debug("Room status updated", "room_id", roomID, "status", status)
	return nil
}

func (r *PostgresInventoryRepository) convertRoomModelToDomain(model *entities.RoomData) *inventory.Room {
	room := &inventory.Room{
		ID:         model.ID,
		HotelID:    model.HotelID,
		CategoryID: model.CategoryID,
		RoomNumber: model.RoomNumber,
		Status:     model.Status,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}

	if model.CategoryData != nil {
		room.Category = convertCategoryModelToDomain(model.CategoryData)
	}

	return room
}

func (r *PostgresInventoryRepository) convertHotelModelToDomain(model *entities.HotelData) *inventory.Hotel {
	hotel := &inventory.Hotel{
		ID:            model.ID,
		CustomHotelID: model.CustomHotelID,
		Name:          model.Name,
		Status:        model.Status,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}

	if len(model.Address) > 0 {
		var address inventory.Address
		if err := json.Unmarshal(model.Address, &address); err == nil {
			hotel.Address = address
		}
	}

	if len(model.ContactInfo) > 0 {
		var contactInfo inventory.ContactInfo
		if err := json.Unmarshal(model.ContactInfo, &contactInfo); err == nil {
			hotel.ContactInfo = contactInfo
		}
	}

	if len(model.CategoriesData) > 0 {
		categories := make([]inventory.RoomCategory, len(model.CategoriesData))
		for i := range model.CategoriesData {
			categories[i] = *convertCategoryModelToDomain(&model.CategoriesData[i])
		}
		hotel.Categories = categories
	}

	return hotel
}

func convertCategoryModelToDomain(model *entities.RoomCategoryData) *inventory.RoomCategory {
	return &inventory.RoomCategory{
		ID:        model.ID,
		HotelID:   model.HotelID,
		Name:      model.Name,
		Occupancy: model.Occupancy,
		RoomCount: model.RoomCount,
	}
}

func convertAllotmentModelToDomain(model *entities.AllotmentData) *inventory.Allotment {
	return &inventory.Allotment{
		ID:           model.ID,
		RoomID:       model.RoomID,
		HotelID:      model.HotelID,
		GuestName:    model.GuestName,
		Occupancy:    model.Occupancy,
		Status:       model.Status,
		CheckInDate:  model.CheckInDate,
		CheckOutDate: model.CheckOutDate,
	}
}
