package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomData struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	HotelID    string `gorm:"not null;index:idx_rooms_hotel_id;type:varchar(36)"`
	CategoryID string `gorm:"index:idx_rooms_category_id;type:varchar(36)"`

	RoomNumber string `gorm:"not null;uniqueIndex;type:varchar(50)"`

	// Status is a cache of the computed occupancy state. It is corrected by
	// the reconciler, never trusted as the source of truth.
	Status string `gorm:"type:varchar(20);default:available;index:idx_rooms_status"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	CategoryData *RoomCategoryData `gorm:"foreignKey:CategoryID;references:ID"`
}

func (r *RoomData) BeforeCreate(_ *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()

	if r.Status == "" {
		r.Status = "available"
	}
	return
}

func (r *RoomData) BeforeUpdate(_ *gorm.DB) (err error) {
	r.UpdatedAt = time.Now()
	return
}

func (r *RoomData) TableName() string {
	return "rooms"
}
