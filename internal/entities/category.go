package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomCategoryData struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	HotelID string `gorm:"not null;index:idx_room_categories_hotel_id;type:varchar(36)"`
	Name    string `gorm:"not null;type:varchar(100)"`

	// Occupancy is the maximum guest capacity of one room of this category.
	Occupancy int32 `gorm:"not null;default:1"`

	// RoomCount is the configured number of rooms of this category at the
	// hotel, not a live count of room rows.
	RoomCount int32 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *RoomCategoryData) BeforeCreate(_ *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	if c.Occupancy <= 0 {
		c.Occupancy = 1
	}
	return
}

func (c *RoomCategoryData) BeforeUpdate(_ *gorm.DB) (err error) {
	c.UpdatedAt = time.Now()
	return
}

func (c *RoomCategoryData) TableName() string {
	return "room_categories"
}
