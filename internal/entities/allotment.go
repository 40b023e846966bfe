package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AllotmentData struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	RoomID  string `gorm:"not null;index:idx_allotments_room_id;type:varchar(36)"`
	HotelID string `gorm:"not null;index:idx_allotments_hotel_id;type:varchar(36)"`

	GuestName string `gorm:"type:varchar(255)"`

	// Occupancy is the number of guests covered by this allotment. Legacy
	// rows may carry zero; readers treat that as one guest.
	Occupancy int32 `gorm:"not null;default:1"`

	Status string `gorm:"not null;type:varchar(20);default:booked;index:idx_allotments_status"`

	CheckInDate  time.Time `gorm:"not null;index:idx_allotments_check_in"`
	CheckOutDate time.Time `gorm:"not null;index:idx_allotments_check_out"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (a *AllotmentData) BeforeCreate(_ *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	if a.Status == "" {
		a.Status = "booked"
	}
	return
}

func (a *AllotmentData) BeforeUpdate(_ *gorm.DB) (err error) {
	a.UpdatedAt = time.Now()
	return
}

func (a *AllotmentData) TableName() string {
	return "allotments"
}
