package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HotelData struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	CustomHotelID string `gorm:"not null;uniqueIndex;type:varchar(50)"`

	Name        string         `gorm:"not null;type:varchar(255)"`
	Address     datatypes.JSON `gorm:"type:jsonb"`
	ContactInfo datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(20);default:active;index:idx_hotels_status"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	CategoriesData []RoomCategoryData `gorm:"foreignKey:HotelID;references:ID"`
}

func (h *HotelData) BeforeCreate(_ *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	h.CreatedAt = time.Now()
	h.UpdatedAt = time.Now()

	if h.Status == "" {
		h.Status = "active"
	}
	return
}

func (h *HotelData) BeforeUpdate(_ *gorm.DB) (err error) {
	h.UpdatedAt = time.Now()
	return
}

func (h *HotelData) TableName() string {
	return "hotels"
}

func (h *HotelData) SetAddress(address map[string]string) error {
	if len(address) == 0 {
		h.Address = datatypes.JSON("")
		return nil
	}
	data, err := json.Marshal(address)
	if err != nil {
		return err
	}
	h.Address = data
	return nil
}

func (h *HotelData) SetContactInfo(contact map[string]string) error {
	if len(contact) == 0 {
		h.ContactInfo = datatypes.JSON("")
		return nil
	}
	data, err := json.Marshal(contact)
	if err != nil {
		return err
	}
	h.ContactInfo = data
	return nil
}
