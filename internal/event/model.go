package event

import (
	"time"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	EventDate   time.Time  `gorm:"not null;index" json:"event_date"`
	EventTime   *time.Time `json:"event_time,omitempty"`
	Location    string     `gorm:"type:text" json:"location"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	GuestCount int `gorm:"-" json:"guest_count"`
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventDate   string `json:"event_date" binding:"required"` // 🛠 string format: "2006-01-02"
	EventTime   string `json:"event_time,omitempty"`          // 🛠 string format: "15:04"
	Location    string `json:"location"`
}

// ============================
// 🟠 Update Event Request
type UpdateEventRequest struct {
	ID          uint   `json:"-"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventDate   string `json:"event_date" binding:"required"` // 🛠 string
	EventTime   string `json:"event_time,omitempty"`          // 🛠 string
	Location    string `json:"location"`
}
