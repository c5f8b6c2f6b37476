package rsvp

import (
	"time"
)

// RSVP statuses
const (
	StatusYes   = "yes"
	StatusMaybe = "maybe"
	StatusNo    = "no"
)

// ============================
// 🔷 GORM RSVP Model
// Exactly one of UserID or Email is set. Email rows belong to guests
// who answered before signing in; they get claimed after login.
type RSVP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Email     *string   `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Status    string    `gorm:"type:varchar(10);not null" json:"status"`
	Guests    int       `gorm:"not null;default:1" json:"guests"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

// ============================
// 🟡 Upsert RSVP Request
type UpsertRequest struct {
	EventID uint   `json:"event_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
	Guests  int    `json:"guests"`
	Note    string `json:"note"`
}

// ============================
// 📄 RSVP With Event Summary
type RSVPDetail struct {
	RSVP
	EventTitle    string     `json:"event_title"`
	EventDate     time.Time  `json:"event_date"`
	EventTime     *time.Time `json:"event_time,omitempty"`
	EventLocation string     `json:"event_location"`
}
