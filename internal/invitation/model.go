package invitation

import (
	"time"
)

// Invitation statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusMaybe    = "maybe"
	StatusDeclined = "declined"
)

// ============================
// 🔷 GORM Invitation Model
type Invitation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EventID      uint       `gorm:"not null;index;uniqueIndex:idx_event_invitee" json:"event_id"`
	InviterID    uint       `gorm:"not null;index" json:"inviter_id"`
	InviteeEmail string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_event_invitee" json:"invitee_email"`
	InviteeID    *uint      `gorm:"index" json:"invitee_id,omitempty"` // filled when the email is claimed
	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Token        string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// ============================
// 🟡 Create Invitation Request
type CreateInvitationRequest struct {
	EventID uint     `json:"event_id" binding:"required"`
	Emails  []string `json:"emails" binding:"required,min=1"`
}

// ============================
// 🟠 Respond Request
// Choice uses the RSVP vocabulary: yes / maybe / no.
type RespondRequest struct {
	Choice string `json:"choice" binding:"required"`
}

// ============================
// 📄 Invitation With Event Summary
type InvitationDetail struct {
	Invitation
	EventTitle    string     `json:"event_title"`
	EventDate     time.Time  `json:"event_date"`
	EventTime     *time.Time `json:"event_time,omitempty"`
	EventLocation string     `json:"event_location"`
}

// CreateResult reports per-email outcome of a bulk invite
type CreateResult struct {
	Created    []Invitation `json:"created"`
	Duplicates []string     `json:"duplicates"`
	Invalid    []string     `json:"invalid"`
}

// Message is the payload published to Kafka on invitation changes
type Message struct {
	Type         string `json:"type"` // invitation.created / invitation.resent / invitation.responded
	InvitationID uint   `json:"invitation_id"`
	EventID      uint   `json:"event_id"`
	EventTitle   string `json:"event_title"`
	InviterID    uint   `json:"inviter_id"`
	InviteeEmail string `json:"invitee_email"`
	Status       string `json:"status"`
	Token        string `json:"token"`
}
