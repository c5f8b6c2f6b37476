package reports

import (
	"time"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// GuestListRow is one guest line in the event guest list report
type GuestListRow struct {
	GuestName   string     `json:"guest_name"` // full name when claimed, empty otherwise
	Email       string     `json:"email"`
	Status      string     `json:"status"` // pending / accepted / maybe / declined
	Guests      int        `json:"guests"` // party size from the RSVP, 0 when unanswered
	Note        string     `json:"note"`
	InvitedAt   time.Time  `json:"invited_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// GuestListReport wraps the rows with their event header
type GuestListReport struct {
	EventID    uint           `json:"event_id"`
	EventTitle string         `json:"event_title"`
	EventDate  time.Time      `json:"event_date"`
	Location   string         `json:"location"`
	Rows       []GuestListRow `json:"rows"`
}
