package reports

import (
	"time"

	"gorm.io/gorm"
)

// ReportRepository defines the database operations required by the reports service.
type ReportRepository interface {
	GetEventHeader(eventID uint) (uint, string, time.Time, string, error)
	GetGuestListRows(eventID uint) ([]GuestListRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ReportRepository {
	return &repository{db: db}
}

func (r *repository) GetEventHeader(eventID uint) (uint, string, time.Time, string, error) {
	var row struct {
		ID        uint
		Title     string
		EventDate time.Time
		Location  string
	}
	err := r.db.Table("events").
		Select("id, title, event_date, location").
		Where("id = ?", eventID).
		Scan(&row).Error
	if err != nil {
		return 0, "", time.Time{}, "", err
	}
	return row.ID, row.Title, row.EventDate, row.Location, nil
}

// GetGuestListRows joins invitations with their RSVP rows so the export
// carries the party size and note alongside the invitation status. Walk-in
// RSVPs with no invitation behind them are appended as extra rows.
func (r *repository) GetGuestListRows(eventID uint) ([]GuestListRow, error) {
	var rows []GuestListRow
	err := r.db.Table("invitations i").
		Select(`COALESCE(u.full_name, '') AS guest_name,
			i.invitee_email AS email,
			i.status AS status,
			COALESCE(rs.guests, 0) AS guests,
			COALESCE(rs.note, '') AS note,
			i.created_at AS invited_at,
			i.responded_at AS responded_at`).
		Joins("LEFT JOIN users u ON u.id = i.invitee_id").
		Joins(`LEFT JOIN rsvps rs ON rs.event_id = i.event_id
			AND (rs.user_id = i.invitee_id OR (rs.user_id IS NULL AND LOWER(rs.email) = LOWER(i.invitee_email)))`).
		Where("i.event_id = ?", eventID).
		Order("i.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var extras []GuestListRow
	err = r.db.Table("rsvps rs").
		Select(`COALESCE(u.full_name, '') AS guest_name,
			COALESCE(rs.email, u.email, '') AS email,
			rs.status AS status,
			rs.guests AS guests,
			COALESCE(rs.note, '') AS note,
			rs.created_at AS invited_at,
			rs.created_at AS responded_at`).
		Joins("LEFT JOIN users u ON u.id = rs.user_id").
		Joins(`LEFT JOIN invitations i ON i.event_id = rs.event_id
			AND (i.invitee_id = rs.user_id OR (rs.user_id IS NULL AND LOWER(i.invitee_email) = LOWER(rs.email)))`).
		Where("rs.event_id = ? AND i.id IS NULL", eventID).
		Order("rs.created_at ASC").
		Scan(&extras).Error
	if err != nil {
		return nil, err
	}

	return append(rows, extras...), nil
}
