package rsvp

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Upsert RSVP for a Signed-In User
// Delete then insert so repeated answers replace the earlier row.
func (r *Repository) UpsertByUser(row *RSVP, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("event_id = ? AND user_id = ?", row.EventID, userID).
			Delete(&RSVP{}).Error; err != nil {
			return err
		}
		row.UserID = &userID
		row.Email = nil
		return tx.Create(row).Error
	})
}

// ===========================
// 🎯 Upsert RSVP for an Email-Only Guest
func (r *Repository) UpsertByEmail(row *RSVP, email string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("event_id = ? AND LOWER(email) = LOWER(?)", row.EventID, email).
			Delete(&RSVP{}).Error; err != nil {
			return err
		}
		row.UserID = nil
		row.Email = &email
		return tx.Create(row).Error
	})
}

// ===========================
// 📄 List RSVPs for an Event
func (r *Repository) ListByEvent(eventID uint) ([]RSVP, error) {
	var rows []RSVP
	err := r.DB.
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ===========================
// 📬 List a User's RSVPs with Event Summaries
func (r *Repository) ListForUser(userID uint, email string) ([]RSVPDetail, error) {
	var details []RSVPDetail
	err := r.DB.
		Table("rsvps").
		Select(`rsvps.*,
			events.title as event_title,
			events.event_date as event_date,
			events.event_time as event_time,
			events.location as event_location`).
		Joins("JOIN events ON events.id = rsvps.event_id").
		Where("(rsvps.user_id = ? OR (rsvps.user_id IS NULL AND LOWER(rsvps.email) = LOWER(?)))", userID, email).
		Order("events.event_date ASC").
		Scan(&details).Error
	return details, err
}

// ===========================
// 🔗 Claim Email RSVPs for a Signed-In User
// Rewrites email rows to the user's id. Safe to run repeatedly.
func (r *Repository) ClaimForUser(userID uint, email string) (int64, error) {
	res := r.DB.Exec(
		"UPDATE rsvps SET user_id = ?, email = NULL WHERE user_id IS NULL AND LOWER(email) = LOWER(?)",
		userID, email,
	)
	return res.RowsAffected, res.Error
}

// ===========================
// 🔢 Sum Guests for an Event by Status
func (r *Repository) SumGuests(eventID uint, status string) (int, error) {
	var total int64
	err := r.DB.Table("rsvps").
		Select("COALESCE(SUM(guests), 0)").
		Where("event_id = ? AND status = ?", eventID, status).
		Scan(&total).Error
	return int(total), err
}
