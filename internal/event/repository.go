package event

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
// 🎯 Create Event
func (r *Repository) CreateEvent(e *Event) error {
	return r.DB.Create(e).Error
}

// ===========================
// 🔍 Get Event By ID with confirmed guest count
func (r *Repository) GetEventByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.First(&e, id).Error
	if err != nil {
		return nil, err
	}

	count, err := r.CountGuests(id)
	if err != nil {
		return nil, err
	}

	e.GuestCount = count
	return &e, nil
}

// ===========================
// 📄 List Events Owned By User
func (r *Repository) ListEventsByOwner(ownerID uint) ([]Event, error) {
	var events []Event

	err := r.DB.
		Where("owner_id = ?", ownerID).
		Order("event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		count, _ := r.CountGuests(events[i].ID)
		events[i].GuestCount = count
	}

	return events, nil
}

// ===========================
// 📬 List Events the User Is Attending
// Events where the user holds an accepted or maybe invitation.
func (r *Repository) ListInvitedEvents(userID uint, email string) ([]Event, error) {
	var events []Event

	err := r.DB.
		Table("events").
		Select("DISTINCT events.*").
		Joins("JOIN invitations ON invitations.event_id = events.id").
		Where("(invitations.invitee_id = ? OR LOWER(invitations.invitee_email) = LOWER(?))", userID, email).
		Where("invitations.status IN ?", []string{"accepted", "maybe"}).
		Order("events.event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		count, _ := r.CountGuests(events[i].ID)
		events[i].GuestCount = count
	}

	return events, nil
}

// ===========================
// 🛠 Update Event
func (r *Repository) UpdateEvent(e *Event) error {
	return r.DB.Save(e).Error
}

// ===========================
// ❌ Delete Event with its invitations and RSVPs
func (r *Repository) DeleteEvent(id uint, ownerID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM invitations WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rsvps WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.
			Where("id = ? AND owner_id = ?", id, ownerID).
			Delete(&Event{}).Error
	})
}

// ===========================
// 🔢 Count Confirmed Guests for an Event
// Sums the guests column across yes RSVPs.
func (r *Repository) CountGuests(eventID uint) (int, error) {
	var total int64
	err := r.DB.Table("rsvps").
		Select("COALESCE(SUM(guests), 0)").
		Where("event_id = ? AND status = ?", eventID, "yes").
		Scan(&total).Error
	return int(total), err
}

// ===========================
// 🔎 Check Whether a User Participates in an Event
// True when the user holds an invitation or an RSVP, by id or email.
func (r *Repository) HasParticipant(eventID uint, userID uint, email string) (bool, error) {
	var count int64
	err := r.DB.Table("invitations").
		Where("event_id = ? AND (invitee_id = ? OR LOWER(invitee_email) = LOWER(?))", eventID, userID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.DB.Table("rsvps").
		Where("event_id = ? AND (user_id = ? OR LOWER(email) = LOWER(?))", eventID, userID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ===========================
// 👥 Participant User IDs for an Event
// Distinct signed-in users attached to the event through RSVPs or invitations.
func (r *Repository) GetParticipantUserIDs(eventID uint) ([]uint, error) {
	var ids []uint

	err := r.DB.Table("rsvps").
		Distinct("user_id").
		Where("event_id = ? AND user_id IS NOT NULL", eventID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	var inviteeIDs []uint
	err = r.DB.Table("invitations").
		Distinct("invitee_id").
		Where("event_id = ? AND invitee_id IS NOT NULL", eventID).
		Pluck("invitee_id", &inviteeIDs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range inviteeIDs {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}

	return ids, nil
}

// ===========================
// 📧 Participant Emails for an Event
// Every invited address, claimed or not.
func (r *Repository) GetParticipantEmails(eventID uint) ([]string, error) {
	var emails []string
	err := r.DB.Table("invitations").
		Distinct("invitee_email").
		Where("event_id = ?", eventID).
		Pluck("invitee_email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
