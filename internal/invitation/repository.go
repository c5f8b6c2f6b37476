package invitation

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
// 🎯 Create Invitation
func (r *Repository) Create(inv *Invitation) error {
	return r.DB.Create(inv).Error
}

// ===========================
// 🔍 Get Invitation By ID
func (r *Repository) GetByID(id uint) (*Invitation, error) {
	var inv Invitation
	err := r.DB.First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ===========================
// 🔍 Get Invitation By Token
func (r *Repository) GetByToken(token string) (*Invitation, error) {
	var inv Invitation
	err := r.DB.Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ===========================
// 🔎 Find Invitation for an Event and Email
func (r *Repository) FindByEventAndEmail(eventID uint, email string) (*Invitation, error) {
	var inv Invitation
	err := r.DB.
		Where("event_id = ? AND LOWER(invitee_email) = LOWER(?)", eventID, email).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ===========================
// 📄 List Invitations For an Event (newest first)
func (r *Repository) ListByEvent(eventID uint) ([]Invitation, error) {
	var invs []Invitation
	err := r.DB.
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// ===========================
// 📬 List Invitations Addressed To a User
// Matches by claimed user id or by email for unclaimed rows.
func (r *Repository) ListForInvitee(userID uint, email string, status string) ([]InvitationDetail, error) {
	query := r.DB.
		Table("invitations").
		Select(`invitations.*,
			events.title as event_title,
			events.event_date as event_date,
			events.event_time as event_time,
			events.location as event_location`).
		Joins("JOIN events ON events.id = invitations.event_id").
		Where("(invitations.invitee_id = ? OR (invitations.invitee_id IS NULL AND LOWER(invitations.invitee_email) = LOWER(?)))", userID, email)

	if status != "" {
		query = query.Where("invitations.status = ?", status)
	}

	var details []InvitationDetail
	err := query.Order("invitations.created_at DESC").Scan(&details).Error
	return details, err
}

// ===========================
// 🛠 Update Invitation
func (r *Repository) Update(inv *Invitation) error {
	return r.DB.Save(inv).Error
}

// ===========================
// ❌ Delete Invitation
func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Invitation{}, id).Error
}

// ===========================
// 🔗 Claim Unclaimed Invitations for a Signed-In User
// Attaches rows addressed to the email but not yet linked to any account.
// Safe to run repeatedly.
func (r *Repository) ClaimForUser(userID uint, email string) (int64, error) {
	res := r.DB.Exec(
		"UPDATE invitations SET invitee_id = ? WHERE invitee_id IS NULL AND LOWER(invitee_email) = LOWER(?)",
		userID, email,
	)
	return res.RowsAffected, res.Error
}

// ===========================
// 📤 List Pending Invitations Sent By a User
func (r *Repository) ListPendingByInviter(inviterID uint) ([]Invitation, error) {
	var invs []Invitation
	err := r.DB.
		Where("inviter_id = ? AND status = ?", inviterID, StatusPending).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// ===========================
// 🔢 Total Invitations For an Event (all statuses)
func (r *Repository) CountForEvent(eventID uint) (int, error) {
	var count int64
	err := r.DB.Model(&Invitation{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return int(count), err
}

// ===========================
// 🔢 Status Counts For an Event
func (r *Repository) CountByStatus(eventID uint) (map[string]int, error) {
	type row struct {
		Status string
		Count  int
	}
	var rows []row
	err := r.DB.Table("invitations").
		Select("status, COUNT(*) as count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int{
		StatusPending:  0,
		StatusAccepted: 0,
		StatusMaybe:    0,
		StatusDeclined: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
