package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/middleware"
	"github.com/planbyte/event-planner-backend/utils"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("invitation not found")
	ErrForbidden           = errors.New("not allowed to manage this invitation")
	ErrInvalidChoice       = errors.New("invalid choice. Use yes, maybe or no")
	ErrAlreadyAnswered     = errors.New("invitation has already been answered")
	ErrDuplicateInvitation = errors.New("invitation already sent to this email")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RSVPWriter records the attendance row that mirrors an invitation response
type RSVPWriter interface {
	UpsertForInvitation(ctx context.Context, eventID uint, userID uint, email string, status string) error
}

// Service wraps business logic for invitations
type Service struct {
	Repo      *Repository
	EventRepo *event.Repository
	AuditSvc  auditlog.Service
	RSVPSvc   RSVPWriter // set after construction to avoid a wiring cycle
}

func NewService(r *Repository, eventRepo *event.Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:      r,
		EventRepo: eventRepo,
		AuditSvc:  auditSvc,
	}
}

// choiceToStatus maps the RSVP vocabulary onto invitation statuses
func choiceToStatus(choice string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "yes", StatusAccepted:
		return StatusAccepted, nil
	case StatusMaybe:
		return StatusMaybe, nil
	case "no", StatusDeclined:
		return StatusDeclined, nil
	default:
		return "", ErrInvalidChoice
	}
}

// statusToRSVP maps an invitation status back to the rsvps vocabulary
func statusToRSVP(status string) string {
	switch status {
	case StatusAccepted:
		return "yes"
	case StatusMaybe:
		return "maybe"
	default:
		return "no"
	}
}

// ===========================
// 🎯 Invite Guests by Email
// Owner only. Each valid, not-yet-invited address gets a tokenized invitation.
func (s *Service) Create(req *CreateInvitationRequest, ident middleware.Identity, ip string) (*CreateResult, error) {
	ev, err := s.EventRepo.GetEventByID(req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ev.OwnerID != ident.UserID {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&req.EventID,
			"INVITATION_CREATED",
			map[string]interface{}{
				"event_id": req.EventID,
				"error":    "unauthorized access",
			},
			ip,
			"failure",
		)
		return nil, ErrForbidden
	}

	result := &CreateResult{}
	for _, raw := range req.Emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if !emailRe.MatchString(email) {
			result.Invalid = append(result.Invalid, raw)
			continue
		}

		// One invitation per guest per event
		if _, err := s.Repo.FindByEventAndEmail(req.EventID, email); err == nil {
			result.Duplicates = append(result.Duplicates, email)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		inv := &Invitation{
			EventID:      req.EventID,
			InviterID:    ident.UserID,
			InviteeEmail: email,
			Status:       StatusPending,
			Token:        uuid.NewString(),
		}
		if err := s.Repo.Create(inv); err != nil {
			// The unique index on (event_id, invitee_email) can still fire
			// between the lookup above and this insert.
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
				result.Duplicates = append(result.Duplicates, email)
				continue
			}
			s.AuditSvc.LogAction(
				context.Background(),
				&ident.UserID,
				&req.EventID,
				"INVITATION_CREATED",
				map[string]interface{}{
					"event_id":      req.EventID,
					"invitee_email": email,
					"error":         err.Error(),
				},
				ip,
				"failure",
			)
			return nil, err
		}

		result.Created = append(result.Created, *inv)
		s.publish("invitation.created", inv, ev.Title)

		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&req.EventID,
			"INVITATION_CREATED",
			map[string]interface{}{
				"invitation_id": inv.ID,
				"event_id":      req.EventID,
				"event_title":   ev.Title,
				"invitee_email": email,
			},
			ip,
			"success",
		)
	}

	// Every requested address was already invited
	if len(result.Created) == 0 && len(result.Invalid) == 0 && len(result.Duplicates) > 0 {
		return nil, ErrDuplicateInvitation
	}

	return result, nil
}

// ===========================
// 📄 List Invitations For an Event (owner only)
func (s *Service) ListForEvent(eventID uint, ident middleware.Identity) ([]Invitation, error) {
	ev, err := s.EventRepo.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ev.OwnerID != ident.UserID {
		return nil, ErrNotFound
	}
	return s.Repo.ListByEvent(eventID)
}

// ===========================
// 📬 List My Invitations
func (s *Service) ListMyInvitations(ident middleware.Identity, status string) ([]InvitationDetail, error) {
	return s.Repo.ListForInvitee(ident.UserID, ident.Email, status)
}

// ===========================
// 🔍 Look Up an Invitation by Token
// Token links land here before the guest responds.
func (s *Service) GetByToken(token string) (*InvitationDetail, error) {
	inv, err := s.Repo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ev, err := s.EventRepo.GetEventByID(inv.EventID)
	if err != nil {
		return nil, err
	}

	return &InvitationDetail{
		Invitation:    *inv,
		EventTitle:    ev.Title,
		EventDate:     ev.EventDate,
		EventTime:     ev.EventTime,
		EventLocation: ev.Location,
	}, nil
}

// ===========================
// ✅ Respond via Token Link
func (s *Service) RespondByToken(token string, choice string, ident middleware.Identity, ip string) (*Invitation, error) {
	inv, err := s.Repo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.respond(inv, choice, ident, ip)
}

// ===========================
// ✅ Respond by Invitation ID
// Only the invitee may respond, matched by claimed id or email.
func (s *Service) RespondByID(id uint, choice string, ident middleware.Identity, ip string) (*Invitation, error) {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !s.isInvitee(inv, ident) {
		return nil, ErrForbidden
	}

	return s.respond(inv, choice, ident, ip)
}

// isInvitee reports whether the caller is the addressed guest
func (s *Service) isInvitee(inv *Invitation, ident middleware.Identity) bool {
	if inv.InviteeID != nil && *inv.InviteeID == ident.UserID {
		return true
	}
	return strings.EqualFold(inv.InviteeEmail, ident.Email)
}

// respond applies a choice to an invitation and mirrors it into rsvps.
// Changing an earlier answer is allowed.
func (s *Service) respond(inv *Invitation, choice string, ident middleware.Identity, ip string) (*Invitation, error) {
	status, err := choiceToStatus(choice)
	if err != nil {
		return nil, err
	}

	// Re-applying the current answer is a no-op: nothing to write,
	// nothing to tell the inviter about.
	if inv.Status == status {
		return inv, nil
	}

	now := time.Now()
	inv.Status = status
	inv.RespondedAt = &now
	if inv.InviteeID == nil {
		inv.InviteeID = &ident.UserID
	}

	if err := s.Repo.Update(inv); err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&inv.EventID,
			"INVITATION_RESPONDED",
			map[string]interface{}{
				"invitation_id": inv.ID,
				"event_id":      inv.EventID,
				"status":        status,
				"error":         err.Error(),
			},
			ip,
			"failure",
		)
		return nil, err
	}

	// Mirror the answer into the attendance table
	if s.RSVPSvc != nil {
		if err := s.RSVPSvc.UpsertForInvitation(context.Background(), inv.EventID, ident.UserID, ident.Email, statusToRSVP(status)); err != nil {
			log.Printf("⚠️ failed to record rsvp for invitation %d: %v", inv.ID, err)
		}
	}

	eventTitle := ""
	if ev, err := s.EventRepo.GetEventByID(inv.EventID); err == nil {
		eventTitle = ev.Title
	}
	s.publish("invitation.responded", inv, eventTitle)

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&inv.EventID,
		"INVITATION_RESPONDED",
		map[string]interface{}{
			"invitation_id": inv.ID,
			"event_id":      inv.EventID,
			"event_title":   eventTitle,
			"status":        status,
		},
		ip,
		"success",
	)

	return inv, nil
}

// ===========================
// 🔁 Resend an Invitation Email (owner only, pending only)
func (s *Service) Resend(id uint, ident middleware.Identity, ip string) error {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if inv.InviterID != ident.UserID {
		return ErrForbidden
	}
	if inv.Status != StatusPending {
		return ErrAlreadyAnswered
	}

	eventTitle := ""
	if ev, err := s.EventRepo.GetEventByID(inv.EventID); err == nil {
		eventTitle = ev.Title
	}
	s.publish("invitation.resent", inv, eventTitle)

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&inv.EventID,
		"INVITATION_RESENT",
		map[string]interface{}{
			"invitation_id": inv.ID,
			"invitee_email": inv.InviteeEmail,
		},
		ip,
		"success",
	)

	return nil
}

// ===========================
// ❌ Cancel an Invitation (owner only, pending only)
// Answered invitations stay: deleting one would erase the guest's response.
func (s *Service) Cancel(id uint, ident middleware.Identity, ip string) error {
	inv, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if inv.InviterID != ident.UserID {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&inv.EventID,
			"INVITATION_CANCELLED",
			map[string]interface{}{
				"invitation_id": inv.ID,
				"error":         "unauthorized access",
			},
			ip,
			"failure",
		)
		return ErrForbidden
	}
	if inv.Status != StatusPending {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&inv.EventID,
			"INVITATION_CANCELLED",
			map[string]interface{}{
				"invitation_id": inv.ID,
				"status":        inv.Status,
				"error":         "already answered",
			},
			ip,
			"failure",
		)
		return ErrAlreadyAnswered
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&inv.EventID,
		"INVITATION_CANCELLED",
		map[string]interface{}{
			"invitation_id": inv.ID,
			"invitee_email": inv.InviteeEmail,
		},
		ip,
		"success",
	)

	return nil
}

// ===========================
// 🔗 Claim Invitations After Sign-In
// Satisfies the auth claimer hook.
func (s *Service) ClaimForUser(ctx context.Context, userID uint, email string) error {
	claimed, err := s.Repo.ClaimForUser(userID, email)
	if err != nil {
		return err
	}
	if claimed > 0 {
		log.Printf("✅ claimed %d invitation(s) for user %d", claimed, userID)
	}
	return nil
}

// publish pushes an invitation change onto the broker, best effort
func (s *Service) publish(msgType string, inv *Invitation, eventTitle string) {
	msg := Message{
		Type:         msgType,
		InvitationID: inv.ID,
		EventID:      inv.EventID,
		EventTitle:   eventTitle,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
		Status:       inv.Status,
		Token:        inv.Token,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if err := utils.PublishMessage(context.Background(), fmt.Sprintf("event-%d", inv.EventID), payload); err != nil {
		log.Printf("⚠️ failed to publish %s for invitation %d: %v", msgType, inv.ID, err)
	}
}
