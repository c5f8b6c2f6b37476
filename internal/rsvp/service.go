package rsvp

import (
	"context"
	"errors"
	"log"

	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/middleware"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrInvalidStatus = errors.New("invalid status. Use yes, maybe or no")
)

// Service wraps business logic for RSVPs
type Service struct {
	Repo      *Repository
	EventRepo *event.Repository
	AuditSvc  auditlog.Service
}

func NewService(r *Repository, eventRepo *event.Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:      r,
		EventRepo: eventRepo,
		AuditSvc:  auditSvc,
	}
}

func validStatus(status string) bool {
	return status == StatusYes || status == StatusMaybe || status == StatusNo
}

// ===========================
// 🎯 Record or Replace an RSVP
func (s *Service) Upsert(req *UpsertRequest, ident middleware.Identity, ip string) (*RSVP, error) {
	if !validStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	if _, err := s.EventRepo.GetEventByID(req.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	guests := req.Guests
	if guests < 1 {
		guests = 1
	}

	row := &RSVP{
		EventID: req.EventID,
		Status:  req.Status,
		Guests:  guests,
		Note:    req.Note,
	}

	if err := s.Repo.UpsertByUser(row, ident.UserID); err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&req.EventID,
			"RSVP_SUBMITTED",
			map[string]interface{}{
				"event_id": req.EventID,
				"status":   req.Status,
				"error":    err.Error(),
			},
			ip,
			"failure",
		)
		return nil, err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&req.EventID,
		"RSVP_SUBMITTED",
		map[string]interface{}{
			"event_id": req.EventID,
			"status":   req.Status,
			"guests":   guests,
		},
		ip,
		"success",
	)

	return row, nil
}

// ===========================
// 🎯 Record the RSVP Behind an Invitation Response
// Fresh row with a single guest, matching the token flow.
func (s *Service) UpsertForInvitation(ctx context.Context, eventID uint, userID uint, email string, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	row := &RSVP{
		EventID: eventID,
		Status:  status,
		Guests:  1,
	}

	if userID != 0 {
		return s.Repo.UpsertByUser(row, userID)
	}
	return s.Repo.UpsertByEmail(row, email)
}

// ===========================
// 📄 List RSVPs for an Event (owner only)
func (s *Service) ListByEvent(eventID uint, ident middleware.Identity) ([]RSVP, error) {
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
// 📬 My RSVPs
func (s *Service) MyRSVPs(ident middleware.Identity) ([]RSVPDetail, error) {
	return s.Repo.ListForUser(ident.UserID, ident.Email)
}

// ===========================
// 🔗 Claim RSVPs After Sign-In
// Satisfies the auth claimer hook.
func (s *Service) ClaimForUser(ctx context.Context, userID uint, email string) error {
	claimed, err := s.Repo.ClaimForUser(userID, email)
	if err != nil {
		return err
	}
	if claimed > 0 {
		log.Printf("✅ claimed %d rsvp(s) for user %d", claimed, userID)
	}
	return nil
}
