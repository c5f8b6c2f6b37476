package event

import (
	"context"
	"errors"
	"time"

	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/notification"
	"github.com/planbyte/event-planner-backend/middleware"
	"github.com/planbyte/event-planner-backend/utils"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("not allowed to modify this event")
)

// Service wraps business logic for events
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service // Audit service for logging
	NotifSvc notification.Service
}

// NewService initializes a new Service with audit logging
func NewService(r *Repository, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:     r,
		AuditSvc: auditSvc,
	}
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(req *CreateEventRequest, ident middleware.Identity, ip string) (*Event, error) {
	// 🔄 Parse EventDate
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			nil,
			"EVENT_CREATED",
			map[string]interface{}{
				"title":      req.Title,
				"error":      "invalid event_date format",
				"event_date": req.EventDate,
			},
			ip,
			"failure",
		)
		return nil, errors.New("invalid event_date format. Use YYYY-MM-DD")
	}

	// 🔄 Parse EventTime (optional)
	var eventTimePtr *time.Time
	if req.EventTime != "" {
		parsedTime, err := time.Parse("15:04", req.EventTime)
		if err != nil {
			s.AuditSvc.LogAction(
				context.Background(),
				&ident.UserID,
				nil,
				"EVENT_CREATED",
				map[string]interface{}{
					"title":      req.Title,
					"error":      "invalid event_time format",
					"event_time": req.EventTime,
				},
				ip,
				"failure",
			)
			return nil, errors.New("invalid event_time format. Use HH:MM in 24-hour format")
		}
		normalizedTime := time.Date(0, 1, 1, parsedTime.Hour(), parsedTime.Minute(), 0, 0, time.UTC)
		eventTimePtr = &normalizedTime
	}

	event := &Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		EventTime:   eventTimePtr,
		Location:    req.Location,
		OwnerID:     ident.UserID,
	}

	err = s.Repo.CreateEvent(event)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			nil,
			"EVENT_CREATED",
			map[string]interface{}{
				"title":      req.Title,
				"event_date": req.EventDate,
				"location":   req.Location,
				"error":      err.Error(),
			},
			ip,
			"failure",
		)
		return nil, err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&event.ID,
		"EVENT_CREATED",
		map[string]interface{}{
			"event_id":   event.ID,
			"title":      event.Title,
			"event_date": event.EventDate.Format("2006-01-02"),
			"location":   event.Location,
		},
		ip,
		"success",
	)

	return event, nil
}

// ===========================
// 🔍 Get Event by ID
// Visible to the owner and anyone invited or RSVP'd. Everyone else sees not found.
func (s *Service) GetEventByID(id uint, ident middleware.Identity) (*Event, error) {
	event, err := s.Repo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if event.OwnerID != ident.UserID {
		participant, err := s.Repo.HasParticipant(id, ident.UserID, ident.Email)
		if err != nil {
			return nil, err
		}
		if !participant {
			return nil, ErrNotFound
		}
	}

	return event, nil
}

// ===========================
// 📄 List My Events
func (s *Service) ListMyEvents(ident middleware.Identity) ([]Event, error) {
	return s.Repo.ListEventsByOwner(ident.UserID)
}

// ===========================
// 📬 List Events I'm Attending
func (s *Service) ListInvitedEvents(ident middleware.Identity) ([]Event, error) {
	return s.Repo.ListInvitedEvents(ident.UserID, ident.Email)
}

// ===========================
// 🛠 Update Event (owner only, with audit logging)
func (s *Service) UpdateEvent(id uint, req *UpdateEventRequest, ident middleware.Identity, ip string) error {
	event, err := s.Repo.GetEventByID(id)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_UPDATED",
			map[string]interface{}{
				"event_id": id,
				"error":    "event not found",
			},
			ip,
			"failure",
		)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if event.OwnerID != ident.UserID {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_UPDATED",
			map[string]interface{}{
				"event_id":    id,
				"event_title": event.Title,
				"error":       "unauthorized access",
				"event_owner": event.OwnerID,
			},
			ip,
			"failure",
		)
		return ErrForbidden
	}

	// Store original values for audit log
	originalTitle := event.Title
	originalEventDate := event.EventDate.Format("2006-01-02")
	originalLocation := event.Location

	// 🔄 Parse and update EventDate
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_UPDATED",
			map[string]interface{}{
				"event_id":     id,
				"event_title":  event.Title,
				"error":        "invalid event_date format",
				"invalid_date": req.EventDate,
			},
			ip,
			"failure",
		)
		return errors.New("invalid event_date format. Use YYYY-MM-DD")
	}
	event.EventDate = eventDate

	// 🔄 Parse and update EventTime (or nil)
	if req.EventTime != "" {
		parsedTime, err := time.Parse("15:04", req.EventTime)
		if err != nil {
			s.AuditSvc.LogAction(
				context.Background(),
				&ident.UserID,
				&id,
				"EVENT_UPDATED",
				map[string]interface{}{
					"event_id":     id,
					"event_title":  event.Title,
					"error":        "invalid event_time format",
					"invalid_time": req.EventTime,
				},
				ip,
				"failure",
			)
			return errors.New("invalid event_time format. Use HH:MM in 24-hour format")
		}
		normalizedTime := time.Date(0, 1, 1, parsedTime.Hour(), parsedTime.Minute(), 0, 0, time.UTC)
		event.EventTime = &normalizedTime
	} else {
		event.EventTime = nil
	}

	// 🔄 Other fields
	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location

	err = s.Repo.UpdateEvent(event)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_UPDATED",
			map[string]interface{}{
				"event_id":    id,
				"event_title": originalTitle,
				"error":       err.Error(),
			},
			ip,
			"failure",
		)
		return err
	}

	// Log successful event update with changes
	changes := make(map[string]interface{})
	if originalTitle != event.Title {
		changes["title_changed"] = map[string]string{"from": originalTitle, "to": event.Title}
	}
	if originalEventDate != event.EventDate.Format("2006-01-02") {
		changes["event_date_changed"] = map[string]string{"from": originalEventDate, "to": event.EventDate.Format("2006-01-02")}
	}
	if originalLocation != event.Location {
		changes["location_changed"] = map[string]string{"from": originalLocation, "to": event.Location}
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&event.ID,
		"EVENT_UPDATED",
		map[string]interface{}{
			"event_id":    event.ID,
			"event_title": event.Title,
			"changes":     changes,
		},
		ip,
		"success",
	)

	// In-app notifications to everyone attached to the event
	if s.NotifSvc != nil {
		if userIDs, err := s.Repo.GetParticipantUserIDs(event.ID); err == nil && len(userIDs) > 0 {
			_ = s.NotifSvc.CreateInAppForUsers(context.Background(), userIDs,
				"Event Updated",
				event.Title+" updated for "+event.EventDate.Format("2006-01-02"),
				"event",
			)
		}
	}

	return nil
}

// ===========================
// ❌ Delete Event (owner only, cascades invitations and RSVPs)
func (s *Service) DeleteEvent(id uint, ident middleware.Identity, ip string) error {
	event, err := s.Repo.GetEventByID(id)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_DELETED",
			map[string]interface{}{
				"event_id": id,
				"error":    "event not found",
			},
			ip,
			"failure",
		)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if event.OwnerID != ident.UserID {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_DELETED",
			map[string]interface{}{
				"event_id":    id,
				"event_title": event.Title,
				"error":       "unauthorized access",
				"event_owner": event.OwnerID,
			},
			ip,
			"failure",
		)
		return ErrForbidden
	}

	// Store event details for audit log before deletion
	eventTitle := event.Title
	eventDate := event.EventDate.Format("2006-01-02")
	location := event.Location

	// Collect participants before the cascade removes them
	userIDs, _ := s.Repo.GetParticipantUserIDs(id)
	emails, _ := s.Repo.GetParticipantEmails(id)

	err = s.Repo.DeleteEvent(id, ident.UserID)
	if err != nil {
		s.AuditSvc.LogAction(
			context.Background(),
			&ident.UserID,
			&id,
			"EVENT_DELETED",
			map[string]interface{}{
				"event_id":    id,
				"event_title": eventTitle,
				"error":       err.Error(),
			},
			ip,
			"failure",
		)
		return err
	}

	s.AuditSvc.LogAction(
		context.Background(),
		&ident.UserID,
		&id,
		"EVENT_DELETED",
		map[string]interface{}{
			"event_id":    id,
			"event_title": eventTitle,
			"event_date":  eventDate,
			"location":    location,
		},
		ip,
		"success",
	)

	if s.NotifSvc != nil && len(userIDs) > 0 {
		_ = s.NotifSvc.CreateInAppForUsers(context.Background(), userIDs,
			"Event Cancelled",
			eventTitle+" has been removed",
			"event",
		)
	}

	if len(emails) > 0 {
		utils.SendBulkEmailsAsync(emails,
			"Event cancelled: "+eventTitle,
			eventTitle+" on "+eventDate+" has been cancelled by the host.",
		)
	}

	return nil
}
