package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/internal/invitation"
	"github.com/planbyte/event-planner-backend/internal/rsvp"
	"github.com/planbyte/event-planner-backend/middleware"
)

var ErrNotFound = errors.New("event not found")

type Service struct {
	Repo      ReportRepository
	EventRepo *event.Repository
	AuditSvc  auditlog.Service
}

func NewService(repo ReportRepository, eventRepo *event.Repository) *Service {
	return &Service{Repo: repo, EventRepo: eventRepo}
}

// ===========================
// 📊 Guest List Export
// ===========================

// ExportGuestList builds the guest list for an owned event and renders it in
// the requested format. Non-owners get a not-found, same as the event API.
func (s *Service) ExportGuestList(ctx context.Context, ident middleware.Identity, eventID uint, format string, ip string) ([]byte, string, string, error) {
	ev, err := s.EventRepo.GetEventByID(eventID)
	if err != nil || ev == nil || ev.OwnerID != ident.UserID {
		return nil, "", "", ErrNotFound
	}

	id, title, date, location, err := s.Repo.GetEventHeader(eventID)
	if err != nil {
		return nil, "", "", err
	}
	rows, err := s.Repo.GetGuestListRows(eventID)
	if err != nil {
		return nil, "", "", err
	}

	// Walk-in rows carry RSVP statuses; fold them into the invitation vocabulary.
	for i := range rows {
		switch rows[i].Status {
		case rsvp.StatusYes:
			rows[i].Status = invitation.StatusAccepted
		case rsvp.StatusNo:
			rows[i].Status = invitation.StatusDeclined
		}
	}

	report := GuestListReport{
		EventID:    id,
		EventTitle: title,
		EventDate:  date,
		Location:   location,
		Rows:       rows,
	}

	data, filename, contentType, err := Export(format, report)
	if err != nil {
		if s.AuditSvc != nil {
			s.AuditSvc.LogAction(ctx, &ident.UserID, &eventID, "REPORT_EXPORTED", map[string]interface{}{
				"format": format,
				"error":  err.Error(),
			}, ip, "failure")
		}
		return nil, "", "", err
	}

	if s.AuditSvc != nil {
		s.AuditSvc.LogAction(ctx, &ident.UserID, &eventID, "REPORT_EXPORTED", map[string]interface{}{
			"format": format,
			"rows":   len(rows),
		}, ip, "success")
	}
	fmt.Printf("📤 Exported guest list for event %d (%d rows, %s)\n", eventID, len(rows), format)

	return data, filename, contentType, nil
}
