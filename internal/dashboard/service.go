package dashboard

import (
	"time"

	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/internal/invitation"
	"github.com/planbyte/event-planner-backend/middleware"
)

// EventSummary is an owned event with its guest numbers
type EventSummary struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	EventDate       time.Time  `json:"event_date"`
	EventTime       *time.Time `json:"event_time,omitempty"`
	Location        string     `json:"location"`
	InvitedCount    int        `json:"invited_count"`   // invitations, all statuses
	ConfirmedGuests int        `json:"confirmed_guests"` // summed guests of yes RSVPs
}

// Buckets groups the caller's incoming invitations by status.
// Pending is its own bucket; an unanswered invitation is not a maybe.
type Buckets struct {
	Pending  []invitation.InvitationDetail `json:"pending"`
	Accepted []invitation.InvitationDetail `json:"accepted"`
	Maybe    []invitation.InvitationDetail `json:"maybe"`
	Declined []invitation.InvitationDetail `json:"declined"`
}

// Counts carries the bucket sizes for quick display
type Counts struct {
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Maybe    int `json:"maybe"`
	Declined int `json:"declined"`
}

// Summary is the dashboard payload
type Summary struct {
	MyEvents         []EventSummary          `json:"my_events"`
	SentPending      []invitation.Invitation `json:"sent_pending"`
	InvitationsForMe Buckets                 `json:"invitations_for_me"`
	Counts           Counts                  `json:"counts"`
}

// Service aggregates the dashboard view
type Service struct {
	EventRepo *event.Repository
	InvRepo   *invitation.Repository
}

func NewService(eventRepo *event.Repository, invRepo *invitation.Repository) *Service {
	return &Service{
		EventRepo: eventRepo,
		InvRepo:   invRepo,
	}
}

// ===========================
// 📊 Build the Dashboard Summary
func (s *Service) GetSummary(ident middleware.Identity) (*Summary, error) {
	summary := &Summary{
		MyEvents:    []EventSummary{},
		SentPending: []invitation.Invitation{},
		InvitationsForMe: Buckets{
			Pending:  []invitation.InvitationDetail{},
			Accepted: []invitation.InvitationDetail{},
			Maybe:    []invitation.InvitationDetail{},
			Declined: []invitation.InvitationDetail{},
		},
	}

	// Owned events with guest numbers
	events, err := s.EventRepo.ListEventsByOwner(ident.UserID)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		invited, _ := s.InvRepo.CountForEvent(ev.ID)
		summary.MyEvents = append(summary.MyEvents, EventSummary{
			ID:              ev.ID,
			Title:           ev.Title,
			EventDate:       ev.EventDate,
			EventTime:       ev.EventTime,
			Location:        ev.Location,
			InvitedCount:    invited,
			ConfirmedGuests: ev.GuestCount,
		})
	}

	// Invitations I sent that are still unanswered
	sent, err := s.InvRepo.ListPendingByInviter(ident.UserID)
	if err != nil {
		return nil, err
	}
	summary.SentPending = sent

	// Invitations addressed to me, bucketed by status
	mine, err := s.InvRepo.ListForInvitee(ident.UserID, ident.Email, "")
	if err != nil {
		return nil, err
	}
	for _, inv := range mine {
		switch inv.Status {
		case invitation.StatusAccepted:
			summary.InvitationsForMe.Accepted = append(summary.InvitationsForMe.Accepted, inv)
		case invitation.StatusMaybe:
			summary.InvitationsForMe.Maybe = append(summary.InvitationsForMe.Maybe, inv)
		case invitation.StatusDeclined:
			summary.InvitationsForMe.Declined = append(summary.InvitationsForMe.Declined, inv)
		default:
			summary.InvitationsForMe.Pending = append(summary.InvitationsForMe.Pending, inv)
		}
	}

	summary.Counts = Counts{
		Pending:  len(summary.InvitationsForMe.Pending),
		Accepted: len(summary.InvitationsForMe.Accepted),
		Maybe:    len(summary.InvitationsForMe.Maybe),
		Declined: len(summary.InvitationsForMe.Declined),
	}

	return summary, nil
}
