package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/internal/invitation"
	"github.com/planbyte/event-planner-backend/internal/rsvp"
	"github.com/planbyte/event-planner-backend/middleware"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&event.Event{}, &invitation.Invitation{}, &rsvp.RSVP{}))
	return NewService(event.NewRepository(db), invitation.NewRepository(db)), db
}

func TestGetSummary(t *testing.T) {
	svc, db := newTestService(t)
	me := middleware.Identity{UserID: 1, Email: "me@example.com"}

	// An event I host, with two invitations and one confirmed RSVP
	hosted := &event.Event{
		Title:     "Housewarming",
		OwnerID:   me.UserID,
		EventDate: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(hosted).Error)
	require.NoError(t, db.Create(&invitation.Invitation{
		EventID: hosted.ID, InviterID: me.UserID,
		InviteeEmail: "alice@example.com", Status: invitation.StatusAccepted, Token: "tok-a",
	}).Error)
	require.NoError(t, db.Create(&invitation.Invitation{
		EventID: hosted.ID, InviterID: me.UserID,
		InviteeEmail: "bob@example.com", Status: invitation.StatusPending, Token: "tok-b",
	}).Error)
	uid := uint(7)
	require.NoError(t, db.Create(&rsvp.RSVP{
		EventID: hosted.ID, UserID: &uid, Status: rsvp.StatusYes, Guests: 3,
	}).Error)

	// Events others invited me to, one per status
	statuses := []string{
		invitation.StatusPending,
		invitation.StatusAccepted,
		invitation.StatusMaybe,
		invitation.StatusDeclined,
	}
	for i, status := range statuses {
		ev := &event.Event{
			Title:     fmt.Sprintf("Party %d", i),
			OwnerID:   100,
			EventDate: time.Date(2026, 11, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.Create(ev).Error)
		require.NoError(t, db.Create(&invitation.Invitation{
			EventID: ev.ID, InviterID: 100,
			InviteeEmail: "me@example.com", Status: status,
			Token: fmt.Sprintf("tok-me-%d", i),
		}).Error)
	}

	summary, err := svc.GetSummary(me)
	require.NoError(t, err)

	require.Len(t, summary.MyEvents, 1)
	assert.Equal(t, 2, summary.MyEvents[0].InvitedCount)
	assert.Equal(t, 3, summary.MyEvents[0].ConfirmedGuests)

	require.Len(t, summary.SentPending, 1)
	assert.Equal(t, "bob@example.com", summary.SentPending[0].InviteeEmail)

	// Unanswered invitations sit in their own bucket, not under maybe
	assert.Len(t, summary.InvitationsForMe.Pending, 1)
	assert.Len(t, summary.InvitationsForMe.Accepted, 1)
	assert.Len(t, summary.InvitationsForMe.Maybe, 1)
	assert.Len(t, summary.InvitationsForMe.Declined, 1)
	assert.Equal(t, Counts{Pending: 1, Accepted: 1, Maybe: 1, Declined: 1}, summary.Counts)
}

func TestGetSummaryEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	summary, err := svc.GetSummary(middleware.Identity{UserID: 5, Email: "empty@example.com"})
	require.NoError(t, err)

	assert.Empty(t, summary.MyEvents)
	assert.Empty(t, summary.SentPending)
	assert.NotNil(t, summary.InvitationsForMe.Pending)
	assert.Equal(t, Counts{}, summary.Counts)
}
