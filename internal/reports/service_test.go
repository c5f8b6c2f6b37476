package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planbyte/event-planner-backend/internal/auth"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/internal/invitation"
	"github.com/planbyte/event-planner-backend/internal/rsvp"
	"github.com/planbyte/event-planner-backend/middleware"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &event.Event{}, &invitation.Invitation{}, &rsvp.RSVP{}))
	return NewService(NewRepository(db), event.NewRepository(db)), db
}

func TestExportGuestList(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}

	alice := &auth.User{FullName: "Alice Liddell", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(alice).Error)

	ev := &event.Event{
		Title:     "Housewarming",
		OwnerID:   owner.UserID,
		EventDate: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Location:  "42 Elm St",
	}
	require.NoError(t, db.Create(ev).Error)

	// A claimed invitation with its RSVP, and an unanswered one
	responded := time.Now()
	require.NoError(t, db.Create(&invitation.Invitation{
		EventID: ev.ID, InviterID: owner.UserID,
		InviteeEmail: "alice@example.com", InviteeID: &alice.ID,
		Status: invitation.StatusAccepted, Token: "tok-a", RespondedAt: &responded,
	}).Error)
	require.NoError(t, db.Create(&rsvp.RSVP{
		EventID: ev.ID, UserID: &alice.ID, Status: rsvp.StatusYes, Guests: 2, Note: "bringing cake",
	}).Error)
	require.NoError(t, db.Create(&invitation.Invitation{
		EventID: ev.ID, InviterID: owner.UserID,
		InviteeEmail: "bob@example.com",
		Status:       invitation.StatusPending, Token: "tok-b",
	}).Error)

	// A walk-in RSVP from someone never invited
	walkin := "carol@example.com"
	require.NoError(t, db.Create(&rsvp.RSVP{
		EventID: ev.ID, Email: &walkin, Status: rsvp.StatusNo, Guests: 1,
	}).Error)

	data, filename, contentType, err := svc.ExportGuestList(context.Background(), owner, ev.ID, FormatCSV, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, "guest_list_")

	out := string(data)
	assert.Contains(t, out, "Alice Liddell")
	assert.Contains(t, out, "bringing cake")
	assert.Contains(t, out, "bob@example.com")
	assert.Contains(t, out, "pending")
	// Walk-in statuses are folded into the invitation vocabulary
	assert.Contains(t, out, "carol@example.com")
	assert.Contains(t, out, "declined")
}

func TestExportGuestListOwnerOnly(t *testing.T) {
	svc, db := newTestService(t)

	ev := &event.Event{
		Title:     "Housewarming",
		OwnerID:   1,
		EventDate: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(ev).Error)

	stranger := middleware.Identity{UserID: 9, Email: "mallory@example.com"}
	_, _, _, err := svc.ExportGuestList(context.Background(), stranger, ev.ID, FormatCSV, "127.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, _, err = svc.ExportGuestList(context.Background(), middleware.Identity{UserID: 1}, 999, FormatCSV, "127.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}
