package rsvp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/event"
	"github.com/planbyte/event-planner-backend/middleware"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&event.Event{}, &RSVP{}, &auditlog.AuditLog{}))

	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), event.NewRepository(db), auditSvc), db
}

func seedEvent(t *testing.T, db *gorm.DB, ownerID uint) *event.Event {
	t.Helper()
	ev := &event.Event{
		Title:     "Game Night",
		OwnerID:   ownerID,
		EventDate: time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func TestUpsertValidation(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)
	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}

	_, err := svc.Upsert(&UpsertRequest{EventID: ev.ID, Status: "definitely"}, guest, "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Upsert(&UpsertRequest{EventID: 999, Status: StatusYes}, guest, "127.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertClampsGuests(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)
	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}

	row, err := svc.Upsert(&UpsertRequest{EventID: ev.ID, Status: StatusYes, Guests: 0}, guest, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, row.Guests)

	row, err = svc.Upsert(&UpsertRequest{EventID: ev.ID, Status: StatusYes, Guests: -3}, guest, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, row.Guests)
}

func TestUpsertReplacesEarlierAnswer(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)
	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}

	_, err := svc.Upsert(&UpsertRequest{EventID: ev.ID, Status: StatusYes, Guests: 4, Note: "bringing cake"}, guest, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.Upsert(&UpsertRequest{EventID: ev.ID, Status: StatusNo}, guest, "127.0.0.1")
	require.NoError(t, err)

	var rows []RSVP
	require.NoError(t, db.Where("event_id = ?", ev.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, StatusNo, rows[0].Status)
	assert.Equal(t, 1, rows[0].Guests)
	assert.Empty(t, rows[0].Note)
}

func TestUpsertForInvitationByEmail(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)

	// Guest answered from the email link without an account
	require.NoError(t, svc.UpsertForInvitation(context.Background(), ev.ID, 0, "alice@example.com", StatusMaybe))

	var row RSVP
	require.NoError(t, db.Where("event_id = ?", ev.ID).First(&row).Error)
	assert.Nil(t, row.UserID)
	require.NotNil(t, row.Email)
	assert.Equal(t, "alice@example.com", *row.Email)
	assert.Equal(t, 1, row.Guests)
}

func TestClaimForUser(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)

	require.NoError(t, svc.UpsertForInvitation(context.Background(), ev.ID, 0, "alice@example.com", StatusYes))
	require.NoError(t, svc.ClaimForUser(context.Background(), 7, "ALICE@example.com"))

	var row RSVP
	require.NoError(t, db.Where("event_id = ?", ev.ID).First(&row).Error)
	require.NotNil(t, row.UserID)
	assert.Equal(t, uint(7), *row.UserID)
	assert.Nil(t, row.Email)

	// Nothing left to claim on a second run
	claimed, err := svc.Repo.ClaimForUser(8, "alice@example.com")
	require.NoError(t, err)
	assert.Zero(t, claimed)
}

func TestListByEventOwnerOnly(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)
	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}

	_, err := svc.Upsert(&UpsertRequest{EventID: ev.ID, Status: StatusYes}, guest, "127.0.0.1")
	require.NoError(t, err)

	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	rows, err := svc.ListByEvent(ev.ID, owner)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	// Non-owners see the same answer as a missing event
	_, err = svc.ListByEvent(ev.ID, guest)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMyRSVPsMatchesByEmail(t *testing.T) {
	svc, db := newTestService(t)
	ev := seedEvent(t, db, 1)

	require.NoError(t, svc.UpsertForInvitation(context.Background(), ev.ID, 0, "alice@example.com", StatusYes))

	details, err := svc.MyRSVPs(middleware.Identity{UserID: 7, Email: "Alice@Example.com"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Game Night", details[0].EventTitle)
}
