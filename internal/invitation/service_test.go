package invitation

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
	"github.com/planbyte/event-planner-backend/internal/rsvp"
	"github.com/planbyte/event-planner-backend/middleware"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&event.Event{}, &Invitation{}, &rsvp.RSVP{}, &auditlog.AuditLog{}))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	eventRepo := event.NewRepository(db)
	svc := NewService(NewRepository(db), eventRepo, auditSvc)
	svc.RSVPSvc = rsvp.NewService(rsvp.NewRepository(db), eventRepo, auditSvc)
	return svc, db
}

func seedEvent(t *testing.T, db *gorm.DB, ownerID uint) *event.Event {
	t.Helper()
	ev := &event.Event{
		Title:     "Housewarming",
		OwnerID:   ownerID,
		EventDate: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Location:  "42 Elm St",
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func TestCreateInvitations(t *testing.T) {
	svc, _ := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, svc.Repo.DB, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com", "Bob@Example.com", "not-an-email"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	assert.Equal(t, []string{"not-an-email"}, result.Invalid)
	assert.Empty(t, result.Duplicates)

	for _, inv := range result.Created {
		assert.Equal(t, StatusPending, inv.Status)
		assert.NotEmpty(t, inv.Token)
		assert.Nil(t, inv.InviteeID)
	}
	// Emails are normalized to lowercase
	assert.Equal(t, "bob@example.com", result.Created[1].InviteeEmail)

	// Re-inviting only an already-invited address is rejected outright
	_, err = svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"ALICE@example.com"},
	}, owner, "127.0.0.1")
	assert.ErrorIs(t, err, ErrDuplicateInvitation)

	// In a mixed batch the duplicate lands in its own bucket
	again, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"ALICE@example.com", "carol@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	assert.Len(t, again.Created, 1)
	assert.Equal(t, "carol@example.com", again.Created[0].InviteeEmail)
	assert.Equal(t, []string{"alice@example.com"}, again.Duplicates)
}

func TestCreateRequiresOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ev := seedEvent(t, svc.Repo.DB, 1)

	stranger := middleware.Identity{UserID: 2, Email: "other@example.com"}
	_, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, stranger, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRespondByToken(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	token := result.Created[0].Token

	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}
	inv, err := svc.RespondByToken(token, "yes", guest, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, StatusAccepted, inv.Status)
	require.NotNil(t, inv.RespondedAt)
	require.NotNil(t, inv.InviteeID)
	assert.Equal(t, guest.UserID, *inv.InviteeID)

	// The answer is mirrored into the attendance table
	var row rsvp.RSVP
	require.NoError(t, db.Where("event_id = ?", ev.ID).First(&row).Error)
	assert.Equal(t, rsvp.StatusYes, row.Status)
	assert.Equal(t, 1, row.Guests)
	require.NotNil(t, row.UserID)
	assert.Equal(t, guest.UserID, *row.UserID)
}

func TestRespondChangesEarlierAnswer(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	token := result.Created[0].Token

	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}
	_, err = svc.RespondByToken(token, "yes", guest, "127.0.0.1")
	require.NoError(t, err)

	inv, err := svc.RespondByToken(token, "maybe", guest, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusMaybe, inv.Status)

	// Still a single attendance row, now reflecting the new answer
	var rows []rsvp.RSVP
	require.NoError(t, db.Where("event_id = ?", ev.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, rsvp.StatusMaybe, rows[0].Status)
}

func TestRespondSameAnswerIsNoOp(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	token := result.Created[0].Token

	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}
	first, err := svc.RespondByToken(token, "yes", guest, "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, first.RespondedAt)
	firstRespondedAt := *first.RespondedAt

	// Answering "yes" again changes nothing and tells nobody
	second, err := svc.RespondByToken(token, "yes", guest, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, second.Status)
	require.NotNil(t, second.RespondedAt)
	assert.True(t, second.RespondedAt.Equal(firstRespondedAt))

	var auditCount int64
	require.NoError(t, db.Model(&auditlog.AuditLog{}).
		Where("action = ?", "INVITATION_RESPONDED").Count(&auditCount).Error)
	assert.EqualValues(t, 1, auditCount)

	var rows []rsvp.RSVP
	require.NoError(t, db.Where("event_id = ?", ev.ID).Find(&rows).Error)
	assert.Len(t, rows, 1)
}

func TestRespondInvalidChoice(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)

	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}
	_, err = svc.RespondByToken(result.Created[0].Token, "definitely", guest, "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidChoice)

	// The invitation stays untouched
	inv, err := svc.Repo.GetByID(result.Created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, inv.Status)
	assert.Nil(t, inv.RespondedAt)
}

func TestRespondByIDRequiresInvitee(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	id := result.Created[0].ID

	intruder := middleware.Identity{UserID: 9, Email: "mallory@example.com"}
	_, err = svc.RespondByID(id, "yes", intruder, "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)

	// The addressed guest gets through, matched by email before any claim ran
	guest := middleware.Identity{UserID: 7, Email: "Alice@Example.com"}
	inv, err := svc.RespondByID(id, "no", guest, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, inv.Status)
}

func TestResendOnlyPending(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	id := result.Created[0].ID

	require.NoError(t, svc.Resend(id, owner, "127.0.0.1"))

	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}
	_, err = svc.RespondByID(id, "yes", guest, "127.0.0.1")
	require.NoError(t, err)

	err = svc.Resend(id, owner, "127.0.0.1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestCancelInvitation(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	id := result.Created[0].ID

	stranger := middleware.Identity{UserID: 2, Email: "other@example.com"}
	assert.ErrorIs(t, svc.Cancel(id, stranger, "127.0.0.1"), ErrForbidden)

	require.NoError(t, svc.Cancel(id, owner, "127.0.0.1"))
	_, err = svc.Repo.GetByID(id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancelOnlyPending(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	result, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)
	id := result.Created[0].ID

	guest := middleware.Identity{UserID: 7, Email: "alice@example.com"}
	_, err = svc.RespondByID(id, "yes", guest, "127.0.0.1")
	require.NoError(t, err)

	// An answered invitation cannot be cancelled away
	assert.ErrorIs(t, svc.Cancel(id, owner, "127.0.0.1"), ErrAlreadyAnswered)

	inv, err := svc.Repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, inv.Status)
}

func TestClaimForUser(t *testing.T) {
	svc, db := newTestService(t)
	owner := middleware.Identity{UserID: 1, Email: "host@example.com"}
	ev := seedEvent(t, db, owner.UserID)

	_, err := svc.Create(&CreateInvitationRequest{
		EventID: ev.ID,
		Emails:  []string{"alice@example.com"},
	}, owner, "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.ClaimForUser(context.Background(), 7, "ALICE@example.com"))

	var inv Invitation
	require.NoError(t, db.Where("event_id = ?", ev.ID).First(&inv).Error)
	require.NotNil(t, inv.InviteeID)
	assert.Equal(t, uint(7), *inv.InviteeID)

	// Running the claim again is a no-op
	claimed, err := svc.Repo.ClaimForUser(8, "alice@example.com")
	require.NoError(t, err)
	assert.Zero(t, claimed)
}
