package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbyte/event-planner-backend/internal/auth"
)

func TestConsumerInviteNotifiesExistingAccount(t *testing.T) {
	svc, db := newTestService(t)
	require.NoError(t, db.AutoMigrate(&auth.User{}))

	alice := &auth.User{FullName: "Alice Liddell", Email: "alice@example.com", PasswordHash: "x", Status: "active"}
	require.NoError(t, db.Create(alice).Error)

	consumer := NewConsumer(svc, auth.NewRepository(db))
	consumer.handle(context.Background(), invitationMessage{
		Type:         "invitation.created",
		InvitationID: 1,
		EventID:      42,
		EventTitle:   "Housewarming",
		InviterID:    99,
		InviteeEmail: "alice@example.com",
		Token:        "tok-1",
	})

	// The invitee already has an account, so the bell rings too
	items, err := svc.ListInAppByUser(context.Background(), alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Message, "Housewarming")

	// An unregistered address only gets the email
	consumer.handle(context.Background(), invitationMessage{
		Type:         "invitation.created",
		InvitationID: 2,
		EventID:      42,
		EventTitle:   "Housewarming",
		InviterID:    99,
		InviteeEmail: "stranger@example.com",
		Token:        "tok-2",
	})

	var count int64
	db.Model(&InAppNotification{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
