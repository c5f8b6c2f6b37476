package auditlog_test

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
	"github.com/planbyte/event-planner-backend/internal/auth"
	"github.com/planbyte/event-planner-backend/internal/event"
)

func newTestService(t *testing.T) (auditlog.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &event.Event{}, &auditlog.AuditLog{}))
	return auditlog.NewService(auditlog.NewRepository(db)), db
}

func TestLogActionAndFetch(t *testing.T) {
	svc, db := newTestService(t)

	user := &auth.User{FullName: "Alice Liddell", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	ev := &event.Event{Title: "Housewarming", OwnerID: user.ID, EventDate: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(ev).Error)

	err := svc.LogAction(context.Background(), &user.ID, &ev.ID, "EVENT_CREATED",
		map[string]interface{}{"title": ev.Title}, "127.0.0.1", "success")
	require.NoError(t, err)

	page, err := svc.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{UserID: &user.ID})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	entry := page.Data[0]
	assert.Equal(t, "EVENT_CREATED", entry.Action)
	assert.Equal(t, "success", entry.Status)
	require.NotNil(t, entry.UserName)
	assert.Equal(t, "Alice Liddell", *entry.UserName)
	require.NotNil(t, entry.EventTitle)
	assert.Equal(t, "Housewarming", *entry.EventTitle)
	assert.Contains(t, entry.Details, "Housewarming")
}

func TestGetAuditLogsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	userA, userB := uint(1), uint(2)

	require.NoError(t, svc.LogAction(context.Background(), &userA, nil, "EVENT_CREATED", nil, "127.0.0.1", "success"))
	require.NoError(t, svc.LogAction(context.Background(), &userA, nil, "INVITATION_CREATED", nil, "127.0.0.1", "failure"))
	require.NoError(t, svc.LogAction(context.Background(), &userB, nil, "EVENT_CREATED", nil, "127.0.0.1", "success"))

	page, err := svc.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{UserID: &userA})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{UserID: &userA, Status: "failure"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "INVITATION_CREATED", page.Data[0].Action)

	page, err = svc.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{Action: "INVITATION"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestGetAuditLogsPagination(t *testing.T) {
	svc, _ := newTestService(t)
	user := uint(1)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.LogAction(context.Background(), &user, nil,
			fmt.Sprintf("ACTION_%d", i), nil, "127.0.0.1", "success"))
	}

	page, err := svc.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{UserID: &user, Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.TotalPages)

	last, err := svc.GetAuditLogs(context.Background(), auditlog.AuditLogFilter{UserID: &user, Limit: 2, Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Data, 1)
}
