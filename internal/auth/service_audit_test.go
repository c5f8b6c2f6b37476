// External test package: importing auditlog from an in-package auth test
// would re-create the auth → auditlog → middleware → auth import cycle.
package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planbyte/event-planner-backend/config"
	"github.com/planbyte/event-planner-backend/internal/auditlog"
	"github.com/planbyte/event-planner-backend/internal/auth"
)

type failingClaimer struct{}

func (failingClaimer) ClaimForUser(ctx context.Context, userID uint, email string) error {
	return errors.New("reconciliation store unavailable")
}

func TestLoginAuditsClaimFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &auditlog.AuditLog{}))

	cfg := &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
	svc := auth.NewService(auth.NewRepository(db), cfg)
	svc.SetAuditService(auditlog.NewService(auditlog.NewRepository(db)))
	svc.SetClaimers(failingClaimer{})

	require.NoError(t, svc.Register(auth.RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Password: "pw",
	}))

	// A broken claimer never blocks the login, but it leaves a trail
	_, user, err := svc.Login(auth.LoginInput{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	var entries []auditlog.AuditLog
	require.NoError(t, db.Where("action = ? AND status = ?", "INVITATION_CLAIMED", "failure").Find(&entries).Error)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, user.ID, *entries[0].UserID)
}
