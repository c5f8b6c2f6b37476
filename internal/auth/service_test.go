package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/planbyte/event-planner-backend/config"
)

type recordingClaimer struct {
	userID uint
	email  string
	calls  int
}

func (r *recordingClaimer) ClaimForUser(ctx context.Context, userID uint, email string) error {
	r.userID = userID
	r.email = email
	r.calls++
	return nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
	return NewService(NewRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	err := svc.Register(RegisterInput{
		FullName: "Alice Liddell",
		Email:    "Alice@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	pair, user, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice Liddell", user.FullName)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	err := svc.Register(RegisterInput{FullName: "Alice", Email: "not-an-email", Password: "x"})
	assert.Error(t, err)

	err = svc.Register(RegisterInput{FullName: "   ", Email: "alice@example.com", Password: "x"})
	assert.Error(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Register(RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Password: "pw",
	}))

	err := svc.Register(RegisterInput{
		FullName: "Other Alice", Email: "ALICE@example.com", Password: "pw2",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Register(RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Password: "right",
	}))

	_, _, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.Error(t, err)

	_, _, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.Error(t, err)
}

func TestLoginRunsClaimers(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Register(RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Password: "pw",
	}))

	invClaimer := &recordingClaimer{}
	rsvpClaimer := &recordingClaimer{}
	svc.SetClaimers(invClaimer, rsvpClaimer)

	_, user, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, 1, invClaimer.calls)
	assert.Equal(t, 1, rsvpClaimer.calls)
	assert.Equal(t, user.ID, invClaimer.userID)
	assert.Equal(t, "alice@example.com", invClaimer.email)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Register(RegisterInput{
		FullName: "Alice", Email: "alice@example.com", Password: "pw",
	}))

	pair, _, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	access, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = svc.Refresh("garbage-token")
	assert.Error(t, err)

	// Access tokens are signed with a different secret and must not refresh
	_, err = svc.Refresh(pair.AccessToken)
	assert.Error(t, err)
}
