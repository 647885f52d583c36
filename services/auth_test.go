package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefhany/go-eventbook/apperr"
	"github.com/youssefhany/go-eventbook/models"
)

func newTestAuthService() (*AuthService, *memUserStore, *memImageStore, *memMailer) {
	users := newMemUserStore()
	images := &memImageStore{}
	mailer := &memMailer{}
	svc := NewAuthService(users, images, mailer)
	svc.now = func() time.Time { return testNow }
	return svc, users, images, mailer
}

func TestSignupCreatesUnverifiedUserAndMails(t *testing.T) {
	svc, users, _, mailer := newTestAuthService()

	u, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	stored, err := users.GetByEmail(context.Background(), "sara@example.com")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.NotEmpty(t, stored.VerificationToken)
	assert.Equal(t, testNow.Add(verificationTTL), stored.VerificationExp)
	assert.NotEqual(t, "hunter22", stored.Password) // hashed, never plain

	require.Len(t, mailer.sent, 1)
	assert.True(t, strings.HasPrefix(mailer.sent[0], u.Email+":"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	in := SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"}

	_, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestSignupSurvivesMailFailure(t *testing.T) {
	svc, users, _, mailer := newTestAuthService()
	mailer.err = errors.New("smtp down")

	_, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = users.GetByEmail(context.Background(), "sara@example.com")
	assert.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	svc, users, _, _ := newTestAuthService()

	u, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(context.Background(), u.VerificationToken))

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Empty(t, stored.VerificationToken) // single use

	// the consumed token does not work twice
	err = svc.VerifyEmail(context.Background(), u.VerificationToken)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	u, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(verificationTTL + time.Minute) }
	err = svc.VerifyEmail(context.Background(), u.VerificationToken)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc, _, _, _ := newTestAuthService()

	_, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), "sara@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "sara@example.com", u.Email)

	// wrong password and unknown email answer identically
	_, _, err = svc.Login(context.Background(), "sara@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.EqualError(t, err, "invalid credentials")

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.EqualError(t, err, "invalid credentials")
}

func TestCreateAdminIsPreVerified(t *testing.T) {
	svc, users, _, mailer := newTestAuthService()

	u, err := svc.CreateAdmin(context.Background(), SignupInput{Name: "Boss", Email: "boss@example.com", Password: "hunter22"})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, models.RoleAdmin, stored.Role)
	assert.Empty(t, mailer.sent) // no verification mail for admins
}

func TestChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc, _, _, _ := newTestAuthService()

	u, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "wrong", "newpass99")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "hunter22", "newpass99"))

	_, _, err = svc.Login(context.Background(), "sara@example.com", "newpass99")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "sara@example.com", "hunter22")
	assert.Error(t, err)
}

func TestSetProfilePictureDeletesOldBestEffort(t *testing.T) {
	svc, users, images, _ := newTestAuthService()

	u, err := svc.Signup(context.Background(), SignupInput{Name: "Sara", Email: "sara@example.com", Password: "hunter22"})
	require.NoError(t, err)

	first, err := svc.SetProfilePicture(context.Background(), u.ID, strings.NewReader("png-bytes"), ".png")
	require.NoError(t, err)
	assert.Empty(t, images.deleted)

	// deleting the stale image fails, but the request still succeeds
	images.delErr = errors.New("disk error")
	second, err := svc.SetProfilePicture(context.Background(), u.ID, strings.NewReader("png-bytes"), ".png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{first}, images.deleted)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, second, stored.ProfilePicture)
}
