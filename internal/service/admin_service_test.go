package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"submission-service/internal/auth"
	"submission-service/internal/hashing"
	"submission-service/internal/models"
	"submission-service/internal/repository/memory"
	"submission-service/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newAdminService(t *testing.T, clock *testClock) (*AdminService, *memory.AdminRepository) {
	t.Helper()
	hasher, err := hashing.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	repo := memory.NewAdminRepository()
	tokens := auth.NewTokenManager(testSecret, 5*24*time.Hour).WithClock(clock.Now)
	return NewAdminService(repo, hasher, tokens, zap.NewNop(), WithClock(clock.Now)), repo
}

const adminBody = `{"email":"  Owner@Site.IO ","password":"hunter22"}`

func TestRegisterAdmin_OnlyOnce(t *testing.T) {
	s, repo := newAdminService(t, newTestClock())
	ctx := context.Background()

	summary, err := s.RegisterAdmin(ctx, []byte(adminBody))
	require.NoError(t, err)
	assert.Equal(t, "owner@site.io", summary.Email)

	stored, err := repo.GetByEmail(ctx, "owner@site.io")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.PasswordHash)

	for _, body := range []string{
		adminBody,
		`{"email":"someone@else.io","password":"different1"}`,
	} {
		_, err := s.RegisterAdmin(ctx, []byte(body))
		assert.ErrorIs(t, err, ErrAdminExists)
	}
}

func TestRegisterAdmin_ValidationFirst(t *testing.T) {
	s, _ := newAdminService(t, newTestClock())

	_, err := s.RegisterAdmin(context.Background(), []byte(`{"email":"bad","password":"x","role":"root"}`))
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("role"))
}

func TestLogin_CredentialParity(t *testing.T) {
	s, _ := newAdminService(t, newTestClock())
	ctx := context.Background()

	_, err := s.RegisterAdmin(ctx, []byte(adminBody))
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, []byte(`{"email":"owner@site.io","password":"wrong-pass"}`))
	_, unknownEmail := s.Login(ctx, []byte(`{"email":"nobody@site.io","password":"hunter22"}`))

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	clock := newTestClock()
	s, _ := newAdminService(t, clock)
	ctx := context.Background()

	_, err := s.RegisterAdmin(ctx, []byte(adminBody))
	require.NoError(t, err)

	session, err := s.Login(ctx, []byte(`{"email":"OWNER@site.io","password":"hunter22"}`))
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(5*24*time.Hour), session.ExpiresAt)

	principal, err := s.VerifyToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "owner@site.io", principal.SubjectEmail)

	clock.Advance(5*24*time.Hour + time.Second)
	_, err = s.VerifyToken(ctx, session.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.True(t, IsUnauthorized(err))
}

func TestVerifyToken_Rejections(t *testing.T) {
	clock := newTestClock()
	s, repo := newAdminService(t, clock)
	ctx := context.Background()

	_, err := s.RegisterAdmin(ctx, []byte(adminBody))
	require.NoError(t, err)
	session, err := s.Login(ctx, []byte(adminBody))
	require.NoError(t, err)

	_, err = s.VerifyToken(ctx, "")
	assert.ErrorIs(t, err, ErrTokenMissing)

	_, err = s.VerifyToken(ctx, "abc.def.ghi")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	admin, err := repo.GetByEmail(ctx, "owner@site.io")
	require.NoError(t, err)
	repo.Delete(admin.ID)

	_, err = s.VerifyToken(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
	assert.Equal(t, "subject_not_found", RejectionReason(err))
}

func TestSessionDoesNotExposeHash(t *testing.T) {
	s, _ := newAdminService(t, newTestClock())
	summary, err := s.RegisterAdmin(context.Background(), []byte(adminBody))
	require.NoError(t, err)
	assert.Equal(t, models.AdminSummary{Email: "owner@site.io"}, *summary)
}

func TestRegisterAdmin_MultiBytePasswords(t *testing.T) {
	s, _ := newAdminService(t, newTestClock())
	ctx := context.Background()

	_, err := s.RegisterAdmin(ctx, []byte(`{"email":"owner@site.io","password":"`+strings.Repeat("é", 40)+`"}`))
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "got %v", err)
	assert.True(t, verrs.Has("password"))
	assert.NotErrorIs(t, err, ErrInternal)

	body := `{"email":"owner@site.io","password":"` + strings.Repeat("é", 36) + `"}`
	_, err = s.RegisterAdmin(ctx, []byte(body))
	require.NoError(t, err)

	_, err = s.Login(ctx, []byte(body))
	require.NoError(t, err)
}
