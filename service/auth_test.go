package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pratyushashukla/IP-BE/forms"
	"github.com/pratyushashukla/IP-BE/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	codes []string
}

func (f *fakeMailer) SendResetCode(toEmail, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, toEmail)
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeMailer) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codes) == 0 {
		return ""
	}
	return f.codes[len(f.codes)-1]
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore, *fakeMailer) {
	t.Helper()

	store := newFakeUserStore()
	tokens, err := NewTokenService([]byte("test-signing-key"))
	require.NoError(t, err)
	mailer := &fakeMailer{}
	return NewAuthService(store, tokens, mailer), store, mailer
}

func seedAccount(t *testing.T, store *fakeUserStore, email, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:       models.NewUserID(),
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	store.put(user)
	return user
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	auth, store, _ := newAuthFixture(t)
	seedAccount(t, store, "taken@facility.test", "secret123")

	_, err := auth.Signup(context.Background(), forms.SignupForm{
		Username: "jdoe",
		Lastname: "Doe",
		Email:    "Taken@facility.test",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_ActivatesSessionAndIssuesCredential(t *testing.T) {
	t.Parallel()

	auth, store, _ := newAuthFixture(t)
	user := seedAccount(t, store, "staff@facility.test", "secret123")

	_, token, err := auth.Login(context.Background(), "staff@facility.test", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored := store.get(user.ID)
	require.True(t, stored.TokenStatus)
	require.NotNil(t, stored.TokenCreatedAt)
	require.NotNil(t, stored.LastActivityTime)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	auth, store, _ := newAuthFixture(t)
	seedAccount(t, store, "staff@facility.test", "secret123")

	_, _, err := auth.Login(context.Background(), "staff@facility.test", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	auth, _, _ := newAuthFixture(t)

	_, _, err := auth.Login(context.Background(), "nobody@facility.test", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_EndsSession(t *testing.T) {
	t.Parallel()

	auth, store, _ := newAuthFixture(t)
	user := seedAccount(t, store, "staff@facility.test", "secret123")

	_, _, err := auth.Login(context.Background(), "staff@facility.test", "secret123")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), user.ID))

	stored := store.get(user.ID)
	require.False(t, stored.TokenStatus)
	require.Nil(t, stored.TokenCreatedAt)
	require.Nil(t, stored.LastActivityTime)
}

func TestPasswordReset_FullFlow(t *testing.T) {
	t.Parallel()

	auth, store, mailer := newAuthFixture(t)
	user := seedAccount(t, store, "staff@facility.test", "old-secret")

	require.NoError(t, auth.ForgotPassword(context.Background(), "staff@facility.test"))
	require.Equal(t, []string{"staff@facility.test"}, mailer.sent)

	code := mailer.lastCode()
	require.NotEmpty(t, code)

	require.NoError(t, auth.VerifyCode(context.Background(), "staff@facility.test", code))
	require.NoError(t, auth.ResetPassword(context.Background(), "staff@facility.test", code, "new-secret"))

	// the reset code is single-use
	err := auth.VerifyCode(context.Background(), "staff@facility.test", code)
	require.ErrorIs(t, err, ErrResetCodeInvalid)

	stored := store.get(user.ID)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new-secret")))
}

func TestVerifyCode_Expired(t *testing.T) {
	t.Parallel()

	auth, store, _ := newAuthFixture(t)
	user := seedAccount(t, store, "staff@facility.test", "secret123")

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, store.SetResetCode(context.Background(), user.ID, "code-123", expired))

	err := auth.VerifyCode(context.Background(), "staff@facility.test", "code-123")
	require.ErrorIs(t, err, ErrResetCodeInvalid)
}

func TestVerifyCode_WrongCode(t *testing.T) {
	t.Parallel()

	auth, store, _ := newAuthFixture(t)
	user := seedAccount(t, store, "staff@facility.test", "secret123")

	require.NoError(t, store.SetResetCode(context.Background(), user.ID, "code-123", time.Now().Add(10*time.Minute)))

	err := auth.VerifyCode(context.Background(), "staff@facility.test", "other-code")
	require.ErrorIs(t, err, ErrResetCodeInvalid)
}
