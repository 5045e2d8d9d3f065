package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pratyushashukla/IP-BE/db"
	"github.com/pratyushashukla/IP-BE/forms"
	"github.com/pratyushashukla/IP-BE/models"
	"golang.org/x/crypto/bcrypt"
)

// resetCodeTTL bounds how long a password-reset code stays usable.
const resetCodeTTL = 15 * time.Minute

// AuthService owns the account side of the session lifecycle: signup,
// login (which turns the session on), logout (which turns it off) and
// the password-reset code flow.
type AuthService struct {
	users  db.UserStore
	tokens *TokenService
	mailer Mailer
	now    func() time.Time
}

func NewAuthService(users db.UserStore, tokens *TokenService, mailer Mailer) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, form forms.SignupForm) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		slog.Error("failed to check email existence", "error", err, "op", "EmailExists")
		return models.User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:  form.Username,
		Firstname: form.Firstname,
		Lastname:  form.Lastname,
		Email:     email,
		Password:  string(hash),
		Phone:     form.Phone,
		Address:   form.Address,
		Role:      "staff",
		Status:    "ACTIVE",
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		slog.Error("failed to create user", "error", err, "op", "Create")
		return models.User{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return created, nil
}

// Login verifies the password, turns the session on and issues the
// initial credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		slog.Error("failed to load user for login", "error", err, "op", "FindByEmail")
		return models.User{}, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.MarkActive(ctx, user.ID, now); err != nil {
		slog.Error("failed to activate session", "error", err, "user_id", user.ID, "op", "MarkActive")
		return models.User{}, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.users.TouchActivity(ctx, user.ID, now); err != nil {
		slog.Error("failed to stamp login activity", "error", err, "user_id", user.ID, "op", "TouchActivity")
		return models.User{}, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Logout flips the session off. Any credential presented afterwards is
// rejected regardless of its own validity.
func (s *AuthService) Logout(ctx context.Context, id models.UserID) error {
	if err := s.users.MarkInactive(ctx, id); err != nil {
		slog.Error("failed to end session", "error", err, "user_id", id, "op", "MarkInactive")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// ForgotPassword stores a fresh reset code on the user record and mails
// it out. Resend reuses the same path.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return ErrUnknownUser
	}
	if err != nil {
		slog.Error("failed to load user for password reset", "error", err, "op", "FindByEmail")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	code := uuid.NewString()
	expire := s.now().Add(resetCodeTTL)
	if err := s.users.SetResetCode(ctx, user.ID, code, expire); err != nil {
		slog.Error("failed to store reset code", "error", err, "user_id", user.ID, "op", "SetResetCode")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.mailer.SendResetCode(user.Email, code); err != nil {
		slog.Error("failed to send reset code", "error", err, "user_id", user.ID)
		return err
	}
	return nil
}

// VerifyCode checks a reset code against the stored one and its expiry.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return ErrUnknownUser
	}
	if err != nil {
		slog.Error("failed to load user for code verification", "error", err, "op", "FindByEmail")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if user.ResetPasswordToken == "" || user.ResetPasswordToken != code {
		return ErrResetCodeInvalid
	}
	if user.ResetPasswordExpire == nil || s.now().After(*user.ResetPasswordExpire) {
		return ErrResetCodeInvalid
	}
	return nil
}

// ResetPassword completes the flow: re-verifies the code, writes the new
// hash and clears the reset fields.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.VerifyCode(ctx, email, code); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		slog.Error("failed to update password", "error", err, "user_id", user.ID, "op", "UpdatePassword")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.users.ClearResetCode(ctx, user.ID); err != nil {
		slog.Error("failed to clear reset code", "error", err, "user_id", user.ID, "op", "ClearResetCode")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
