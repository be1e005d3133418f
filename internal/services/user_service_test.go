package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/barreview/barreview-backend/internal/auth"
	"github.com/barreview/barreview-backend/internal/models"
)

func newUserService() (*UserService, *memUserRepo, *fakeMailer) {
	repo := newMemUserRepo()
	mailer := &fakeMailer{}
	return NewUserService(repo, mailer, "http://localhost:3000"), repo, mailer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "  alice  ", "pw1234")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, should be trimmed to alice", user.Username)
	}
	if user.Password == "pw1234" {
		t.Error("password must be stored hashed")
	}

	got, err := svc.Login(ctx, "alice", "pw1234")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got.ID != user.ID {
		t.Error("login returned a different user")
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, models.ErrBadCredential) {
		t.Errorf("wrong password: err = %v, want ErrBadCredential", err)
	}
	if _, err := svc.Login(ctx, "nobody", "pw1234"); !errors.Is(err, models.ErrNoSuchAccount) {
		t.Errorf("unknown account: err = %v, want ErrNoSuchAccount", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ab", "pw1234"); !models.IsValidation(err) {
		t.Errorf("short username: err = %v, want ValidationError", err)
	}
	if _, err := svc.Register(ctx, "  a  ", "pw1234"); !models.IsValidation(err) {
		t.Errorf("whitespace-padded short username: err = %v, want ValidationError", err)
	}
	if _, err := svc.Register(ctx, "alice", ""); !models.IsValidation(err) {
		t.Errorf("empty password: err = %v, want ValidationError", err)
	}

	if _, err := svc.Register(ctx, "alice", "pw1234"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other"); !errors.Is(err, models.ErrUsernameTaken) {
		t.Errorf("duplicate username: err = %v, want ErrUsernameTaken", err)
	}
}

func TestOAuthLoginCreatesAccountOnce(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	profile := &auth.Profile{ProviderID: "google-1", Email: "alice@example.com"}

	first, err := svc.LoginOAuth(ctx, "google", profile)
	if err != nil {
		t.Fatalf("LoginOAuth failed: %v", err)
	}
	if first.Username != "alice@example.com" {
		t.Errorf("username = %q, want the provider email", first.Username)
	}
	if first.GoogleID != "google-1" {
		t.Errorf("google id = %q, want google-1", first.GoogleID)
	}

	second, err := svc.LoginOAuth(ctx, "google", profile)
	if err != nil {
		t.Fatalf("second LoginOAuth failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("second social login should reuse the account, not create one")
	}
}

func TestOAuthAccountHasNoPasswordLogin(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.LoginOAuth(ctx, "google", &auth.Profile{ProviderID: "g-2", Email: "bob@example.com"}); err != nil {
		t.Fatalf("LoginOAuth failed: %v", err)
	}

	_, err := svc.Login(ctx, "bob@example.com", "anything")
	if !errors.Is(err, models.ErrSocialOnly) {
		t.Errorf("local login on social account: err = %v, want ErrSocialOnly", err)
	}
}

func TestFacebookLoginWithoutEmailSynthesizesUsername(t *testing.T) {
	svc, _, _ := newUserService()

	user, err := svc.LoginOAuth(context.Background(), "facebook", &auth.Profile{ProviderID: "fb-7"})
	if err != nil {
		t.Fatalf("LoginOAuth failed: %v", err)
	}
	if user.Username != "fb-7@facebook.com" {
		t.Errorf("username = %q, want fb-7@facebook.com", user.Username)
	}
	if user.FacebookID != "fb-7" {
		t.Errorf("facebook id = %q, want fb-7", user.FacebookID)
	}
}

func TestOAuthUnsupportedProvider(t *testing.T) {
	svc, _, _ := newUserService()

	_, err := svc.LoginOAuth(context.Background(), "myspace", &auth.Profile{ProviderID: "x"})
	if !models.IsValidation(err) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestFindByIDDegradesToAnonymous(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	// Malformed id: no error, no user.
	if user, err := svc.FindByID(ctx, "not-an-object-id"); err != nil || user != nil {
		t.Errorf("FindByID(garbage) = (%v, %v), want (nil, nil)", user, err)
	}

	// Deleted account: also (nil, nil).
	if user, err := svc.FindByID(ctx, "507f1f77bcf86cd799439011"); err != nil || user != nil {
		t.Errorf("FindByID(absent) = (%v, %v), want (nil, nil)", user, err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, repo, mailer := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "old-password")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "alice"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if mailer.sent != 1 || mailer.lastTo != "alice" {
		t.Fatalf("expected one mail to alice, got %d to %q", mailer.sent, mailer.lastTo)
	}

	// The plaintext token is only in the email; dig it out of the link.
	token := mailer.lastBody[strings.Index(mailer.lastBody, "/reset/")+len("/reset/"):]
	token = strings.Fields(token)[0]

	stored, _ := repo.FindByID(ctx, user.ID)
	if stored.ResetPasswordToken == token {
		t.Error("plaintext token must not be persisted")
	}
	if stored.ResetPasswordToken != auth.HashResetToken(token) {
		t.Error("stored token should be the sha256 of the emailed one")
	}
	if time.Until(stored.ResetPasswordExpires) > auth.ResetTokenTTL {
		t.Error("expiry further out than the TTL")
	}

	if err := svc.ResetPassword(ctx, token, "new-password"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "new-password"); err != nil {
		t.Errorf("login with the new password failed: %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "old-password"); !errors.Is(err, models.ErrBadCredential) {
		t.Errorf("old password should no longer work, got %v", err)
	}

	// Consumption clears the reset fields; the token is single-use.
	stored, _ = repo.FindByID(ctx, user.ID)
	if stored.ResetPasswordToken != "" || !stored.ResetPasswordExpires.IsZero() {
		t.Error("reset fields should be cleared after consumption")
	}
	if err := svc.ResetPassword(ctx, token, "again"); !models.IsValidation(err) {
		t.Errorf("reused token: err = %v, want ValidationError", err)
	}
}

func TestForgotPasswordUnknownAccountIsSilent(t *testing.T) {
	svc, _, mailer := newUserService()

	if err := svc.ForgotPassword(context.Background(), "ghost"); err != nil {
		t.Fatalf("ForgotPassword for unknown account should not error, got %v", err)
	}
	if mailer.sent != 0 {
		t.Error("no mail should be sent for an unknown account")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, repo, mailer := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "pw1234")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "alice"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	token := mailer.lastBody[strings.Index(mailer.lastBody, "/reset/")+len("/reset/"):]
	token = strings.Fields(token)[0]

	// Age the token past its window.
	stored, _ := repo.FindByID(ctx, user.ID)
	stored.ResetPasswordExpires = time.Now().Add(-time.Minute)
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := svc.ResetPassword(ctx, token, "new-password"); !models.IsValidation(err) {
		t.Errorf("expired token: err = %v, want ValidationError", err)
	}
	if _, err := svc.Login(ctx, "alice", "pw1234"); err != nil {
		t.Errorf("original password should still work, got %v", err)
	}
}
