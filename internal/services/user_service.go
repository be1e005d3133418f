package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/barreview/barreview-backend/internal/auth"
	"github.com/barreview/barreview-backend/internal/models"
	"github.com/barreview/barreview-backend/internal/repository"
)

const minUsernameLength = 3

// UserService owns registration, local and social login, and the password
// reset flow.
type UserService struct {
	users   repository.UserRepository
	mailer  Mailer
	baseURL string
}

func NewUserService(users repository.UserRepository, mailer Mailer, baseURL string) *UserService {
	return &UserService{users: users, mailer: mailer, baseURL: baseURL}
}

// Register creates a local account with a hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return nil, models.NewValidationError("username", "must be at least 3 characters long")
	}
	if password == "" {
		return nil, models.NewValidationError("password", "is required")
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, models.NewUpstreamError("find user", err)
	}
	if existing != nil {
		return nil, models.ErrUsernameTaken
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, models.NewUpstreamError("hash password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Password:  hashed,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, models.NewUpstreamError("insert user", err)
	}
	return user, nil
}

// Login authenticates a local account. Social-only accounts cannot log in
// with a password.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, models.NewUpstreamError("find user", err)
	}
	if user == nil {
		return nil, models.ErrNoSuchAccount
	}
	if !user.HasPassword() {
		return nil, models.ErrSocialOnly
	}
	if !auth.VerifyPassword(password, user.Password) {
		return nil, models.ErrBadCredential
	}
	return user, nil
}

// LoginOAuth finds the account linked to the provider identity, creating one
// on first login. Facebook does not always return an email, in which case a
// synthesized one is used as the username.
func (s *UserService) LoginOAuth(ctx context.Context, provider string, profile *auth.Profile) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch provider {
	case "google":
		user, err = s.users.FindByGoogleID(ctx, profile.ProviderID)
	case "facebook":
		user, err = s.users.FindByFacebookID(ctx, profile.ProviderID)
	default:
		return nil, models.NewValidationError("provider", "unsupported login provider")
	}
	if err != nil {
		return nil, models.NewUpstreamError("find user", err)
	}
	if user != nil {
		return user, nil
	}

	username := profile.Email
	if username == "" {
		username = fmt.Sprintf("%s@facebook.com", profile.ProviderID)
	}

	now := time.Now()
	user = &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
	}
	switch provider {
	case "google":
		user.GoogleID = profile.ProviderID
	case "facebook":
		user.FacebookID = profile.ProviderID
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, models.NewUpstreamError("insert user", err)
	}
	return user, nil
}

// FindByID rehydrates a user from a session identifier. Returns (nil, nil)
// for a malformed id or a deleted account so the caller degrades to
// anonymous instead of failing the request.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.users.FindByID(ctx, objectID)
}

// ForgotPassword issues a reset token and emails a reset link. It reveals
// nothing about whether the account exists: unknown usernames return nil.
func (s *UserService) ForgotPassword(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return models.NewUpstreamError("find user", err)
	}
	if user == nil {
		return nil
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return models.NewUpstreamError("generate reset token", err)
	}

	user.ResetPasswordToken = auth.HashResetToken(token)
	user.ResetPasswordExpires = time.Now().Add(auth.ResetTokenTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return models.NewUpstreamError("save reset token", err)
	}

	resetURL := fmt.Sprintf("%s/reset/%s", s.baseURL, token)
	body := fmt.Sprintf("You requested a password reset.\n\nOpen this link to choose a new password:\n%s\n\nThe link expires in 10 minutes. If you did not request this, ignore this email.", resetURL)
	if err := s.mailer.Send(ctx, user.Username, "Bar Review password reset", body); err != nil {
		return models.NewUpstreamError("send reset email", err)
	}

	log.Printf("password reset email sent to %s", user.Username)
	return nil
}

// ResetPassword consumes a reset token and stores a new password hash.
// Consuming clears both reset fields.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return models.NewValidationError("password", "is required")
	}

	user, err := s.users.FindByResetToken(ctx, auth.HashResetToken(token))
	if err != nil {
		return models.NewUpstreamError("find user", err)
	}
	if user == nil || time.Now().After(user.ResetPasswordExpires) {
		return models.NewValidationError("token", "is invalid or has expired")
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return models.NewUpstreamError("hash password", err)
	}

	user.Password = hashed
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = time.Time{}
	if err := s.users.Update(ctx, user); err != nil {
		return models.NewUpstreamError("save password", err)
	}
	return nil
}
