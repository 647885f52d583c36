package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/apperr"
	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/store"
	"github.com/youssefhany/go-eventbook/utils"
)

// verificationTTL is how long a signup verification token stays valid.
const verificationTTL = 24 * time.Hour

// Mailer dispatches the signup verification mail. Failures are logged and
// never fail the signup itself.
type Mailer interface {
	SendVerification(to, token string) error
}

// SMTPMailer sends through the SMTP helper in utils.
type SMTPMailer struct{}

func (SMTPMailer) SendVerification(to, token string) error {
	return utils.SendVerificationEmail(to, token)
}

// AuthService implements signup, login, email verification and profile
// management.
type AuthService struct {
	users  store.UserStore
	images store.ImageStore
	mailer Mailer
	now    func() time.Time
}

func NewAuthService(users store.UserStore, images store.ImageStore, mailer Mailer) *AuthService {
	return &AuthService{users: users, images: images, mailer: mailer, now: time.Now}
}

// SignupInput is the validated signup payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates an unverified user and dispatches the verification mail.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperr.Conflict("email already in use")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err, "database error")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "could not hash password")
	}

	u := &models.User{
		Name:              in.Name,
		Email:             in.Email,
		Password:          hash,
		Role:              models.RoleUser,
		VerificationToken: uuid.NewString(),
		VerificationExp:   s.now().Add(verificationTTL),
		CreatedAt:         s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.Internal(err, "could not create user")
	}

	if err := s.mailer.SendVerification(u.Email, u.VerificationToken); err != nil {
		logrus.WithError(err).WithField("email", u.Email).Warn("failed to send verification email")
	}
	return u, nil
}

// VerifyEmail consumes a single-use verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.users.GetByVerificationToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.InvalidState("invalid verification token")
	}
	if err != nil {
		return apperr.Internal(err, "database error")
	}
	if u.VerificationExp.Before(s.now()) {
		return apperr.InvalidState("verification token has expired")
	}
	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return apperr.Internal(err, "could not verify user")
	}
	return nil
}

// Login checks credentials and issues a JWT. Both unknown email and wrong
// password answer the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, "", apperr.Internal(err, "database error")
	}

	if err := utils.CheckPassword(u.Password, password); err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}

	token, err := utils.GenerateJWT(u.ID.Hex(), u.Role)
	if err != nil {
		return nil, "", apperr.Internal(err, "could not generate token")
	}
	return u, token, nil
}

// CreateAdmin creates a pre-verified administrator. Callers gate this on the
// admin role.
func (s *AuthService) CreateAdmin(ctx context.Context, in SignupInput) (*models.User, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, apperr.Conflict("email already in use")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err, "database error")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "could not hash password")
	}

	u := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   hash,
		Role:       models.RoleAdmin,
		IsVerified: true,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.Internal(err, "could not create user")
	}
	return u, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, newPassword string) error {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Internal(err, "database error")
	}

	if err := utils.CheckPassword(u.Password, current); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err, "could not hash password")
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return apperr.Internal(err, "could not update password")
	}
	return nil
}

// Profile returns the caller's user document.
func (s *AuthService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "database error")
	}
	return u, nil
}

// SetProfilePicture stores the uploaded image and points the user at it.
// Deleting the previous picture is best effort; a failure there never fails
// the request.
func (s *AuthService) SetProfilePicture(ctx context.Context, userID primitive.ObjectID, r io.Reader, ext string) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.NotFound("user not found")
	}
	if err != nil {
		return "", apperr.Internal(err, "database error")
	}

	uri, err := s.images.Store(r, ext)
	if err != nil {
		return "", apperr.Internal(err, "could not store image")
	}
	if err := s.users.SetProfilePicture(ctx, userID, uri); err != nil {
		return "", apperr.Internal(err, "could not update profile picture")
	}

	if u.ProfilePicture != "" {
		if err := s.images.Delete(u.ProfilePicture); err != nil {
			logrus.WithError(err).Warn("failed to delete stale profile picture")
		}
	}
	return uri, nil
}
