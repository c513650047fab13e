package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"warbler/apperrors"
	"warbler/models"
	"warbler/repositories"
)

// SignupParams carries the fields of a new account.
type SignupParams struct {
	Username string
	Email    string
	Password string
	// ImageURL falls back to models.DefaultImageURL when empty.
	ImageURL string
}

// ProfileUpdate carries the editable fields of an account.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// CredentialStore hashes and verifies passwords and owns account creation.
type CredentialStore struct {
	users repositories.UserRepository
	cost  int
}

func NewCredentialStore(users repositories.UserRepository, cost int) *CredentialStore {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{users: users, cost: cost}
}

// Signup hashes the password and stores a new user.
func (s *CredentialStore) Signup(ctx context.Context, p SignupParams) (*models.User, error) {
	if p.Password == "" {
		return nil, apperrors.Validation("Password must be non-empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	imageURL := p.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       p.Username,
		Email:          p.Email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User signed up")
	return user, nil
}

// Authenticate returns the user when username and password match. A wrong
// username or password is reported as ok == false, not as an error.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (*models.User, bool, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, false, nil
	}
	return user, true, nil
}

// UpdateProfile applies changes after re-checking the user's current password.
func (s *CredentialStore) UpdateProfile(ctx context.Context, userID uint, password string, p ProfileUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("Wrong password, please try again.")
	}

	user.Username = p.Username
	user.Email = p.Email
	user.ImageURL = p.ImageURL
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}
	user.HeaderImageURL = p.HeaderImageURL
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = models.DefaultHeaderImageURL
	}
	user.Bio = p.Bio
	user.Location = p.Location

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
