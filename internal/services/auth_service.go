package services

import (
	"errors"

	"github.com/taskleaf/taskleaf/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrOAuthOnlyAccount   = errors.New("account uses google sign-in")
)

type AuthUserRepository interface {
	ExistsByEmail(email string) (bool, error)
	FindByEmail(email string) (models.User, error)
	FindByEmailOrGoogleID(email string, googleID string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

// GoogleProfile carries what the OAuth callback learned about the user.
type GoogleProfile struct {
	GoogleID     string
	Email        string
	FullName     string
	Picture      string
	RefreshToken string
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func (service *AuthService) Register(email string, fullName string, password string) (models.User, error) {
	taken, err := service.users.ExistsByEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(passwordHash),
		IsActive:     true,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	user, err := service.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !user.HasPassword() {
		if user.GoogleID != nil {
			return models.User{}, ErrOAuthOnlyAccount
		}
		return models.User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// UpsertGoogleUser links a Google identity to an existing account
// (matched by email or google id) or creates a fresh OAuth-only one.
// The refresh credential is updated on every login that returns one.
func (service *AuthService) UpsertGoogleUser(profile GoogleProfile) (models.User, error) {
	user, err := service.users.FindByEmailOrGoogleID(profile.Email, profile.GoogleID)
	switch {
	case err == nil:
		if user.GoogleID == nil {
			googleID := profile.GoogleID
			user.GoogleID = &googleID
		}
		if profile.Picture != "" {
			user.ProfilePicture = profile.Picture
		}
		if profile.FullName != "" && user.FullName == "" {
			user.FullName = profile.FullName
		}
		if profile.RefreshToken != "" {
			user.GoogleRefreshToken = profile.RefreshToken
		}
		if err := service.users.Save(&user); err != nil {
			return models.User{}, err
		}
		return user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		googleID := profile.GoogleID
		user = models.User{
			Email:              profile.Email,
			FullName:           profile.FullName,
			GoogleID:           &googleID,
			ProfilePicture:     profile.Picture,
			GoogleRefreshToken: profile.RefreshToken,
			IsActive:           true,
		}
		if err := service.users.Create(&user); err != nil {
			return models.User{}, err
		}
		return user, nil

	default:
		return models.User{}, err
	}
}
