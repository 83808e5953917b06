package services

import (
	"errors"
	"testing"

	"github.com/taskleaf/taskleaf/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memoryUserRepo is an in-memory AuthUserRepository for service tests.
type memoryUserRepo struct {
	users  []models.User
	nextID uint
}

func (repo *memoryUserRepo) ExistsByEmail(email string) (bool, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryUserRepo) FindByEmail(email string) (models.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *memoryUserRepo) FindByEmailOrGoogleID(email string, googleID string) (models.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			return user, nil
		}
		if user.GoogleID != nil && *user.GoogleID == googleID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *memoryUserRepo) FindByID(userID uint) (models.User, error) {
	for _, user := range repo.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *memoryUserRepo) Create(user *models.User) error {
	repo.nextID++
	user.ID = repo.nextID
	repo.users = append(repo.users, *user)
	return nil
}

func (repo *memoryUserRepo) Save(user *models.User) error {
	for i := range repo.users {
		if repo.users[i].ID == user.ID {
			repo.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := &memoryUserRepo{}
	service := NewAuthService(repo)

	user, err := service.Register("alice@example.com", "Alice", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("stored hash does not verify against the password")
	}
	if !user.IsActive {
		t.Fatalf("new accounts start active")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := &memoryUserRepo{}
	service := NewAuthService(repo)

	if _, err := service.Register("alice@example.com", "Alice", "secret123"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := service.Register("alice@example.com", "Alice 2", "secret456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := &memoryUserRepo{}
	service := NewAuthService(repo)
	if _, err := service.Register("alice@example.com", "Alice", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := service.Authenticate("alice@example.com", "secret123"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := service.Authenticate("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestAuthenticateOAuthOnlyAccount(t *testing.T) {
	repo := &memoryUserRepo{}
	service := NewAuthService(repo)

	if _, err := service.UpsertGoogleUser(GoogleProfile{
		GoogleID: "g-1",
		Email:    "oauth@example.com",
		FullName: "OAuth User",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	_, err := service.Authenticate("oauth@example.com", "anything")
	if !errors.Is(err, ErrOAuthOnlyAccount) {
		t.Fatalf("expected ErrOAuthOnlyAccount, got %v", err)
	}
}

func TestUpsertGoogleUserLinksExistingAccount(t *testing.T) {
	repo := &memoryUserRepo{}
	service := NewAuthService(repo)

	registered, err := service.Register("alice@example.com", "Alice", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	linked, err := service.UpsertGoogleUser(GoogleProfile{
		GoogleID:     "g-42",
		Email:        "alice@example.com",
		FullName:     "Alice From Google",
		Picture:      "https://example.com/p.jpg",
		RefreshToken: "refresh-1",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if linked.ID != registered.ID {
		t.Fatalf("expected link to existing account, got new id %d", linked.ID)
	}
	if linked.GoogleID == nil || *linked.GoogleID != "g-42" {
		t.Fatalf("google id not linked: %+v", linked)
	}
	if linked.FullName != "Alice" {
		t.Fatalf("existing full name must win, got %q", linked.FullName)
	}
	if linked.GoogleRefreshToken != "refresh-1" || linked.ProfilePicture == "" {
		t.Fatalf("google fields not filled: %+v", linked)
	}
	if !linked.HasPassword() {
		t.Fatalf("linking must keep the password login")
	}
}

func TestUpsertGoogleUserRefreshTokenOnlyOverwrittenWhenPresent(t *testing.T) {
	repo := &memoryUserRepo{}
	service := NewAuthService(repo)

	first, err := service.UpsertGoogleUser(GoogleProfile{
		GoogleID:     "g-1",
		Email:        "oauth@example.com",
		RefreshToken: "refresh-1",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Re-login without a new refresh token keeps the stored one.
	second, err := service.UpsertGoogleUser(GoogleProfile{
		GoogleID: "g-1",
		Email:    "oauth@example.com",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same account, got %d and %d", first.ID, second.ID)
	}
	if second.GoogleRefreshToken != "refresh-1" {
		t.Fatalf("refresh token lost on re-login: %q", second.GoogleRefreshToken)
	}
}
