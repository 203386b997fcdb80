package app

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"itemboard/internal/model"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
)

var validate = validator.New()

// UserStore is the auth service's view of user persistence.
// repository.UserRepository satisfies it.
type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

type AuthService struct {
	userRepo UserStore
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Confirm  string
}

type LoginInput struct {
	Username string
	Password string
}

func NewAuthService(userRepo UserStore) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register validates the registration form, checks username/email uniqueness
// explicitly (the unique indexes on the users table back this up) and stores
// the user with a bcrypt password hash. The plaintext password is never
// persisted.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if n := utf8.RuneCountInString(name); n < 1 || n > 50 {
		return nil, fmt.Errorf("%w: name must be 1-50 characters", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(username); n < 4 || n > 25 {
		return nil, fmt.Errorf("%w: username must be 4-25 characters", ErrInvalidInput)
	}
	if err := validate.Var(email, "required,email,max=50"); err != nil {
		return nil, fmt.Errorf("%w: email must be a valid address of at most 50 characters", ErrInvalidInput)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if input.Password != input.Confirm {
		return nil, fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}

	existingByName, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials against the stored hash. An unknown username
// and a wrong password both return ErrInvalidCredential so callers cannot
// enumerate accounts.
func (s *AuthService) Login(input LoginInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredential
	}

	return user, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}
