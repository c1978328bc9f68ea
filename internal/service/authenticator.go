package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/socrates-echo-api/internal/dto"
	"github.com/noah-isme/socrates-echo-api/internal/models"
)

const (
	classCodeLength   = 6
	classCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	guestStudentName  = "Estudante Convidado"
)

var (
	// ErrInvalidCredentials is returned when a mock login does not match the directory.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidClassCode is returned for class codes that are not six alphanumerics.
	ErrInvalidClassCode = errors.New("class code must be 6 alphanumeric characters")
)

type directoryEntry struct {
	user         models.User
	passwordHash []byte
}

// Authenticator performs the mocked credential checks that run before a session is
// authenticated. It never talks to a backend.
type Authenticator struct {
	directory map[models.Role]directoryEntry
	validator *validator.Validate
	logger    zerolog.Logger
}

// DemoAccount describes a built-in mock account.
type DemoAccount struct {
	User     models.User
	Password string
}

// DefaultDemoAccounts are the two accounts the client advertises on its login form.
var DefaultDemoAccounts = []DemoAccount{
	{
		User:     models.User{ID: "1", Name: "Ana Silva", Email: "aluno@teste.com", Role: models.RoleStudent},
		Password: "123456",
	},
	{
		User:     models.User{ID: "1", Name: "Prof. Carlos Santos", Email: "professor@teste.com", Role: models.RoleTeacher},
		Password: "123456",
	},
}

// NewAuthenticator hashes the demo passwords and builds the directory.
func NewAuthenticator(accounts []DemoAccount, validate *validator.Validate, logger zerolog.Logger) (*Authenticator, error) {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	directory := make(map[models.Role]directoryEntry, len(accounts))
	for _, account := range accounts {
		if !account.User.Role.Valid() {
			return nil, fmt.Errorf("demo account %q has invalid role %q", account.User.Email, account.User.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(account.Password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo password: %w", err)
		}
		directory[account.User.Role] = directoryEntry{user: account.User, passwordHash: hash}
	}

	return &Authenticator{
		directory: directory,
		validator: validate,
		logger:    logger.With().Str("component", "authenticator").Logger(),
	}, nil
}

// Login checks the credentials for the selected role.
func (a *Authenticator) Login(payload dto.LoginRequest) (models.User, error) {
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))
	if err := a.validator.Struct(payload); err != nil {
		return models.User{}, newValidationError(err)
	}

	entry, ok := a.directory[models.Role(payload.Role)]
	if !ok || entry.user.Email != payload.Email {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(entry.passwordHash, []byte(payload.Password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return entry.user, nil
}

// Register creates a user from the registration form. Nothing is stored.
func (a *Authenticator) Register(payload dto.RegisterRequest) (models.User, error) {
	payload.FullName = strings.TrimSpace(payload.FullName)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	payload.Role = strings.ToLower(strings.TrimSpace(payload.Role))
	payload.SchoolAffiliation = strings.TrimSpace(payload.SchoolAffiliation)
	if err := a.validator.Struct(payload); err != nil {
		return models.User{}, newValidationError(err)
	}

	return models.User{
		ID:    uuid.NewString(),
		Name:  payload.FullName,
		Email: payload.Email,
		Role:  models.Role(payload.Role),
	}, nil
}

// JoinClass turns a class code into a guest student. Codes are not checked against any
// registry.
func (a *Authenticator) JoinClass(code string) (models.User, error) {
	normalized := NormalizeClassCode(code)
	if err := a.validator.Struct(dto.JoinClassRequest{Code: normalized}); err != nil {
		return models.User{}, ErrInvalidClassCode
	}

	a.logger.Debug().Str("class_code", normalized).Msg("guest joining class")
	return models.User{
		ID:          "guest-" + strings.ToLower(normalized),
		Name:        guestStudentName,
		Role:        models.RoleStudent,
		JoinedClass: normalized,
	}, nil
}

// NormalizeClassCode trims and uppercases a class code.
func NormalizeClassCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateInviteCode returns six random characters from the class code alphabet.
func GenerateInviteCode() (string, error) {
	var builder strings.Builder
	builder.Grow(classCodeLength)
	limit := big.NewInt(int64(len(classCodeAlphabet)))
	for i := 0; i < classCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		builder.WriteByte(classCodeAlphabet[n.Int64()])
	}
	return builder.String(), nil
}
