package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthUsecase struct {
	users      interfaces.UserStore
	businesses interfaces.BusinessStore
	jwtSecret  []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthUsecase(users interfaces.UserStore, businesses interfaces.BusinessStore, secret string, ttl time.Duration) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		businesses: businesses,
		jwtSecret:  []byte(secret),
		tokenTTL:   ttl,
		now:        time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a resident together with their first (inactive) business.
func (uc *AuthUsecase) Register(ctx context.Context, email, password, businessName string) (*entities.User, *entities.Business, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, nil, fmt.Errorf("%w: business name is required", ErrInvalidInput)
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	var user *entities.User
	var business *entities.Business
	err = insertWithSlug(ctx, Slugify(businessName), uc.businesses.SlugExists, func(slug string) error {
		user = &entities.User{Email: email, PasswordHash: hashed, Role: entities.RoleResident}
		business = &entities.Business{Name: businessName, Slug: slug, Email: email}
		return uc.users.CreateResident(ctx, user, business)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create resident: %w", err)
	}
	return user, business, nil
}

func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return uc.IssueToken(user)
}

func (uc *AuthUsecase) IssueToken(user *entities.User) (string, error) {
	now := uc.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.tokenTTL)),
		},
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Me returns the caller and the businesses they own.
func (uc *AuthUsecase) Me(ctx context.Context, actor Actor) (*entities.User, []entities.Business, error) {
	user, err := uc.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	businesses, err := uc.businesses.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, businesses, nil
}

// EnsureAdmin creates the admin account if it does not exist (called on startup).
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}
	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &entities.User{Email: email, PasswordHash: hashed, Role: entities.RoleAdmin}
	if err := uc.users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword sets a new password for the account with the given email.
func (uc *AuthUsecase) ResetPassword(ctx context.Context, email, password string) error {
	user, err := uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("user %s: %w", email, err)
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	return uc.users.UpdatePassword(ctx, user.ID, hashed)
}
