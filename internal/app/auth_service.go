package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quicknotes/internal/model"
	"quicknotes/internal/pkg/jwtutil"
	"quicknotes/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrInvalidToken      = errors.New("invalid or expired token")
)

// fallbackHash is compared against when no user matches the email, so the
// unknown-email and wrong-password paths cost the same.
const fallbackHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// BootstrapHook runs synchronously after a user row is durably created,
// before the creation call returns.
type BootstrapHook interface {
	UserCreated(user *model.User) error
}

// TokenDenylist records revoked refresh token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	userRepo   *repository.UserRepository
	hook       BootstrapHook
	denylist   TokenDenylist
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
}

type SuperuserInput struct {
	Email    string
	Password string
	Username string
	// Flag overrides; a false override is rejected.
	IsStaff     *bool
	IsSuperuser *bool
	IsActive    *bool
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

func NewAuthService(
	userRepo *repository.UserRepository,
	hook BootstrapHook,
	denylist TokenDenylist,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		hook:       hook,
		denylist:   denylist,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a regular user keyed by email and returns a fresh token pair.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	user, err := s.createUser(input.Email, input.Password, input.Username, false, false, true)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// CreateSuperuser creates a user with the staff and superuser flags enabled.
// Explicitly overriding any of the flags to false is rejected.
func (s *AuthService) CreateSuperuser(input SuperuserInput) (*model.User, error) {
	if input.IsStaff != nil && !*input.IsStaff {
		return nil, ErrInvalidInput
	}
	if input.IsSuperuser != nil && !*input.IsSuperuser {
		return nil, ErrInvalidInput
	}
	if input.IsActive != nil && !*input.IsActive {
		return nil, ErrInvalidInput
	}
	return s.createUser(input.Email, input.Password, input.Username, true, true, true)
}

func (s *AuthService) createUser(email, password, username string, isStaff, isSuperuser, isActive bool) (*model.User, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	username = strings.TrimSpace(username)

	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if username == "" {
		username = email
		if at := strings.Index(email, "@"); at >= 0 {
			username = email[:at]
		}
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
		IsActive:     isActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if s.hook != nil {
		if err := s.hook.UserCreated(user); err != nil {
			return nil, fmt.Errorf("bootstrap new user failed: %w", err)
		}
	}
	return user, nil
}

// Login authenticates by email and password and returns a fresh token pair.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.Authenticate(email, password)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// Authenticate verifies email+password. Unknown email and wrong password
// share a single failure value and code path.
func (s *AuthService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	hash := fallbackHash
	if user != nil {
		hash = user.PasswordHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil || user == nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := jwtutil.ParseRefreshToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("check revoked token failed: %w", err)
		}
		if revoked {
			return "", ErrInvalidToken
		}
	}

	access, err := jwtutil.GenerateToken(s.jwtSecret, jwtutil.TokenTypeAccess, s.accessTTL, claims.UserID, claims.Email)
	if err != nil {
		return "", err
	}
	return access, nil
}

// Logout revokes a refresh token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := jwtutil.ParseRefreshToken(s.jwtSecret, refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	if s.denylist == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token failed: %w", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) issueTokens(user *model.User) (*AuthResult, error) {
	pair, err := jwtutil.GeneratePair(s.jwtSecret, s.accessTTL, s.refreshTTL, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: pair.Access, RefreshToken: pair.Refresh, User: user}, nil
}

// normalizeEmail trims whitespace and lowercases the domain part after the
// last "@". The local part is preserved as given.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
