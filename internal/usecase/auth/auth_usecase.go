package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jamdate/jamdate-backend/internal/domain"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jamdate/jamdate-backend/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=120"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      int       `json:"user_id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	HasProfile  bool      `json:"has_profile"`
}

// Claims are the access token claims. The token id lives in ID (jti).
type Claims struct {
	UserID     int  `json:"user_id"`
	HasProfile bool `json:"has_profile"`
	jwt.RegisteredClaims
}

type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	blocklist   repository.TokenBlocklist
	validate    *validator.Validate
	jwtSecret   []byte
	tokenTTL    time.Duration
	bcryptCost  int
}

// NewAuthUseCase builds the auth flows. blocklist may be nil, in which case
// logout cannot revoke tokens and they stay valid until expiry.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	blocklist repository.TokenBlocklist,
	validate *validator.Validate,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		blocklist:   blocklist,
		validate:    validate,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// Register creates an account. The existence checks give friendly errors;
// the unique constraints in storage remain authoritative under races.
func (uc *AuthUseCase) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	exists, err := uc.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	exists, err = uc.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Name:         req.Name,
		Email:        req.Email,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	hasProfile, err := uc.profileRepo.HasCompleteProfile(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}

	token, expiresAt, err := uc.issueToken(user.ID, hasProfile)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Username:    user.Username,
		Name:        user.Name,
		HasProfile:  hasProfile,
	}, nil
}

func (uc *AuthUseCase) issueToken(userID int, hasProfile bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(uc.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:     userID,
		HasProfile: hasProfile,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature, expiry and revocation state of a token.
func (uc *AuthUseCase) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return uc.jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}

	if uc.blocklist != nil && claims.ID != "" {
		revoked, err := uc.blocklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}
	return claims, nil
}

// VerifyToken returns the user id the token was issued to.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (int, error) {
	claims, err := uc.ParseToken(ctx, tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Logout revokes the token until it would have expired anyway.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	claims, err := uc.ParseToken(ctx, tokenString)
	if err != nil {
		return err
	}
	if uc.blocklist == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := uc.blocklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID int) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}
