package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/doofx0071/gym-bro-sub000/internal/models"
	"github.com/doofx0071/gym-bro-sub000/internal/types"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates the account and returns it with a signed token. The
// profile is created separately during onboarding, not here.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies credentials and returns the user with a fresh token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a bearer token, restoring its claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	var claims types.TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.UserID == uuid.Nil {
		// Older tokens carried the user only in the subject.
		sub, err := claims.GetSubject()
		if err != nil {
			return nil, errors.New("invalid token claims")
		}
		id, err := uuid.Parse(sub)
		if err != nil {
			return nil, errors.New("invalid token claims")
		}
		claims.UserID = id
	}

	return &claims, nil
}
