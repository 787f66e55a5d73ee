package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hockey-pool-go/models"
)

// AuthService handles registration, login, and token validation
type AuthService struct {
	userRepo    UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: 30 * 24 * time.Hour,
	}
}

// Register creates a new account and returns it with a token
func (a *AuthService) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	if name == "" || email == "" {
		return nil, invalid("name and email are required")
	}
	if len(password) < 6 {
		return nil, invalid("password must be at least 6 characters")
	}

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.HashPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{User: user.ToSafeUser(), Token: token}, nil
}

// Login authenticates a user and returns a JWT token
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{User: user.ToSafeUser(), Token: token}, nil
}

// GenerateToken creates a new JWT token for the user
func (a *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := JWTClaims{
		UserID:  user.ID.Hex(),
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "hockey-pool-go",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetUserFromToken validates a token and loads the current account record
func (a *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid user id in token")
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfile changes the caller's name and, when both password fields are
// supplied, their password. A password change requires the current password
// to match.
func (a *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, currentPassword, newPassword string) (*models.User, error) {
	if name == "" {
		return nil, invalid("name is required")
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Name = name

	if currentPassword != "" || newPassword != "" {
		if !user.CheckPassword(currentPassword) {
			return nil, ErrWrongPassword
		}
		if len(newPassword) < 6 {
			return nil, invalid("new password must be at least 6 characters")
		}
		if err := user.HashPassword(newPassword); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	user.UpdatedAt = time.Now()
	if err := a.userRepo.Update(ctx, user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// ListUsers returns every account (admin operation)
func (a *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return a.userRepo.FindAll(ctx)
}

// SetAdmin grants or revokes admin rights (admin operation)
func (a *AuthService) SetAdmin(ctx context.Context, userID primitive.ObjectID, isAdmin bool) (*models.User, error) {
	if err := a.userRepo.SetAdmin(ctx, userID, isAdmin); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return a.userRepo.FindByID(ctx, userID)
}
