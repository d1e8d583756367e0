// file: service/auth_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-collab-api/config"
	"go-collab-api/logger"
	"go-collab-api/model"
	"go-collab-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUser      = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// tokenTTL is the validity window of an issued bearer token.
const tokenTTL = 24 * time.Hour

// AuthService owns registration, login, token issuance/verification, and
// logout. Logout is a denylist entry in the revocation cache; the token's
// signature stays valid until it expires on its own.
type AuthService struct {
	userRepo   repository.IUserRepository
	revocation *RevocationCache
}

func NewAuthService(userRepo repository.IUserRepository, revocation *RevocationCache) *AuthService {
	return &AuthService{userRepo: userRepo, revocation: revocation}
}

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT issues a signed bearer token binding the user's id and email.
func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	expirationTime := time.Now().Add(tokenTTL)

	claims := &model.AppClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyJWT checks signature and expiry only. Revocation is a separate check
// on purpose: a revoked token still carries a valid signature.
func (s *AuthService) VerifyJWT(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return getJwtKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Register creates a user with a bcrypt-hashed password and logs them in by
// issuing a token right away.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, string, error) {
	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:    req.Email,
		Password: hashedPassword,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrDuplicateUser
		}
		return nil, "", err
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}

	logger.Log.WithField("email", user.Email).Info("User registered")
	return user, token, nil
}

// Login verifies the credentials and issues a token. An unknown email and a
// wrong password both return ErrInvalidCredentials so the response never
// reveals which check failed.
func (s *AuthService) Login(req model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.CheckPasswordHash(req.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}

	logger.Log.WithField("email", user.Email).Info("User logged in")
	return user, token, nil
}

// Logout invalidates the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.revocation.Revoke(ctx, token)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
