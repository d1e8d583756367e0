// file: service/auth_service_test.go

package service

import (
	"database/sql"
	"errors"
	"go-collab-api/config"
	"go-collab-api/logger"
	"go-collab-api/model"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "unit-test-secret"
	os.Exit(m.Run())
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetAllUsersExcept(userID int) ([]*model.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and verification work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService := NewAuthService(nil, nil)
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	if err != nil {
		t.Fatalf("authService.HashPassword() returned an unexpected error: %v", err)
	}

	if hashedPassword == password {
		t.Errorf("Hashed password should not be the same as the original password.")
	}

	match := authService.CheckPasswordHash(password, hashedPassword)
	if !match {
		t.Errorf("authService.CheckPasswordHash() should have returned true for a matching password, but got false.")
	}

	match = authService.CheckPasswordHash("notMyPassword", hashedPassword)
	if match {
		t.Errorf("authService.CheckPasswordHash() should have returned false for a non-matching password, but got true.")
	}
}

func TestAuthService_GenerateAndVerifyJWT(t *testing.T) {
	authService := NewAuthService(nil, nil)
	user := &model.User{ID: 42, Email: "alice@x.com"}

	tokenString, err := authService.GenerateJWT(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := authService.VerifyJWT(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestAuthService_VerifyJWT_Expired(t *testing.T) {
	authService := NewAuthService(nil, nil)

	claims := &model.AppClaims{
		UserID: 1,
		Email:  "old@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.AppConfig.JWT.SecretKey))
	assert.NoError(t, err)

	_, err = authService.VerifyJWT(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_VerifyJWT_WrongKey(t *testing.T) {
	authService := NewAuthService(nil, nil)

	claims := &model.AppClaims{
		UserID: 1,
		Email:  "mallory@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("some-other-key"))
	assert.NoError(t, err)

	_, err = authService.VerifyJWT(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			// The repository must receive a hash, never the plaintext.
			return u.Email == "new@x.com" && u.Password != "pw1234"
		})).Return(nil).Once()

		authService := NewAuthService(mockRepo, nil)
		user, token, err := authService.Register(model.RegisterRequest{Email: "new@x.com", Password: "pw1234"})

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.NotEmpty(t, token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("CreateUser", mock.Anything).Return(&pq.Error{Code: "23505"}).Once()

		authService := NewAuthService(mockRepo, nil)
		_, _, err := authService.Register(model.RegisterRequest{Email: "dup@x.com", Password: "pw1234"})

		assert.ErrorIs(t, err, ErrDuplicateUser)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	authService := NewAuthService(nil, nil)
	hashed, err := authService.HashPassword("pw1234")
	assert.NoError(t, err)
	storedUser := &model.User{ID: 7, Email: "alice@x.com", Password: hashed}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByEmail", "alice@x.com").Return(storedUser, nil).Once()

		svc := NewAuthService(mockRepo, nil)
		user, token, err := svc.Login(model.LoginRequest{Email: "alice@x.com", Password: "pw1234"})

		assert.NoError(t, err)
		assert.Equal(t, 7, user.ID)
		assert.NotEmpty(t, token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password return the same error", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByEmail", "nobody@x.com").Return(nil, sql.ErrNoRows).Once()
		mockRepo.On("GetUserByEmail", "alice@x.com").Return(storedUser, nil).Once()

		svc := NewAuthService(mockRepo, nil)
		_, _, errUnknown := svc.Login(model.LoginRequest{Email: "nobody@x.com", Password: "pw1234"})
		_, _, errWrongPw := svc.Login(model.LoginRequest{Email: "alice@x.com", Password: "wrongpw"})

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
		assert.Equal(t, errUnknown, errWrongPw, "both failure modes must be indistinguishable")
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error is not masked as invalid credentials", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		dbErr := errors.New("connection refused")
		mockRepo.On("GetUserByEmail", "alice@x.com").Return(nil, dbErr).Once()

		svc := NewAuthService(mockRepo, nil)
		_, _, err := svc.Login(model.LoginRequest{Email: "alice@x.com", Password: "pw1234"})

		assert.ErrorIs(t, err, dbErr)
		mockRepo.AssertExpectations(t)
	})
}
