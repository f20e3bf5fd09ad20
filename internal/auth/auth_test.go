package auth

// Тесты аутентификатора (internal/auth/auth.go).
//
// Токены подписываются реальным HS256 с тестовым секретом;
// хранилище пользователей мокается (MockUsersStorage).

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-profile-service/internal/config"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/storage"
	"github.com/pribylovaa/go-profile-service/mocks"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: testSecret,
			Issuer:    "auth-service",
			Audience:  []string{"profile-service"},
		},
	}
}

func newAuthWithMocks(t *testing.T) (*Authenticator, *mocks.MockUsersStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mu := mocks.NewMockUsersStorage(ctrl)
	return New(mu, testAuthConfig()), mu, ctrl
}

// signToken — валидный по клеймам токен; отклонения задаются через mutate.
func signToken(t *testing.T, secret string, uid uuid.UUID, mutate func(claims jwt.MapClaims)) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"uid": uid.String(),
		"sub": uid.String(),
		"iss": "auth-service",
		"aud": "profile-service",
		"iat": now.Unix(),
		"exp": now.Add(15 * time.Minute).Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestAuth_MissingToken(t *testing.T) {
	a, _, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	_, err := a.UserFromToken(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestAuth_ExpiredToken(t *testing.T) {
	a, _, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()
	token := signToken(t, testSecret, uid, func(claims jwt.MapClaims) {
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
	})

	_, err := a.UserFromToken(context.Background(), token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuth_BadSignature(t *testing.T) {
	a, _, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	token := signToken(t, "other-secret", uuid.New(), nil)

	_, err := a.UserFromToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_WrongIssuer(t *testing.T) {
	a, _, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	token := signToken(t, testSecret, uuid.New(), func(claims jwt.MapClaims) {
		claims["iss"] = "someone-else"
	})

	_, err := a.UserFromToken(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_GarbageToken(t *testing.T) {
	a, _, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	_, err := a.UserFromToken(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_UserNotFound(t *testing.T) {
	a, mu, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()
	mu.EXPECT().UserByID(gomock.Any(), uid).Return(nil, storage.ErrNotFoundUser)

	_, err := a.UserFromToken(context.Background(), signToken(t, testSecret, uid, nil))
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestAuth_InactiveUser(t *testing.T) {
	a, mu, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()
	mu.EXPECT().UserByID(gomock.Any(), uid).
		Return(&models.User{ID: uid, Group: models.GroupUser, IsActive: false}, nil)

	_, err := a.UserFromToken(context.Background(), signToken(t, testSecret, uid, nil))
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestAuth_StorageError(t *testing.T) {
	a, mu, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()
	mu.EXPECT().UserByID(gomock.Any(), uid).Return(nil, errors.New("pg down"))

	_, err := a.UserFromToken(context.Background(), signToken(t, testSecret, uid, nil))
	require.ErrorIs(t, err, ErrInternal)
}

func TestAuth_OK(t *testing.T) {
	a, mu, ctrl := newAuthWithMocks(t)
	defer ctrl.Finish()

	uid := uuid.New()
	want := &models.User{ID: uid, Email: "user@example.com", Group: models.GroupAdmin, IsActive: true}
	mu.EXPECT().UserByID(gomock.Any(), uid).Return(want, nil)

	got, err := a.UserFromToken(context.Background(), signToken(t, testSecret, uid, nil))
	require.NoError(t, err)
	require.Equal(t, want, got)
}
