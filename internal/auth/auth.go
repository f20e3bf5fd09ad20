// auth резолвит bearer-токен в активного пользователя.
//
// Шаги: валидация HS256 access-токена (подпись/issuer/audience/срок),
// извлечение subject, чтение пользователя из хранилища и отказ,
// если пользователь отсутствует или деактивирован.
// Кэширования нет: каждый вызов заново резолвит токен и пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-profile-service/internal/config"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/storage"
	"github.com/pribylovaa/go-profile-service/pkg/log"
)

var (
	// ErrMissingToken — bearer-токен отсутствует в запросе.
	// Транспорт: HTTP 401.
	ErrMissingToken = errors.New("token missing")

	// ErrTokenExpired — срок действия токена истёк.
	// Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken — токен некорректен по формату/подписи/клеймам.
	// Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnknownUser — subject токена не найден в БД или деактивирован.
	// Транспорт: HTTP 401.
	ErrUnknownUser = errors.New("user not found or not active")

	// ErrInternal — внутренняя ошибка (сбой хранилища).
	ErrInternal = errors.New("internal")
)

type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator резолвит bearer-токены в пользователей.
type Authenticator struct {
	cfg   *config.Config
	users storage.UsersStorage
}

// New создает новый экземпляр Authenticator.
func New(users storage.UsersStorage, cfg *config.Config) *Authenticator {
	return &Authenticator{cfg: cfg, users: users}
}

// UserFromToken резолвит «сырой» bearer-токен в активного пользователя.
//
// Ошибки:
//   - ErrMissingToken — пустой токен;
//   - ErrTokenExpired / ErrInvalidToken — проблемы самого токена;
//   - ErrUnknownUser — subject отсутствует в БД или пользователь неактивен;
//   - ErrInternal — сбой хранилища.
func (a *Authenticator) UserFromToken(ctx context.Context, rawToken string) (*models.User, error) {
	const op = "auth/UserFromToken"

	lg := log.From(ctx).With("op", op)

	if rawToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	userID, err := a.validateAccessToken(rawToken)
	if err != nil {
		lg.Warn("access token rejected", "err", err)

		return nil, err
	}

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFoundUser) {
			lg.Warn("token subject not found", "user_id", userID.String())

			return nil, fmt.Errorf("%s: %w", op, ErrUnknownUser)
		}

		lg.Error("storage error on UserByID", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !user.IsActive {
		lg.Warn("inactive user rejected", "user_id", userID.String())

		return nil, fmt.Errorf("%s: %w", op, ErrUnknownUser)
	}

	return user, nil
}

// validateAccessToken валидирует access-токен и возвращает subject.
func (a *Authenticator) validateAccessToken(tokenStr string) (uuid.UUID, error) {
	const op = "auth/validateAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(a.cfg.Auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(a.cfg.Auth.Issuer),
		jwt.WithAudience(a.cfg.Auth.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, nil
}
