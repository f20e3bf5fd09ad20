package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-profile-service/internal/models"
)

// ErrNotFoundUser — пользователь не найден.
var ErrNotFoundUser = errors.New("user not found")

// Users — контракт чтения пользователей.
type Users interface {
	// UserByID возвращает пользователя по идентификатору.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// UsersStorage — алиас-обёртка для внедрения зависимости.
type UsersStorage interface {
	Users
}
