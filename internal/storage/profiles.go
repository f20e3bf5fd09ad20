// storage содержит контракты слоя хранилищ profile-сервиса.
//
// profiles.go - работа с профилями в БД: чтение и транзакционное создание
// с хуком beforeCommit (загрузка аватара выполняется до фиксации строки).
// users.go - чтение пользователей (аккаунтами владеет внешний сервис).
// avatars.go - контракт для загрузки аватаров в S3/MinIO и резолва ссылок.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-profile-service/internal/models"
)

var (
	// ErrNotFoundProfile — профиль не найден.
	ErrNotFoundProfile = errors.New("not found")
	// ErrAlreadyExists — профиль для этого пользователя уже существует
	// (нарушение UNIQUE по user_id).
	ErrAlreadyExists = errors.New("already exists")
)

// Profiles — контракт репозитория профилей.
type Profiles interface {
	// ProfileByUserID возвращает профиль по user_id.
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// CreateProfile создаёт новый профиль в транзакции.
	// beforeCommit (если не nil) вызывается после INSERT, но до COMMIT:
	// ошибка из него откатывает транзакцию и возвращается вызывающему как есть.
	// Строка профиля фиксируется только после успешного beforeCommit.
	CreateProfile(ctx context.Context, profile *models.Profile, beforeCommit func(ctx context.Context) error) (*models.Profile, error)
}

// ProfilesStorage — верхнеуровневый интерфейс хранилища профилей.
type ProfilesStorage interface {
	Profiles
	Close()
}
