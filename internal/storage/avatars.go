package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFoundAvatar — объект (ключ) отсутствует в бакете.
	ErrNotFoundAvatar = errors.New("not found")
	// ErrInvalidArgument — нарушены ограничения запроса (тип/размер).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Avatars — контракт загрузки аватаров и резолва ссылок на них.
type Avatars interface {
	// UploadAvatar загружает объект под детерминированным ключом.
	// Внутри — валидация contentType и размера согласно конфигу.
	UploadAvatar(ctx context.Context, key, contentType string, data []byte) error
	// AvatarURL возвращает ссылку для отображения объекта:
	// публичную (если сконфигурирован PublicBaseURL) либо presigned GET.
	AvatarURL(ctx context.Context, key string) (string, error)
}

// AvatarsStorage — алиас-обёртка для внедрения зависимости.
type AvatarsStorage interface {
	Avatars
}
