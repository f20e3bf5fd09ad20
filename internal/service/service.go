// service содержит бизнес-логику profile-сервиса:
// - workflow создания профиля (авторизация -> проверка дубликата -> валидация ->
//   сборка сущности -> загрузка аватара и коммит -> сборка ответа);
// - чтение профиля.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища потокобезопасны.
//   - Ошибки возвращаются и далее маппятся транспортом
//     на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-profile-service/internal/config"
	"github.com/pribylovaa/go-profile-service/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные (битый UUID, пустое поле формы).
	// Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied — попытка создать профиль чужому пользователю
	// без привилегированной группы. Транспорт: HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyExists — у пользователя уже есть профиль.
	// Транспорт: HTTP 400 (контракт наружного API; см. transport/http/errors).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation — нарушено правило валидации полей/аватара.
	// Сообщение первого нарушенного правила доступно через errors.As
	// с *ValidationError. Транспорт: HTTP 422.
	ErrValidation = errors.New("validation failed")

	// ErrStorageUnavailable — сбой загрузки аватара в S3/MinIO;
	// вставка профиля откачена. Транспорт: HTTP 500.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound — сущность не найдена. Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrInternal — внутренняя ошибка сервиса. Транспорт: HTTP 500.
	ErrInternal = errors.New("internal")
)

// ValidationError — ошибка валидации с человекочитаемым правилом.
// Fail-fast: несёт первое нарушенное правило, а не весь список.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is позволяет errors.Is(err, ErrValidation) для любого *ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Service — описывает бизнес-логику profile-сервиса.
type Service struct {
	cfg             *config.Config
	profilesStorage storage.ProfilesStorage
	avatarsStorage  storage.AvatarsStorage
}

// New создает новый экземпляр Service.
func New(profilesStorage storage.ProfilesStorage, avatarsStorage storage.AvatarsStorage, cfg *config.Config) *Service {
	return &Service{
		profilesStorage: profilesStorage,
		avatarsStorage:  avatarsStorage,
		cfg:             cfg,
	}
}
