package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/storage"
	"github.com/pribylovaa/go-profile-service/pkg/log"
)

// AvatarUpload — файл аватара из multipart-формы.
// ContentType и Size берутся из метаданных части; File читается
// только после успешной валидации метаданных.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// CreateProfileInput — вход workflow создания профиля.
// Строковые Gender/BirthDate разбираются и валидируются внутри сервиса,
// чтобы транспорт не дублировал правила.
type CreateProfileInput struct {
	ActingUser *models.User
	UserID     uuid.UUID
	FirstName  string
	LastName   string
	Gender     string
	BirthDate  string
	Info       string
	Avatar     AvatarUpload
}

// CreateProfile выполняет workflow создания профиля.
//
// Шаги (каждый — жёсткий гейт, первый сбой прерывает без частичного состояния):
//  1. авторизация: сам пользователь либо группа admin -> иначе ErrPermissionDenied;
//  2. проверка дубликата -> ErrAlreadyExists;
//  3. валидация полей и аватара (fail-fast) -> ErrValidation с первым нарушенным правилом;
//  4. сборка сущности: имена TrimSpace+ToLower, детерминированный ключ
//     "avatars/<userID>_avatar.jpg" (не из имени файла клиента);
//  5. загрузка аватара до коммита: вставка и загрузка идут в одной транзакции,
//     сбой загрузки откатывает вставку -> ErrStorageUnavailable;
//  6. резолв ссылки на аватар и возврат модели.
//
// Гонка одновременных созданий для одного пользователя разрешается
// UNIQUE(user_id) на уровне БД: проигравший получает ErrAlreadyExists.
func (s *Service) CreateProfile(ctx context.Context, input CreateProfileInput) (*models.Profile, error) {
	const op = "service/profiles/CreateProfile"

	lg := log.From(ctx).With("op", op, "user_id", input.UserID.String())

	if input.ActingUser == nil || input.UserID == uuid.Nil {
		lg.Warn("invalid argument: empty acting user or user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// 1. Авторизация.
	if input.ActingUser.ID != input.UserID && input.ActingUser.Group != models.GroupAdmin {
		lg.Warn("permission denied", "acting_user_id", input.ActingUser.ID.String())

		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	// 2. Проверка дубликата.
	_, err := s.profilesStorage.ProfileByUserID(ctx, input.UserID)
	switch {
	case err == nil:
		lg.Warn("profile already exists")

		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	case !errors.Is(err, storage.ErrNotFoundProfile):
		lg.Error("storage error on duplicate check", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	// 3. Валидация (fail-fast: первое нарушенное правило).
	firstName, err := validateName("first name", input.FirstName)
	if err != nil {
		lg.Warn("validation failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lastName, err := validateName("last name", input.LastName)
	if err != nil {
		lg.Warn("validation failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gender, err := validateGender(input.Gender)
	if err != nil {
		lg.Warn("validation failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	birthDate, err := validateBirthDate(input.BirthDate, time.Now().UTC())
	if err != nil {
		lg.Warn("validation failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validateImage(input.Avatar.ContentType, input.Avatar.Size); err != nil {
		lg.Warn("avatar validation failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Байты читаем только после валидации метаданных; лимит страхует
	// от расхождения заявленного размера с фактическим.
	data, err := io.ReadAll(io.LimitReader(input.Avatar.File, s.cfg.Avatar.MaxSizeBytes+1))
	if err != nil {
		lg.Error("avatar read failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if int64(len(data)) > s.cfg.Avatar.MaxSizeBytes {
		lg.Warn("avatar larger than declared size")

		return nil, fmt.Errorf("%s: %w", op, &ValidationError{
			Msg: fmt.Sprintf("avatar exceeds maximum size of %d bytes", s.cfg.Avatar.MaxSizeBytes),
		})
	}

	// 4. Сборка сущности. Ключ детерминирован по userID,
	// имя файла клиента в ключ не попадает.
	profile := &models.Profile{
		UserID:    input.UserID,
		FirstName: firstName,
		LastName:  lastName,
		Gender:    gender,
		BirthDate: birthDate,
		Info:      strings.TrimSpace(input.Info),
		AvatarKey: fmt.Sprintf("avatars/%s_avatar.jpg", input.UserID),
	}

	// 5. Вставка и загрузка в одной транзакции: строка фиксируется
	// только после успешной загрузки аватара.
	var uploadErr error
	result, err := s.profilesStorage.CreateProfile(ctx, profile, func(ctx context.Context) error {
		if err := s.avatarsStorage.UploadAvatar(ctx, profile.AvatarKey, input.Avatar.ContentType, data); err != nil {
			uploadErr = err
			return err
		}

		return nil
	})
	if err != nil {
		switch {
		case uploadErr != nil:
			lg.Error("avatar upload failed, insert rolled back", "err", uploadErr)

			return nil, fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
		case errors.Is(err, storage.ErrAlreadyExists):
			lg.Warn("profile already exists (insert race)")

			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		default:
			lg.Error("storage error on CreateProfile", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	// 6. Резолв ссылки для отображения.
	avatarURL, err := s.avatarsStorage.AvatarURL(ctx, result.AvatarKey)
	if err != nil {
		lg.Error("avatar url resolution failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	result.AvatarURL = avatarURL

	return result, nil
}

// ProfileByID возвращает профиль по идентификатору пользователя
// с зарезолвленной ссылкой на аватар.
//
// Валидация:
//   - userID не должен быть нулевым (uuid.Nil) — иначе ErrInvalidArgument.
//
// Поведение:
//   - при отсутствии записи возвращает ErrNotFound;
//   - ошибки стораджа/БД/контекста маппятся в ErrInternal.
func (s *Service) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "service/profiles/ProfileByID"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.profilesStorage.ProfileByUserID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("profile not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ProfileByUserID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if result.AvatarKey != "" {
		avatarURL, err := s.avatarsStorage.AvatarURL(ctx, result.AvatarKey)
		if err != nil {
			lg.Error("avatar url resolution failed", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		result.AvatarURL = avatarURL
	}

	return result, nil
}
