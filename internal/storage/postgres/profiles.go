package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/storage"
)

// profileColumns — единый список колонок таблицы profiles,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const profileColumns = `
id, user_id, first_name, last_name, gender, birth_date, info, avatar_key, created_at, updated_at
`

// scanProfile сканирует одну строку профиля из результата запроса
// в доменную модель с корректным кастом SMALLINT -> models.Gender.
func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var gender int16

	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&gender,
		&profile.BirthDate,
		&profile.Info,
		&profile.AvatarKey,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	profile.Gender = models.Gender(gender)

	return &profile, nil
}

// CreateProfile вставляет новую запись профиля в транзакции.
// beforeCommit вызывается после INSERT, но до COMMIT: его ошибка откатывает
// транзакцию и возвращается вызывающему без обёртывания, чтобы сервис мог
// различить причину (например, сбой загрузки аватара в S3).
// Ошибки вставки: storage.ErrAlreadyExists при конфликте UNIQUE(user_id), иные — как есть.
func (s *Storage) CreateProfile(ctx context.Context, profile *models.Profile, beforeCommit func(ctx context.Context) error) (*models.Profile, error) {
	const op = "storage/postgres/profiles/CreateProfile"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Откат безопасен и после успешного Commit (no-op).
	defer func() { _ = tx.Rollback(ctx) }()

	q := `
	INSERT INTO profiles (user_id, first_name, last_name, gender, birth_date, info, avatar_key)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING
	` + profileColumns

	row := tx.QueryRow(ctx, q,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		int16(profile.Gender),
		profile.BirthDate,
		profile.Info,
		profile.AvatarKey,
	)

	result, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if beforeCommit != nil {
		if err := beforeCommit(ctx); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ProfileByUserID возвращает профиль по user_id.
// Ошибки: storage.ErrNotFoundProfile, либо ошибка выполнения запроса.
func (s *Storage) ProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByUserID"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	row := s.db.QueryRow(ctx, q, userID)

	result, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}
