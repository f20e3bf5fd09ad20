package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/storage"
)

// UserByID находит пользователя по ID.
// Ошибки: storage.ErrNotFoundUser, либо ошибка выполнения запроса.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/postgres/users/UserByID"

	q := `
		SELECT id, email, user_group, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	var group string

	err := s.db.QueryRow(ctx, q, id).Scan(
		&user.ID,
		&user.Email,
		&group,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundUser)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.Group = models.UserGroup(group)

	return &user, nil
}
