package models

import (
	"time"

	"github.com/google/uuid"
)

// UserGroup — группа (уровень привилегий) пользователя.
type UserGroup string

const (
	GroupUser      UserGroup = "user"
	GroupModerator UserGroup = "moderator"
	GroupAdmin     UserGroup = "admin"
)

// User — модель пользователя в системе.
// Аккаунтами владеет внешний сервис; здесь модель только читается.
type User struct {
	ID        uuid.UUID
	Email     string
	Group     UserGroup
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
