// models содержит доменные сущности profile-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender — внутренний enum пола.
type Gender int8

const (
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
	GenderOther
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderOther:
		return "other"
	default:
		return "unspecified"
	}
}

// ParseGender разбирает строковое представление пола.
// Пустая строка трактуется как GenderUnspecified (поле опционально).
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return GenderUnspecified, nil
	case "unspecified":
		return GenderUnspecified, nil
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	case "other":
		return GenderOther, nil
	default:
		return GenderUnspecified, fmt.Errorf("unknown gender %q", s)
	}
}

// Profile — внутренняя доменная модель профиля.
// AvatarKey — ключ объекта в бакете; AvatarURL заполняется сервисом
// после резолва публичной/подписанной ссылки и в БД не хранится как истина.
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Gender    Gender
	BirthDate time.Time
	Info      string
	AvatarKey string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
