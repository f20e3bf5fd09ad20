package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pribylovaa/go-profile-service/internal/models"
)

// Ограничения валидации полей профиля.
const (
	maxNameLen = 64
	maxAgeYrs  = 130
)

// validateName проверяет имя/фамилию и возвращает нормализованную
// (обрезанную, в нижнем регистре) форму.
// Допустимы буквы, дефисы, апострофы и внутренние пробелы.
func validateName(field, s string) (string, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return "", &ValidationError{Msg: fmt.Sprintf("%s must not be empty", field)}
	}

	if len(s) > maxNameLen {
		return "", &ValidationError{Msg: fmt.Sprintf("%s must not exceed %d characters", field, maxNameLen)}
	}

	for _, r := range s {
		if unicode.IsLetter(r) || r == '-' || r == '\'' || r == ' ' {
			continue
		}

		return "", &ValidationError{Msg: fmt.Sprintf("%s contains invalid characters", field)}
	}

	return strings.ToLower(s), nil
}

// validateGender проверяет членство в enum; пустая строка допустима (поле опционально).
func validateGender(s string) (models.Gender, error) {
	gender, err := models.ParseGender(s)
	if err != nil {
		return models.GenderUnspecified, &ValidationError{Msg: fmt.Sprintf("gender must be one of: male, female, other, unspecified; got %q", s)}
	}

	return gender, nil
}

// validateBirthDate разбирает дату формата YYYY-MM-DD и проверяет правдоподобие:
// дата не в будущем и возраст не превышает maxAgeYrs лет.
func validateBirthDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &ValidationError{Msg: "invalid date format, use YYYY-MM-DD"}
	}

	if d.After(now) {
		return time.Time{}, &ValidationError{Msg: "birth date must not be in the future"}
	}

	if d.Before(now.AddDate(-maxAgeYrs, 0, 0)) {
		return time.Time{}, &ValidationError{Msg: fmt.Sprintf("birth date implies age over %d years", maxAgeYrs)}
	}

	return d, nil
}

// validateImage проверяет заявленный content type и размер файла аватара.
// Байты файла не читаются: проверка только по метаданным multipart-части.
func (s *Service) validateImage(contentType string, size int64) error {
	allowed := false
	for _, a := range s.cfg.Avatar.AllowedContentTypes {
		if a == contentType {
			allowed = true
			break
		}
	}

	if !allowed {
		return &ValidationError{Msg: fmt.Sprintf("avatar content type %q is not allowed (expected one of: %s)",
			contentType, strings.Join(s.cfg.Avatar.AllowedContentTypes, ", "))}
	}

	if size <= 0 {
		return &ValidationError{Msg: "avatar file is empty"}
	}

	if size > s.cfg.Avatar.MaxSizeBytes {
		return &ValidationError{Msg: fmt.Sprintf("avatar exceeds maximum size of %d bytes", s.cfg.Avatar.MaxSizeBytes)}
	}

	return nil
}
