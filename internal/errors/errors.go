// errors стандартизирует ответы об ошибках HTTP-слоя profile-сервиса.
// На вход он принимает ошибку сервисного слоя/аутентификатора,
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Маппинг (контракт наружного API):
//   - auth.* (missing/expired/invalid token, unknown/inactive user) -> 401
//   - service.ErrPermissionDenied -> 403
//   - service.ErrAlreadyExists (дубликат профиля) -> 400
//   - service.ErrValidation -> 422 (message = первое нарушенное правило)
//   - service.ErrInvalidArgument -> 400
//   - service.ErrNotFound -> 404
//   - service.ErrStorageUnavailable -> 500
//   - прочее -> 500/internal
//
// Дубликат профиля отдаётся как 400 (а не 409): так зафиксирован
// контракт эндпоинта создания профиля.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-profile-service/internal/auth"
	"github.com/pribylovaa/go-profile-service/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус
// и унифицированный ответ для фронта.
//
// err == nil — это программная ошибка вызова: возвращаем 500/internal,
// чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error: APIError{Code: "unprocessable", Message: verr.Msg},
		}
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, ErrorResponse{
			Error: APIError{Code: "token_missing", Message: "token missing"},
		}
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{
			Error: APIError{Code: "token_expired", Message: "token has expired"},
		}
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{
			Error: APIError{Code: "token_invalid", Message: "invalid token"},
		}
	case errors.Is(err, auth.ErrUnknownUser):
		return http.StatusUnauthorized, ErrorResponse{
			Error: APIError{Code: "unauthenticated", Message: "user not found or not active"},
		}
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, ErrorResponse{
			Error: APIError{Code: "permission_denied", Message: "you don't have permission to edit this profile"},
		}
	case errors.Is(err, service.ErrAlreadyExists):
		return http.StatusBadRequest, ErrorResponse{
			Error: APIError{Code: "already_exists", Message: "user already has a profile"},
		}
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorResponse{
			Error: APIError{Code: "invalid_argument", Message: "invalid argument"},
		}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: APIError{Code: "not_found", Message: "not found"},
		}
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "storage_unavailable", Message: "failed to upload avatar, please try again later"},
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
