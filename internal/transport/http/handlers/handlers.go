// handlers содержит HTTP-хендлеры profile-сервиса.
//
// Принципы:
//   - Контекст запроса прокидывается в сервис без потерь;
//   - Входные данные парсятся на уровне транспорта (UUID, multipart-форма),
//     правила предметной области валидирует сервис;
//   - Ошибки сервиса/аутентификатора маппятся в HTTP-статусы
//     единым слоем internal/errors.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-profile-service/internal/auth"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/service"
)

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Service *service.Service
	Auth    *auth.Authenticator
}

func New(svc *service.Service, authn *auth.Authenticator) *Handlers {
	return &Handlers{Service: svc, Auth: authn}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// profileView — наружное представление профиля.
type profileView struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	Info        string `json:"info,omitempty"`
	AvatarURL   string `json:"avatar_url"`
}

// profileViewFrom — чистая конвертация доменной модели в наружное представление.
func profileViewFrom(p *models.Profile) profileView {
	return profileView{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Gender:      p.Gender.String(),
		DateOfBirth: p.BirthDate.Format("2006-01-02"),
		Info:        p.Info,
		AvatarURL:   p.AvatarURL,
	}
}
