package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	apierrors "github.com/pribylovaa/go-profile-service/internal/errors"
	"github.com/pribylovaa/go-profile-service/internal/models"
	"github.com/pribylovaa/go-profile-service/internal/service"
	"github.com/pribylovaa/go-profile-service/internal/transport/http/middleware"
)

// maxMultipartMemory — лимит буферизации multipart-формы в памяти;
// остальное net/http сбрасывает во временные файлы.
const maxMultipartMemory = 8 << 20

// CreateProfile — POST /users/{user_id}/profile/.
// Multipart-форма: first_name, last_name, gender, date_of_birth, info, avatar.
// Требуется bearer-токен; создать профиль может сам пользователь
// либо пользователь группы admin.
// Успех: 201 + наружное представление профиля.
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	actingUser, err := h.Auth.UserFromToken(r.Context(), middleware.TokenFromContext(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "user_id")))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			apierrors.WriteError(w, r, &service.ValidationError{Msg: "avatar file is required"})
			return
		}

		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}
	defer func() { _ = file.Close() }()

	input := service.CreateProfileInput{
		ActingUser: actingUser,
		UserID:     userID,
		FirstName:  r.FormValue("first_name"),
		LastName:   r.FormValue("last_name"),
		Gender:     r.FormValue("gender"),
		BirthDate:  r.FormValue("date_of_birth"),
		Info:       r.FormValue("info"),
		Avatar: service.AvatarUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			File:        file,
		},
	}

	profile, err := h.Service.CreateProfile(r.Context(), input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, profileViewFrom(profile))
}

// GetProfile — GET /users/{user_id}/profile/.
// Читать профиль может сам пользователь либо пользователь группы admin.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	actingUser, err := h.Auth.UserFromToken(r.Context(), middleware.TokenFromContext(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "user_id")))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if actingUser.ID != userID && actingUser.Group != models.GroupAdmin {
		apierrors.WriteError(w, r, service.ErrPermissionDenied)
		return
	}

	profile, err := h.Service.ProfileByID(r.Context(), userID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileViewFrom(profile))
}
