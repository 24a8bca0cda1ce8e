package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/services"
)

func CreateUser(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, lg, apperr.Validation("invalid multipart form"))
			return
		}
		in := services.UserCreate{
			FirstName: r.FormValue("first_name"),
			LastName:  r.FormValue("last_name"),
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			MobileNo:  r.FormValue("mobile_no"),
			Gender:    r.FormValue("gender"),
			Role:      r.FormValue("role"),
		}
		uuid, err := users.Create(in, formFile(r, "profile_image"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{
			"message":   "user created successfully",
			"user_uuid": uuid,
		})
	}
}

func ListUsers(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := services.UserFilters{
			FirstName:  q.Get("first_name"),
			Gender:     q.Get("gender"),
			MobileNo:   q.Get("mobile_no"),
			ListParams: parseListParams(r),
		}
		rows, err := users.List(auth.FromContext(r.Context()), f)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

func GetUser(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := users.GetByUUID(auth.FromContext(r.Context()), chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}

// UpdateUser lets a user update their own profile; admins may update
// anyone.
func UpdateUser(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uuid := chi.URLParam(r, "uuid")
		id := auth.FromContext(r.Context())
		if !id.IsAdmin() && id.UUID != uuid {
			respondError(w, lg, apperr.Forbidden("you do not have permission to update this user"))
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, lg, apperr.Validation("invalid multipart form"))
			return
		}
		in := services.UserUpdate{
			FirstName: formStr(r, "first_name"),
			LastName:  formStr(r, "last_name"),
			MobileNo:  formStr(r, "mobile_no"),
			Gender:    formStr(r, "gender"),
		}
		if err := users.Update(uuid, in, formFile(r, "profile_image")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "user updated successfully"})
	}
}

func ToggleUserStatus(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := users.ToggleActive(chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		msg := "user deactivated successfully"
		if active {
			msg = "user activated successfully"
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": msg, "is_active": active})
	}
}

func DeleteUser(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.Delete(chi.URLParam(r, "uuid")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
	}
}
