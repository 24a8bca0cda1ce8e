package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/services"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, apperr.Validation("invalid request body"))
			return
		}
		pair, err := users.Login(req.Email, req.Password)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, pair)
	}
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func Refresh(tokens *auth.TokenService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, apperr.Validation("invalid request body"))
			return
		}
		pair, err := tokens.Refresh(req.RefreshToken)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, pair)
	}
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

func ForgotPassword(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, apperr.Validation("invalid request body"))
			return
		}
		if err := users.ForgotPassword(req.Email); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "email with reset link sent successfully"})
	}
}

type resetPasswordReq struct {
	NewPassword string `json:"new_password"`
}

func ResetPassword(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, apperr.Validation("invalid request body"))
			return
		}
		if err := users.ResetPassword(r.URL.Query().Get("token"), req.NewPassword); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "password reset successfully"})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func ChangePassword(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, apperr.Validation("invalid request body"))
			return
		}
		id := auth.FromContext(r.Context())
		if err := users.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusAccepted, map[string]string{"message": "password changed successfully"})
	}
}

func Me(users *services.UserService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := users.Me(auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}
