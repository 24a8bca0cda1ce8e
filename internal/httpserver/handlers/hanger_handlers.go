package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/services"
)

func CreateHanger(hangers *services.HangerService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, lg, apperr.Validation("invalid multipart form"))
			return
		}
		gsm, err := formInt(r, "gsm")
		if err != nil {
			respondError(w, lg, err)
			return
		}
		width, err := formInt(r, "width")
		if err != nil {
			respondError(w, lg, err)
			return
		}
		in := services.HangerCreate{
			Name:                r.FormValue("name"),
			Code:                r.FormValue("code"),
			MillReferenceNumber: r.FormValue("mill_reference_number"),
			Construction:        r.FormValue("construction"),
			Composition:         r.FormValue("composition"),
			Count:               r.FormValue("count"),
			CollectionUUID:      r.FormValue("collection_uuid"),
		}
		if gsm != nil {
			in.GSM = *gsm
		}
		if width != nil {
			in.Width = *width
		}
		uuid, err := hangers.Create(in, formFile(r, "hanger_image"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{
			"message":     "hanger created successfully",
			"hanger_uuid": uuid,
		})
	}
}

func UpdateHanger(hangers *services.HangerService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uuid := chi.URLParam(r, "uuid")
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, lg, apperr.Validation("invalid multipart form"))
			return
		}
		gsm, err := formInt(r, "gsm")
		if err != nil {
			respondError(w, lg, err)
			return
		}
		width, err := formInt(r, "width")
		if err != nil {
			respondError(w, lg, err)
			return
		}
		in := services.HangerUpdate{
			Name:                formStr(r, "name"),
			Code:                formStr(r, "code"),
			MillReferenceNumber: formStr(r, "mill_reference_number"),
			Construction:        formStr(r, "construction"),
			Composition:         formStr(r, "composition"),
			GSM:                 gsm,
			Width:               width,
			Count:               formStr(r, "count"),
			CollectionUUID:      formStr(r, "collection_uuid"),
		}
		if err := hangers.Update(uuid, in, formFile(r, "hanger_image")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message":     "hanger updated successfully",
			"hanger_uuid": uuid,
		})
	}
}

func ListHangers(hangers *services.HangerService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := hangers.List(auth.FromContext(r.Context()), parseListParams(r))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

func GetHanger(hangers *services.HangerService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := hangers.GetByUUID(auth.FromContext(r.Context()), chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}

func ToggleHangerStatus(hangers *services.HangerService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := hangers.ToggleActive(chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		msg := "hanger deactivated successfully"
		if active {
			msg = "hanger activated successfully"
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": msg, "is_active": active})
	}
}

func DeleteHanger(hangers *services.HangerService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := hangers.Delete(chi.URLParam(r, "uuid")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "hanger deleted successfully"})
	}
}
