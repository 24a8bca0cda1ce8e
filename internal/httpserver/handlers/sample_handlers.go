package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/services"
)

func CreateSample(samples *services.SampleService, lg *zap.SugaredLogger) http.HandlerFunc {
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
		in := services.SampleCreate{
			Name:                       r.FormValue("name"),
			MillReferenceNumber:        r.FormValue("mill_reference_number"),
			BuyerReferenceConstruction: r.FormValue("buyer_reference_construction"),
			Composition:                r.FormValue("composition"),
			Construction:               r.FormValue("construction"),
			Count:                      r.FormValue("count"),
			HangerUUID:                 r.FormValue("hanger_uuid"),
		}
		if gsm != nil {
			in.GSM = *gsm
		}
		if width != nil {
			in.Width = *width
		}
		uuid, err := samples.Create(in, formFile(r, "sample_image"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{
			"message":     "sample created successfully",
			"sample_uuid": uuid,
		})
	}
}

func UpdateSample(samples *services.SampleService, lg *zap.SugaredLogger) http.HandlerFunc {
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
		in := services.SampleUpdate{
			Name:                       formStr(r, "name"),
			MillReferenceNumber:        formStr(r, "mill_reference_number"),
			BuyerReferenceConstruction: formStr(r, "buyer_reference_construction"),
			Composition:                formStr(r, "composition"),
			Construction:               formStr(r, "construction"),
			GSM:                        gsm,
			Width:                      width,
			Count:                      formStr(r, "count"),
			HangerUUID:                 formStr(r, "hanger_uuid"),
		}
		if err := samples.Update(uuid, in, formFile(r, "sample_image")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message":     "sample updated successfully",
			"sample_uuid": uuid,
		})
	}
}

func ListSamples(samples *services.SampleService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := samples.List(auth.FromContext(r.Context()), parseListParams(r))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

func GetSample(samples *services.SampleService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := samples.GetByUUID(auth.FromContext(r.Context()), chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}

func ToggleSampleStatus(samples *services.SampleService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := samples.ToggleActive(chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		msg := "sample deactivated successfully"
		if active {
			msg = "sample activated successfully"
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": msg, "is_active": active})
	}
}

func DeleteSample(samples *services.SampleService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := samples.Delete(chi.URLParam(r, "uuid")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "sample deleted successfully"})
	}
}
