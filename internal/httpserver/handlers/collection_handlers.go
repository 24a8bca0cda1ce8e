package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/services"
)

func CreateCollection(collections *services.CollectionService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, lg, apperr.Validation("invalid multipart form"))
			return
		}
		uuid, err := collections.Create(r.FormValue("name"), formFile(r, "collection_image"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{
			"message":         "collection created successfully",
			"collection_uuid": uuid,
		})
	}
}

func UpdateCollection(collections *services.CollectionService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uuid := chi.URLParam(r, "uuid")
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, lg, apperr.Validation("invalid multipart form"))
			return
		}
		if err := collections.Update(uuid, formStr(r, "name"), formFile(r, "collection_image")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message":         "collection updated successfully",
			"collection_uuid": uuid,
		})
	}
}

func ListCollections(collections *services.CollectionService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := collections.List(auth.FromContext(r.Context()), parseListParams(r))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

func GetCollection(collections *services.CollectionService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := collections.GetByUUID(auth.FromContext(r.Context()), chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}

func ToggleCollectionStatus(collections *services.CollectionService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := collections.ToggleActive(chi.URLParam(r, "uuid"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		msg := "collection deactivated successfully"
		if active {
			msg = "collection activated successfully"
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": msg, "is_active": active})
	}
}

func DeleteCollection(collections *services.CollectionService, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := collections.Delete(chi.URLParam(r, "uuid")); err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"message": "collection deleted successfully"})
	}
}
