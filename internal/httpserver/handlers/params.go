package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"texcat/internal/apperr"
	"texcat/internal/query"
)

const maxUploadBytes = 32 << 20

// parseListParams reads search_by, sort_by (repeatable), page and
// per_page from the query string. Bounds are applied by Normalize later.
func parseListParams(r *http.Request) query.ListParams {
	q := r.URL.Query()
	p := query.ListParams{
		SearchBy: q.Get("search_by"),
		SortBy:   q["sort_by"],
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		p.PerPage = v
	}
	return p
}

// formFile returns the named upload, or nil when the field is absent.
// The request must already be parsed as multipart.
func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

// formStr returns a pointer to the form value, nil when empty or absent.
// Partial updates treat both the same way.
func formStr(r *http.Request, key string) *string {
	v := r.FormValue(key)
	if v == "" {
		return nil
	}
	return &v
}

// formInt parses an optional integer form value.
func formInt(r *http.Request, key string) (*int, error) {
	v := r.FormValue(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperr.Validation("%s must be an integer", key)
	}
	return &n, nil
}
