package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskward-dev/taskward/internal/domain"
)

type categoryRequest struct {
	Name string `validate:"required" json:"name"`
}

type categoryResponse struct {
	Id   domain.CategoryId `json:"id"`
	Name string            `json:"name"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	category, err := h.categories.Create(req.Name)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, categoryResponse{category.Id, category.Name})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{c.Id, c.Name})
	}
	writeJSON(w, resp)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "category id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	category, err := h.categories.Get(domain.CategoryId(id))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, categoryResponse{category.Id, category.Name})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "category id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req categoryRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	category, err := h.categories.Update(domain.CategoryId(id), req.Name)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, categoryResponse{category.Id, category.Name})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "category id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	if err := h.categories.Delete(domain.CategoryId(id)); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
