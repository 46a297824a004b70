package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskward-dev/taskward/internal/domain"
	"github.com/taskward-dev/taskward/internal/errors"
	"github.com/taskward-dev/taskward/internal/middleware"
)

// userResponse is the identity-bearing account projection returned to
// clients. The password hash and pending ticket never leave the backend.
type userResponse struct {
	Id      domain.UserId `json:"id"`
	Email   string        `json:"email"`
	Name    string        `json:"name"`
	Surname string        `json:"surname"`
	Enabled bool          `json:"enabled"`
	Role    string        `json:"role"`
}

func userResponseFrom(u *domain.User) userResponse {
	return userResponse{
		Id:      u.Id,
		Email:   u.Email,
		Name:    u.Name,
		Surname: u.Surname,
		Enabled: u.Enabled,
		Role:    string(u.Role),
	}
}

type updateUserRequest struct {
	Email    string `validate:"required" json:"email"`
	Password string `validate:"required" json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

type searchUsersRequest struct {
	Email   *string `json:"email"`
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Enabled *bool   `json:"enabled"`
	Role    *string `json:"role"`
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	user, err := h.accounts.User(id)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, userResponseFrom(&user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req updateUserRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	actor := middleware.GetUserFromContext(r)
	if actor == nil {
		writeErrorAndStatusCode(w, errors.Unauthorized("Please sign-in"))
		return
	}

	upd := domain.ProfileUpdate{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	}
	user, err := h.accounts.UpdateProfile(id, upd, actor.Id)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, userResponseFrom(&user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	actor := middleware.GetUserFromContext(r)
	if actor == nil {
		writeErrorAndStatusCode(w, errors.Unauthorized("Please sign-in"))
		return
	}
	if actor.Id != id && !actor.Admin() {
		writeErrorAndStatusCode(w, errors.Conflict("Can only delete your own account"))
		return
	}

	if err := h.accounts.Delete(id); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleActivation flips an account between active and suspended (admin only).
func (h *Handler) ToggleActivation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "user id")
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	enabled, err := h.accounts.ToggleActivation(id)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]bool{"enabled": enabled})
}

// SearchUsers runs the multi-field filter query (admin only).
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parseOptionalQueryInt(r, "page", 0)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}
	size, err := parseOptionalQueryInt(r, "size", h.cfg.Public.SearchPageSize)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req searchUsersRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	filter := domain.UserFilter{
		Email:   req.Email,
		Name:    req.Name,
		Surname: req.Surname,
		Enabled: req.Enabled,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		filter.Role = &role
	}

	users, err := h.accounts.Search(filter, int(page), int(size))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponseFrom(&users[i]))
	}
	writeJSON(w, resp)
}

func parseOptionalQueryInt(r *http.Request, name string, fallback int) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return int64(fallback), nil
	}
	return parseIntParam(raw, name)
}
