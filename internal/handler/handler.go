package handler

import (
	"encoding/json"
	"net/http"

	"github.com/taskward-dev/taskward/internal/config"
	"github.com/taskward-dev/taskward/internal/logger"
	"github.com/taskward-dev/taskward/internal/service"
)

type Handler struct {
	accounts   service.AccountService
	auth       service.AuthService
	todos      service.TodoService
	categories service.CategoryService
	cfg        *config.Config
}

func New(accounts service.AccountService, auth service.AuthService, todos service.TodoService, categories service.CategoryService, cfg *config.Config) *Handler {
	return &Handler{accounts, auth, todos, categories, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
