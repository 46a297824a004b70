package setup

import (
	"net/http"

	"github.com/taskward-dev/taskward/internal/config"
	"github.com/taskward-dev/taskward/internal/handler"
	"github.com/taskward-dev/taskward/internal/jwt"
	"github.com/taskward-dev/taskward/internal/middleware"
	"github.com/taskward-dev/taskward/internal/notify"
	"github.com/taskward-dev/taskward/internal/router"
	"github.com/taskward-dev/taskward/internal/service"
	"github.com/taskward-dev/taskward/internal/storage/pg"
	"github.com/taskward-dev/taskward/internal/ticket"
)

// Dependencies holds everything main needs a handle on after wiring:
// the router to serve and the resources to shut down.
type Dependencies struct {
	Storage    *pg.Storage
	Dispatcher *notify.Dispatcher
	Router     http.Handler
}

func Setup(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(&cfg.Private.Pg)
	if err != nil {
		return nil, err
	}

	sender := notify.NewEmailSender(&cfg.Private.Email)
	dispatcher := notify.NewDispatcher(sender, cfg.Public.NotifyQueueSize, cfg.Public.NotifyWorkers)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	tickets := ticket.New()

	accounts := service.NewAccount(storage, tickets, dispatcher, &cfg.Public)
	auth := service.NewAuth(storage, accounts, jwtService)
	todos := service.NewTodo(storage, storage)
	categories := service.NewCategory(storage)

	h := handler.New(accounts, auth, todos, categories, cfg)
	authMiddleware := middleware.NewAuth(jwtService, cfg.Public.SecureCookies)

	return &Dependencies{
		Storage:    storage,
		Dispatcher: dispatcher,
		Router:     router.New(h, authMiddleware),
	}, nil
}
