package main

import (
	"context"
	"net/http"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
	"libraryapi/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
)

type application struct {
	dbPool         *pgxpool.Pool
	catalogHandler *catalog.HTTPHandler
	userHandler    *user.HTTPHandler
	userService    *user.Service
}

func (app *application) routes() *http.ServeMux {
	router := http.NewServeMux()
	authGate := httpx.BasicAuthMiddleware(app.userService)

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if app.dbPool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := app.dbPool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.HandleFunc("GET /hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Hello, Library!"))
	})

	router.HandleFunc("POST /create-user", app.userHandler.Register)
	router.Handle("GET /api/v2/users", authGate(http.HandlerFunc(app.userHandler.List)))

	// The catalog is served both at the root and under the versioned
	// prefix; the two surfaces share one handler set and stay identical.
	app.catalogHandler.Register(router, "", authGate)
	app.catalogHandler.Register(router, "/api/v2", authGate)

	return router
}
