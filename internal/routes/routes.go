package routes

import (
	"net/http"

	"metas/internal/app"
	"metas/internal/handler"
	"metas/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	goal := handler.NewGoalHandler(app.GoalRepository, app.Cfg.JWTSecret)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /goals/stream", middleware.RequireAuth(goal.Stream))
	mux.HandleFunc("POST /goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /goals/{id}", middleware.RequireAuth(goal.Delete))

	// Token issuance stands in for the external identity provider and is
	// only available in development.
	if app.Cfg.IsDevelopment() {
		auth := handler.NewAuthHandler(app.Cfg.JWTSecret, app.Cfg.JWTExpiry)
		rateLimiter := middleware.RateLimitSession()
		mux.HandleFunc("POST /session", rateLimiter(auth.CreateSession))
	}

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.Auth(app.Cfg.JWTSecret),
	)
}
