package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"warriorhub/internal/delivery/http/controllers"
	"warriorhub/internal/delivery/http/middleware"
	"warriorhub/internal/domain"

	_ "warriorhub/docs"
)

// NewRouter initializes the HTTP router with all application routes.
// Browse routes are public (actor resolved when a token is presented);
// mutating routes require authentication.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	eventController *controllers.EventController,
	userController *controllers.UserController,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier, logger)
	optionalAuth := middleware.OptionalAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", userController.SignUp)
	mux.HandleFunc("POST /auth/login", userController.Login)

	// Public browse
	mux.HandleFunc("GET /events", optionalAuth(eventController.ListEvents))
	mux.HandleFunc("GET /events/calendar/{year}/{month}", optionalAuth(eventController.ListCalendarMonth))
	mux.HandleFunc("GET /events/{eventID}", optionalAuth(eventController.GetEvent))
	mux.HandleFunc("GET /categories", eventController.ListCategories)

	// Event management
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/me", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("PUT /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Interest
	mux.HandleFunc("POST /events/{eventID}/interest", requireAuth(eventController.ToggleInterest))
	mux.HandleFunc("GET /events/{eventID}/interest", requireAuth(eventController.GetInterest))

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(userController.GetMe))
	mux.HandleFunc("GET /users", requireAuth(userController.ListUsers))
	mux.HandleFunc("PATCH /users/{userID}/role", requireAuth(userController.UpdateUserRole))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
