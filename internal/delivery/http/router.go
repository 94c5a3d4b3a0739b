package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// Controllers bundles the route handlers for NewRouter.
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Category  *controllers.CategoryController
	Event     *controllers.EventController
	RSVP      *controllers.RSVPController
	Dashboard *controllers.DashboardController
}

// NewRouter initializes the HTTP router with all application routes.
// Event listing, event detail, category reads, and activation are public;
// everything else requires a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("GET /auth/activate/{uid}/{token}", c.Auth.Activate)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/logout", auth(c.Auth.Logout))
	mux.HandleFunc("POST /auth/password", auth(c.Auth.ChangePassword))

	// Profile
	mux.HandleFunc("GET /me", auth(c.User.Me))
	mux.HandleFunc("PUT /me", auth(c.User.UpdateMe))
	mux.HandleFunc("POST /me/image", auth(c.User.UploadProfileImage))

	// Participant administration
	mux.HandleFunc("GET /participants", auth(c.User.ListParticipants))
	mux.HandleFunc("POST /participants", auth(c.User.CreateParticipant))
	mux.HandleFunc("PUT /participants/{participantID}", auth(c.User.UpdateParticipant))
	mux.HandleFunc("DELETE /participants/{participantID}", auth(c.User.DeleteParticipant))

	// Categories
	mux.HandleFunc("GET /categories", c.Category.List)
	mux.HandleFunc("GET /categories/{categoryID}", c.Category.Get)
	mux.HandleFunc("POST /categories", auth(c.Category.Create))
	mux.HandleFunc("PUT /categories/{categoryID}", auth(c.Category.Update))
	mux.HandleFunc("DELETE /categories/{categoryID}", auth(c.Category.Delete))

	// Events
	mux.HandleFunc("GET /events", c.Event.List)
	mux.HandleFunc("GET /events/{eventID}", c.Event.Get)
	mux.HandleFunc("POST /events", auth(c.Event.Create))
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Event.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.Delete))
	mux.HandleFunc("POST /events/{eventID}/image", auth(c.Event.UploadImage))

	// RSVPs
	mux.HandleFunc("POST /events/{eventID}/rsvps", auth(c.RSVP.Create))
	mux.HandleFunc("GET /rsvps", auth(c.RSVP.ListMine))

	// Dashboard
	mux.HandleFunc("GET /dashboard", auth(c.Dashboard.Stats))
	mux.HandleFunc("GET /dashboard/data", auth(c.Dashboard.Feed))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
