package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warbler/handlers"
	"warbler/monitoring"
	"warbler/templates"
)

// SetupRoutes initializes all the application routes
// The routing logic is isolated here
func SetupRoutes(h *handlers.Handler, systemHandler *handlers.SystemHandler) http.Handler {
	router := mux.NewRouter()
	router.Use(monitoring.InstrumentHandler)

	// System routes never look up the session user.
	router.HandleFunc("/health", systemHandler.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", templates.Static()))

	app := router.PathPrefix("/").Subrouter()
	app.Use(h.LoadCurrentUser)

	app.HandleFunc("/", h.Homepage).Methods("GET")

	// Auth routes
	app.HandleFunc("/signup", h.Signup).Methods("GET", "POST")
	app.HandleFunc("/login", h.Login).Methods("GET", "POST")
	app.HandleFunc("/logout", h.Logout).Methods("GET")

	// User routes
	users := app.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.ListUsers).Methods("GET")
	users.HandleFunc("/profile", h.EditProfile).Methods("GET", "POST")
	users.HandleFunc("/delete", h.DeleteUser).Methods("POST")
	users.HandleFunc("/follow/{id:[0-9]+}", h.Follow).Methods("POST")
	users.HandleFunc("/stop-following/{id:[0-9]+}", h.StopFollowing).Methods("POST")
	users.HandleFunc("/toggle_like/{id:[0-9]+}", h.ToggleLike).Methods("POST")
	users.HandleFunc("/{id:[0-9]+}", h.ShowUser).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}/following", h.ShowFollowing).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}/followers", h.ShowFollowers).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}/likes", h.ShowLikes).Methods("GET")

	// Message routes
	app.HandleFunc("/messages/new", h.NewMessage).Methods("GET", "POST")
	app.HandleFunc("/messages/{id:[0-9]+}", h.ShowMessage).Methods("GET")
	app.HandleFunc("/messages/{id:[0-9]+}/delete", h.DeleteMessage).Methods("POST")
	app.HandleFunc("/api/messages", h.APIMessages).Methods("GET")

	// Middleware set with Use only runs on matched routes.
	router.NotFoundHandler = monitoring.InstrumentHandler(h.LoadCurrentUser(http.HandlerFunc(h.NotFound)))

	return monitoring.LogRequests(router)
}
