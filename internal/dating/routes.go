package dating

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/dating").Subrouter()
	api.Use(authenticate)

	api.HandleFunc("/discover", handler.DiscoverMatches).Methods(http.MethodGet)
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods(http.MethodGet)
}
