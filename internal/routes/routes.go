package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dvillegas/socialnet-backend/internal/handlers"
)

// Setup mounts the route table. auth is the token-validating middleware;
// register, login and the public user listing stay outside it.
func Setup(r *chi.Mux, auth func(http.Handler) http.Handler, users *handlers.UserHandler, follows *handlers.FollowHandler, posts *handlers.PostHandler) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/register", users.Register)
		r.Post("/login", users.Login)
		r.Get("/list", users.List)
		r.Get("/list/{page}", users.List)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/profile/{nick}", users.Profile)
			r.Put("/update", users.Update)
			r.Post("/upload", users.Upload)
			r.Get("/follows/{id}", follows.ListFollowing)
			r.Get("/follows/{id}/{page}", follows.ListFollowing)
			r.Get("/followers/{id}", follows.ListFollowers)
			r.Get("/followers/{id}/{page}", follows.ListFollowers)
		})
	})

	r.Route("/follows", func(r chi.Router) {
		r.Use(auth)
		r.Post("/follow/{userId}", follows.Follow)
		r.Delete("/unfollow/{userId}", follows.Unfollow)
	})

	r.Route("/post", func(r chi.Router) {
		r.Use(auth)
		r.Post("/create", posts.Create)
		r.Get("/user/{id}", posts.ListByUser)
		r.Get("/user/{id}/{page}", posts.ListByUser)
		r.Put("/update/{postId}", posts.Update)
		r.Delete("/delete/{postId}", posts.Delete)
	})
}
