package routes

import (
	"time"

	"github.com/BradenHooton/gatehouse/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RegisterRoutes mounts the identity endpoints under /api/v1/user.
func RegisterRoutes(router chi.Router, identityHandler *handlers.IdentityHandler) {
	router.Route("/api/v1/user", func(r chi.Router) {
		r.Use(httprate.LimitByIP(100, 1*time.Minute))

		r.Post("/register", identityHandler.Register)
		r.Post("/verify", identityHandler.Verify)
		r.Post("/reverify", identityHandler.ReVerify)
		r.Post("/login", identityHandler.Login)
		// Logout handler exists but is intentionally not wired yet; the
		// frontend still clears tokens client-side only.
		// r.Post("/logout", identityHandler.Logout)
	})
}
