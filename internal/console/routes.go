package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/remote-admin", func(r chi.Router) {
		r.Use(h.recoverer)

		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireCreator)

			r.Post("/logout", h.Logout)

			r.Get("/environment/status", h.EnvironmentStatus)
			r.Post("/environment/select", h.SelectEnvironment)

			r.Get("/api/users", h.proxy(http.MethodGet, "/internal/remote-admin/api/users"))
			r.Post("/api/users", h.proxy(http.MethodPost, "/internal/remote-admin/api/users"))
			r.Get("/api/users/graph", h.proxy(http.MethodGet, "/internal/remote-admin/api/users/graph"))
			r.Get("/api/users/{id}", h.proxy(http.MethodGet, "/internal/remote-admin/api/users/{id}"))
			r.Post("/api/users/{id}", h.proxy(http.MethodPost, "/internal/remote-admin/api/users/{id}"))
			r.Delete("/api/users/{id}", h.proxy(http.MethodDelete, "/internal/remote-admin/api/users/{id}"))

			r.Get("/api/stats", h.proxy(http.MethodGet, "/internal/remote-admin/api/stats"))
			r.Get("/api/audit-logs", h.proxy(http.MethodGet, "/internal/remote-admin/api/audit-logs"))

			r.Get("/api/maintenance", h.proxy(http.MethodGet, "/internal/remote-admin/api/maintenance"))
			r.Post("/api/maintenance", h.proxy(http.MethodPost, "/internal/remote-admin/api/maintenance"))

			r.Get("/api/permissions", h.proxy(http.MethodGet, "/internal/remote-admin/api/permissions"))
			r.Post("/api/permissions", h.proxy(http.MethodPost, "/internal/remote-admin/api/permissions"))

			r.Get("/api/testers", h.proxy(http.MethodGet, "/internal/remote-admin/api/testers"))
			r.Post("/api/testers", h.proxy(http.MethodPost, "/internal/remote-admin/api/testers"))
			r.Post("/api/testers/{id}", h.proxy(http.MethodPost, "/internal/remote-admin/api/testers/{id}"))
			r.Delete("/api/testers/{id}", h.proxy(http.MethodDelete, "/internal/remote-admin/api/testers/{id}"))

			r.Post("/api/family-ties/{id}", h.proxy(http.MethodPost, "/internal/remote-admin/api/family-ties/{id}"))
			r.Delete("/api/family-ties/{id}", h.proxy(http.MethodDelete, "/internal/remote-admin/api/family-ties/{id}"))

			r.Post("/api/enrollments/{id}", h.proxy(http.MethodPost, "/internal/remote-admin/api/enrollments/{id}"))
			r.Delete("/api/enrollments/{id}", h.proxy(http.MethodDelete, "/internal/remote-admin/api/enrollments/{id}"))

			r.Get("/api/tasks/formator", h.proxy(http.MethodGet, "/internal/remote-admin/api/tasks/formator"))
			r.Get("/api/tasks/formator/{id}", h.proxy(http.MethodGet, "/internal/remote-admin/api/tasks/formator/{id}"))
			r.Post("/api/tasks/formator/{id}/review", h.proxy(http.MethodPost, "/internal/remote-admin/api/tasks/formator/{id}/review"))
		})
	})
}
