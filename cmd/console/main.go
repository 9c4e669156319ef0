package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/edubase/remote-console/internal/console"
	"github.com/edubase/remote-console/internal/environ"
	"github.com/edubase/remote-console/internal/remote"
	"github.com/edubase/remote-console/internal/session"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	consoleToken := os.Getenv("CONSOLE_ADMIN_TOKEN")
	if consoleToken == "" {
		log.Fatal("CONSOLE_ADMIN_TOKEN is not set")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// --- Remote admin module wiring ---
	registry := environ.NewRegistry()
	selector := environ.NewSelector(registry)
	dispatcher := remote.NewDispatcher(registry, log.WithField("component", "dispatcher"))
	sessions := session.NewStore(sessionSecret, log.WithField("component", "session"))
	handler := console.NewHandler(selector, dispatcher, sessions, consoleToken,
		log.WithField("component", "console"))

	console.RegisterRoutes(r, handler)

	// --- health + metrics ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	log.Infof("listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
