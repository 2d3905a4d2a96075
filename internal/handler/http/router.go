package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/middleware"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	clockHandler ClockHandler,
	timeEntryHandler TimeEntryHandler,
	attestationHandler AttestationHandler,
	payPeriodHandler PayPeriodHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timecard-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			// Tutor clock surface
			r.Route("/clock", func(r chi.Router) {
				r.Use(middleware.RequireTutor)
				r.Get("/", clockHandler.GetState)
				r.Post("/in", clockHandler.ClockIn)
				r.Post("/out", clockHandler.ClockOut)
			})

			r.Route("/timecards", func(r chi.Router) {
				r.Get("/", timeEntryHandler.List)
				r.Get("/{id}", timeEntryHandler.Get)

				// Tutor only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireTutor)
					r.Put("/", timeEntryHandler.SaveDay)
					r.Post("/submit", timeEntryHandler.SubmitDay)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/{id}/decide", timeEntryHandler.Decide)
					r.Put("/{id}", timeEntryHandler.AdminEdit)
				})
			})

			r.Route("/attestations", func(r chi.Router) {
				r.Use(middleware.RequireTutor)
				r.Get("/status", attestationHandler.Status)
				r.Get("/reminder", attestationHandler.Reminder)
				r.Post("/sign", attestationHandler.Sign)
			})

			r.Route("/pay-periods", func(r chi.Router) {
				r.Get("/current", payPeriodHandler.Current)
				r.Get("/previous", payPeriodHandler.Previous)
			})
		})
	})

	return r
}
