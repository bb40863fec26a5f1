package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/http/middleware"
)

type Router struct {
	Leads      *LeadHandler
	Auth       *AuthHandler
	Members    *MemberHandler
	OTP        *OTPHandler
	Newsletter *NewsletterHandler
	Uploads    *UploadHandler
	Cron       *CronHandler
	Health     *HealthHandler

	Tokens      middleware.TokenParser
	Accounts    middleware.AccountChecker
	CORSOrigins []string
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if rt.Health != nil {
		r.Get("/health", rt.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", rt.Leads.Submit)
		r.Post("/newsletter", rt.Newsletter.Subscribe)
		r.Post("/auth/login", rt.Auth.Login)
		r.Post("/cron/stale-sweep", rt.Cron.StaleSweep)

		r.Route("/otp", func(r chi.Router) {
			r.Post("/send", rt.OTP.SendSMS)
			r.Post("/verify", rt.OTP.VerifySMS)
			r.Post("/email/send", rt.OTP.SendEmail)
			r.Post("/email/verify", rt.OTP.VerifyEmail)
		})

		r.Get("/onboarding/{token}", rt.Members.GetOnboarding)
		r.Post("/onboarding/{token}", rt.Members.CompleteOnboarding)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.Tokens, rt.Accounts))

			r.Post("/auth/password", rt.Auth.ChangePassword)
			r.Get("/my-leads", rt.Leads.MyLeads)
			r.Post("/uploads/signature", rt.Uploads.Signature)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleAgent))

				r.Route("/leads", func(r chi.Router) {
					r.Get("/", rt.Leads.List)
					r.Get("/board", rt.Leads.Board)
					r.Get("/{id}", rt.Leads.Get)
					r.Patch("/{id}", rt.Leads.UpdateDetails)
					r.Patch("/{id}/stage", rt.Leads.ChangeStage)
					r.Post("/{id}/recover", rt.Leads.Recover)
					r.Post("/{id}/notes", rt.Leads.AddNote)
					r.With(middleware.RequireRole(entity.RoleAdmin)).Post("/{id}/assign", rt.Leads.Assign)
				})

				r.Route("/members", func(r chi.Router) {
					r.Use(middleware.RequireRole(entity.RoleAdmin))
					r.Get("/", rt.Members.List)
					r.Post("/", rt.Members.Create)
					r.Post("/{id}/verify", rt.Members.Verify)
					r.Post("/{id}/deactivate", rt.Members.Deactivate)
				})
			})
		})
	})

	return r
}
