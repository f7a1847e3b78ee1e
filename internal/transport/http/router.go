package http

import (
	"context"
	"net/http"

	"github.com/by22shh/buh-ai-assistant/internal/application/access"
	"github.com/by22shh/buh-ai-assistant/internal/application/audit"
	"github.com/by22shh/buh-ai-assistant/internal/application/auth"
	"github.com/by22shh/buh-ai-assistant/internal/application/document"
	"github.com/by22shh/buh-ai-assistant/internal/application/organization"
	"github.com/by22shh/buh-ai-assistant/internal/application/ratelimit"
	"github.com/by22shh/buh-ai-assistant/internal/application/session"
	"github.com/by22shh/buh-ai-assistant/internal/application/template"
	"github.com/by22shh/buh-ai-assistant/internal/application/user"
	"github.com/by22shh/buh-ai-assistant/internal/config"
	"github.com/by22shh/buh-ai-assistant/internal/domain"
	"github.com/by22shh/buh-ai-assistant/internal/pkg/otp"
	"github.com/by22shh/buh-ai-assistant/internal/transport/http/handler"
	appmiddleware "github.com/by22shh/buh-ai-assistant/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	SessionRepo      SessionRepository
	VerificationRepo VerificationRepository
	Buckets          BucketStore
	OrganizationRepo OrganizationRepository
	DocumentRepo     DocumentRepository
	TemplateRepo     TemplateRepository
	TemplateBodies   TemplateBodyStore
	JWTProvider      TokenProvider
	Hasher           otp.Hasher
	Mail             MailQueue
	Audit            audit.Recorder
}

// NewRouter builds and returns the application router. Background work owned
// by the router stops when ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	rec := deps.Audit
	if rec == nil {
		rec = audit.Nop{}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	globalRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit.GlobalRPS), cfg.RateLimit.GlobalBurst)

	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		UserRepo:    deps.UserRepo,
		JWTProvider: deps.JWTProvider,
		SessionTTL:  cfg.SessionTTL,
		RefreshTTL:  cfg.RefreshTTL,
	})
	userSvc := user.NewService(user.ServiceDeps{UserRepo: deps.UserRepo, AdminEmail: cfg.AdminEmail})
	limiter := ratelimit.NewService(ratelimit.ServiceDeps{
		Store:    deps.Buckets,
		Policies: ratelimit.PoliciesFromConfig(cfg.RateLimit),
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		RateLimiter:      limiter,
		Users:            userSvc,
		Sessions:         sessionSvc,
		Mail:             deps.Mail,
		Hasher:           deps.Hasher,
		Audit:            rec,
		CodeTTL:          cfg.OTP.TTL,
		MaxAttempts:      cfg.OTP.MaxAttempts,
	})
	orgSvc := organization.NewService(deps.OrganizationRepo)
	templateSvc := template.NewService(template.ServiceDeps{
		TemplateRepo: deps.TemplateRepo,
		BodyStore:    deps.TemplateBodies,
	})
	docSvc := document.NewService(document.ServiceDeps{
		DocumentRepo:     deps.DocumentRepo,
		TemplateRepo:     deps.TemplateRepo,
		OrganizationRepo: deps.OrganizationRepo,
		UserRepo:         deps.UserRepo,
		DemoLimit:        cfg.DemoDocumentLimit,
	})
	accessSvc := access.NewService(access.ServiceDeps{
		UserRepo:  deps.UserRepo,
		Audit:     rec,
		DemoLimit: cfg.DemoDocumentLimit,
	})

	cookies := handler.CookieConfig{
		Secure:     cfg.CookieSecure,
		Domain:     cfg.CookieDomain,
		SessionTTL: cfg.SessionTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, sessionSvc, cookies, rec)
	userH := handler.NewUserHandler(userSvc)
	orgH := handler.NewOrganizationHandler(orgSvc)
	docH := handler.NewDocumentHandler(docSvc)
	templateH := handler.NewTemplateHandler(templateSvc)
	accessH := handler.NewAccessHandler(accessSvc)

	r.Get("/health", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(globalRL.Limit)

		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Post("/auth/send-code", authH.SendCode)
		r.Post("/auth/verify-code", authH.VerifyCode)
		r.Post("/auth/refresh", authH.Refresh)
		r.Post("/auth/logout", authH.Logout)
		r.Get("/templates", templateH.List)
		r.Get("/templates/{code}/body", templateH.Body)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(sessionSvc))

			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.UpdateMe)

			r.Get("/organizations", orgH.List)
			r.Post("/organizations", orgH.Create)
			r.Get("/organizations/{id}", orgH.Get)
			r.Put("/organizations/{id}", orgH.Update)
			r.Delete("/organizations/{id}", orgH.Delete)

			r.Get("/documents", docH.List)
			r.Post("/documents", docH.Create)
			r.Get("/documents/{id}", docH.Get)
			r.Put("/documents/{id}", docH.Update)
			r.Delete("/documents/{id}", docH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(rec, domain.RoleAdmin))

				r.Get("/admin/templates", templateH.AdminList)
				r.Get("/admin/templates/{code}", templateH.AdminGet)
				r.Put("/admin/templates/{code}", templateH.AdminUpdate)
				r.Get("/admin/templates/{code}/body", templateH.AdminGetBody)
				r.Put("/admin/templates/{code}/body", templateH.AdminPutBody)

				r.Get("/admin/access", accessH.List)
				r.Post("/admin/access/search", accessH.Search)
				r.Get("/admin/access/{userId}", accessH.Get)
				r.Put("/admin/access/{userId}", accessH.Put)
				r.Delete("/admin/access/{userId}", accessH.Delete)
			})
		})
	})

	return r
}
