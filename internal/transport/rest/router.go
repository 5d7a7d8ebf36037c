package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/frahmantamala/cxm/internal/chat"
	"github.com/frahmantamala/cxm/internal/customer"
	"github.com/frahmantamala/cxm/internal/dashboard"
	"github.com/frahmantamala/cxm/internal/deal"
	"github.com/frahmantamala/cxm/internal/feedback"
	"github.com/frahmantamala/cxm/internal/interaction"
	"github.com/frahmantamala/cxm/internal/product"
	"github.com/frahmantamala/cxm/internal/ticket"
	"github.com/frahmantamala/cxm/internal/transport"
	"github.com/frahmantamala/cxm/internal/transport/middleware"
	"github.com/frahmantamala/cxm/internal/transport/swagger"
	"github.com/frahmantamala/cxm/internal/user"
	"github.com/frahmantamala/cxm/internal/web"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const msgRouteNotFound = "مسیر یافت نشد"

// Handlers groups everything the router mounts. Nil handlers leave their routes unmounted.
type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	Customer    *customer.Handler
	Deal        *deal.Handler
	Ticket      *ticket.Handler
	Feedback    *feedback.Handler
	Interaction *interaction.Handler
	Product     *product.Handler
	Chat        *chat.Handler
	User        *user.Handler
	Dashboard   *dashboard.Handler
	Pages       *web.Handler
	OpenAPI     []byte
}

type RouterConfig struct {
	Env              string
	RequestTimeout   time.Duration
	RateLimitPerMin  int
	LoginLimitPerMin int
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, gatekeeper *middleware.Gatekeeper, h Handlers, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.SecureHeaders(cfg.Env))
	router.Use(gatekeeper.Middleware)

	if h.OpenAPI != nil {
		router.Handle("/openapi.yml", swagger.SpecHandler(h.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	if h.Pages != nil {
		if static, err := web.Static(); err != nil {
			logger.Error("create static sub filesystem", "error", err)
		} else {
			router.Handle("/static/*", static)
		}
		router.Get("/", h.Pages.Home)
		router.Get("/login", h.Pages.Login)
		router.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.Pages.Dashboard)
			r.Get("/chat", h.Pages.Chat)
			r.Get("/profile", h.Pages.Profile)
			r.Get("/{page}", h.Pages.List)
		})
	}

	router.Route("/api", func(api chi.Router) {
		if h.Health != nil {
			api.Get("/health", h.Health.Health)
			api.Get("/ping", h.Health.Ping)
		}

		if h.Chat != nil {
			api.Route("/chat", func(cr chi.Router) {
				// the websocket stream outlives the request timeout
				cr.Get("/conversations/{id}/stream", h.Chat.Stream)
				cr.Group(func(tr chi.Router) {
					tr.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
					tr.Use(middleware.RateLimit(cfg.RateLimitPerMin))
					tr.Get("/users", h.Chat.Directory)
					tr.Get("/conversations", h.Chat.ListConversations)
					tr.Post("/conversations", h.Chat.CreateConversation)
					tr.Get("/conversations/{id}/messages", h.Chat.ListMessages)
					tr.Post("/conversations/{id}/messages", h.Chat.SendMessage)
					tr.Post("/conversations/{id}/read", h.Chat.MarkRead)
				})
			})
		}

		api.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
			r.Use(middleware.RateLimit(cfg.RateLimitPerMin))

			if h.Auth != nil {
				r.Route("/auth", func(ar chi.Router) {
					ar.With(middleware.RateLimit(cfg.LoginLimitPerMin)).Post("/login", h.Auth.Login)
					ar.Post("/register", h.Auth.Register)
					ar.Post("/logout", h.Auth.Logout)
					ar.Get("/me", h.Auth.Me)
				})
			}

			if h.Customer != nil {
				r.Route("/customers", func(cr chi.Router) {
					cr.Get("/", h.Customer.ListCustomers)
					cr.Post("/", h.Customer.CreateCustomer)
					cr.Get("/{id}", h.Customer.GetCustomer)
					cr.Put("/{id}", h.Customer.UpdateCustomer)
					cr.Get("/{id}/summary", h.Customer.CustomerSummary)
					cr.With(middleware.RequireRoles(logger, auth.Managers...)).Delete("/{id}", h.Customer.DeleteCustomer)
				})
			}

			if h.Deal != nil {
				r.Route("/deals", func(dr chi.Router) {
					dr.Get("/", h.Deal.ListDeals)
					dr.Post("/", h.Deal.CreateDeal)
					dr.Get("/pipeline", h.Deal.Pipeline)
					dr.Get("/{id}", h.Deal.GetDeal)
					dr.Put("/{id}", h.Deal.UpdateDeal)
					dr.Patch("/{id}/stage", h.Deal.ChangeStage)
					dr.With(middleware.RequireRoles(logger, auth.Managers...)).Delete("/{id}", h.Deal.DeleteDeal)
				})
			}

			if h.Ticket != nil {
				r.Route("/tickets", func(tr chi.Router) {
					tr.Get("/", h.Ticket.ListTickets)
					tr.Post("/", h.Ticket.CreateTicket)
					tr.Get("/{id}", h.Ticket.GetTicket)
					tr.Put("/{id}", h.Ticket.UpdateTicket)
					tr.Patch("/{id}/status", h.Ticket.ChangeStatus)
					tr.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireRoles(logger, auth.Managers...))
						mr.Patch("/{id}/assign", h.Ticket.AssignTicket)
						mr.Delete("/{id}", h.Ticket.DeleteTicket)
					})
				})
			}

			if h.Feedback != nil {
				r.Route("/feedback", func(fr chi.Router) {
					fr.Get("/", h.Feedback.ListFeedback)
					fr.Post("/", h.Feedback.CreateFeedback)
					fr.Get("/stats", h.Feedback.Stats)
					fr.Get("/{id}", h.Feedback.GetFeedback)
					fr.Patch("/{id}/status", h.Feedback.ChangeStatus)
					fr.With(middleware.RequireRoles(logger, auth.Managers...)).Delete("/{id}", h.Feedback.DeleteFeedback)
				})
			}

			if h.Interaction != nil {
				r.Route("/interactions", func(ir chi.Router) {
					ir.Get("/", h.Interaction.ListInteractions)
					ir.Post("/", h.Interaction.CreateInteraction)
					ir.Delete("/{id}", h.Interaction.DeleteInteraction)
				})
			}

			if h.Product != nil {
				r.Route("/products", func(pr chi.Router) {
					pr.Get("/", h.Product.ListProducts)
					pr.Post("/", h.Product.CreateProduct)
					pr.Get("/{id}", h.Product.GetProduct)
					pr.Put("/{id}", h.Product.UpdateProduct)
					pr.With(middleware.RequireRoles(logger, auth.Managers...)).Delete("/{id}", h.Product.DeleteProduct)
				})
			}

			if h.User != nil {
				r.Route("/profile", func(pr chi.Router) {
					pr.Get("/", h.User.GetProfile)
					pr.Put("/", h.User.UpdateProfile)
					pr.Put("/password", h.User.ChangePassword)
				})
				r.Route("/users", func(ur chi.Router) {
					ur.Get("/modules", h.User.ListModules)
					ur.Get("/{id}/permissions", h.User.GetPermissions)
					ur.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireRoles(logger, auth.Managers...))
						mr.Get("/", h.User.ListUsers)
						mr.Put("/{id}/permissions", h.User.SetPermission)
					})
					ur.With(middleware.RequireRoles(logger, auth.Chiefs...)).Put("/{id}/role", h.User.ChangeRole)
				})
			}

			if h.Dashboard != nil {
				r.Get("/dashboard/stats", h.Dashboard.Stats)
			}
		})

		base := transport.NewBaseHandler(logger)
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			base.WriteError(w, http.StatusNotFound, msgRouteNotFound)
		})
	})
}
