package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sitecrm/sitecrm-backend/api/controllers"
	"github.com/sitecrm/sitecrm-backend/api/middleware"
	authsvc "github.com/sitecrm/sitecrm-backend/internal/auth"
	"github.com/sitecrm/sitecrm-backend/internal/customfields"
	"github.com/sitecrm/sitecrm-backend/internal/entities"
	"github.com/sitecrm/sitecrm-backend/internal/forms"
	"github.com/sitecrm/sitecrm-backend/internal/products"
	"github.com/sitecrm/sitecrm-backend/internal/relationships"
	"github.com/sitecrm/sitecrm-backend/pkg/config"
	"github.com/sitecrm/sitecrm-backend/pkg/db"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
	"github.com/sitecrm/sitecrm-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService *authsvc.Service,
	entityService entities.Service,
	relationshipService relationships.Service,
	fieldService customfields.Service,
	formService forms.Service,
	productService products.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// typed-nil guard: a nil *redis.Client must not reach handlers as a
	// non-nil interface
	var cachePinger redis.Pinger
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		cachePinger = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/entities/{kind}", func(r chi.Router) {
			r.Get("/", controllers.ListEntities(entityService, logg))
			r.Post("/", controllers.CreateEntity(entityService, logg))
			r.Get("/{id}", controllers.GetEntity(entityService, logg))
			r.Put("/{id}", controllers.UpdateEntity(entityService, logg))
			r.Delete("/{id}", controllers.DeleteEntity(entityService, logg))
			r.Post("/{id}/contact-points/{channel}", controllers.MutateContactPoint(entityService, logg))
		})

		r.Route("/relationships", func(r chi.Router) {
			r.Post("/add", controllers.AddRelationships(relationshipService, logg))
			r.Post("/primary", controllers.SetPrimary(relationshipService, logg))
		})
		r.Post("/sites/{siteId}/walk-around-contact", controllers.SetWalkAroundContact(relationshipService, logg))

		r.Route("/custom-fields", func(r chi.Router) {
			r.Get("/", controllers.ListCustomFields(fieldService, logg))
			r.Post("/", controllers.CreateCustomField(fieldService, logg))
			r.Post("/reorder", controllers.ReorderCustomFields(fieldService, logg))
			r.Put("/{id}", controllers.UpdateCustomField(fieldService, logg))
			r.Delete("/{id}", controllers.DeleteCustomField(fieldService, logg))
		})

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", controllers.ListForms(formService, logg))
			r.Post("/", controllers.CreateForm(formService, logg))
			r.Get("/{id}", controllers.GetForm(formService, logg))
			r.Put("/{id}", controllers.UpdateForm(formService, logg))
			r.Delete("/{id}", controllers.DeleteForm(formService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/seed", controllers.SeedSelection(productService, logg))
			r.Post("/reorder-all", controllers.ReorderAllProducts(productService, logg))
			r.Get("/{id}", controllers.GetProduct(productService, logg))
			r.Put("/{id}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})
	})

	return r
}
