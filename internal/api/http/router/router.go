package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/samarthyatrust/samarthya_backend/config"
	"github.com/samarthyatrust/samarthya_backend/internal/api/http/handler"
	"github.com/samarthyatrust/samarthya_backend/internal/api/http/middleware"
	"github.com/samarthyatrust/samarthya_backend/internal/service/auth"
	"github.com/samarthyatrust/samarthya_backend/internal/service/newsletter"
	"github.com/samarthyatrust/samarthya_backend/internal/service/submission"
	"github.com/samarthyatrust/samarthya_backend/pkg/database"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	Redis         *redis.Client
	DB            *database.DB
	SubmissionSvc submission.Service
	NewsletterSvc newsletter.Service
	AuthSvc       auth.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.AuthSvc)

	submissionH := handler.NewSubmissionHandler(r.p.SubmissionSvc)
	newsletterH := handler.NewNewsletterHandler(r.p.NewsletterSvc)
	authH := handler.NewAuthHandler(r.p.AuthSvc)

	api := app.Group("/api/v1")

	r.registerFormRoutes(api, submissionH)
	r.registerNewsletterRoutes(api, newsletterH)
	r.registerAdminRoutes(api, submissionH, authRequired)
	r.registerAuthRoutes(api, authH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.p.DB.Ping() == nil },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
