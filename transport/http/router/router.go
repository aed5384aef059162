package router

import (
	_ "etm/docs" // swagger spec served under /swagger
	"etm/internal/handlers/account"
	"etm/internal/handlers/auth"
	"etm/internal/handlers/booking"
	"etm/internal/handlers/employee"
	"etm/internal/handlers/health"
	"etm/internal/handlers/trip"
	"etm/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Account  account.Handler
	Employee employee.Handler
	Trip     trip.Handler
	Booking  booking.Handler
	Health   health.Handler
}

type Middlewares struct {
	App      middleware.AppMiddleware
	AuthRole middleware.AuthRole
}

type Router struct {
	DomainHandlers DomainHandlers
	Middlewares    Middlewares
}

// SetupRoutes mounts the middleware chain and every route. Authentication runs before
// authorization so the role check sees the resolved principal.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Recoverer,
		r.Middlewares.App.CORS(),
		r.Middlewares.App.Tracing,
		r.Middlewares.App.Logger,
		r.Middlewares.App.Metrics,
		r.Middlewares.App.RateLimit(),
		r.Middlewares.AuthRole.Authenticate,
		r.Middlewares.AuthRole.Authorize,
	)

	r.DomainHandlers.Health.Router(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Account.Router(routerGroup)
		r.DomainHandlers.Employee.Router(routerGroup)
		r.DomainHandlers.Trip.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middlewares Middlewares) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middlewares:    middlewares,
	}
}
