//go:build wireinject
// +build wireinject

package di

import (
	"etm/config"
	"etm/infras/jwt"
	"etm/infras/kafka"
	"etm/infras/otel"
	"etm/infras/postgres"
	"etm/infras/redis"
	"etm/infras/s3"
	"etm/permissions"
	"etm/shared/cache"
	"etm/transport/http"
	"etm/transport/http/middleware"
	"etm/transport/http/router"

	"github.com/google/wire"

	accountRepository "etm/internal/domains/account/repository"
	accountService "etm/internal/domains/account/service"
	authService "etm/internal/domains/auth/service"
	bookingEvent "etm/internal/domains/booking/event"
	bookingRepository "etm/internal/domains/booking/repository"
	bookingService "etm/internal/domains/booking/service"
	employeeRepository "etm/internal/domains/employee/repository"
	employeeService "etm/internal/domains/employee/service"
	tripRepository "etm/internal/domains/trip/repository"
	tripService "etm/internal/domains/trip/service"

	accountHandler "etm/internal/handlers/account"
	authHandler "etm/internal/handlers/auth"
	bookingHandler "etm/internal/handlers/booking"
	employeeHandler "etm/internal/handlers/employee"
	healthHandler "etm/internal/handlers/health"
	tripHandler "etm/internal/handlers/trip"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Bind(new(middleware.Resolver), new(authService.Auth)),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	accountRepository.New,
	employeeRepository.New,
	tripRepository.New,
	bookingRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	employeeService.New,
	tripService.New,
	bookingEvent.NewPublisher,
	bookingService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	wire.Struct(new(router.Middlewares), "*"),
	healthChecks,
	healthHandler.New,
	authHandler.New,
	accountHandler.New,
	employeeHandler.New,
	tripHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		accountService.New,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}

func InitializeWorker() *Worker {
	wire.Build(
		configurations,
		otel.New,
		kafka.New,
		wire.Struct(new(Worker), "*"),
	)

	return &Worker{}
}

func InitializeSeeder() *Seeder {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		repositories,
		domains,
		wire.Struct(new(Seeder), "*"),
	)

	return &Seeder{}
}
