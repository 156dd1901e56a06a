//go:build wireinject
// +build wireinject

package di

import (
	"vprime/config"
	"vprime/infras/jwt"
	"vprime/infras/kafka"
	"vprime/infras/objectstore"
	"vprime/infras/otel"
	"vprime/infras/postgres"
	"vprime/infras/redis"
	authService "vprime/internal/domains/auth/service"
	mediaProcessor "vprime/internal/domains/media/processor"
	mediaService "vprime/internal/domains/media/service"
	projectRepository "vprime/internal/domains/project/repository"
	projectService "vprime/internal/domains/project/service"
	testimonialRepository "vprime/internal/domains/testimonial/repository"
	testimonialService "vprime/internal/domains/testimonial/service"
	userRepository "vprime/internal/domains/user/repository"
	authHandler "vprime/internal/handlers/auth"
	mediaHandler "vprime/internal/handlers/media"
	projectHandler "vprime/internal/handlers/project"
	testimonialHandler "vprime/internal/handlers/testimonial"
	"vprime/permissions"
	"vprime/shared/cache"
	"vprime/transport/http"
	"vprime/transport/http/middleware"
	"vprime/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	objectstore.New,
	wire.Bind(new(http.Pinger), new(*postgres.Connection)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var projectDomain = wire.NewSet(
	projectRepository.New,
	projectService.New,
)

var testimonialDomain = wire.NewSet(
	testimonialRepository.New,
	testimonialService.New,
)

var mediaDomain = wire.NewSet(
	mediaProcessor.New,
	mediaService.New,
)

var domains = wire.NewSet(
	authDomain,
	projectDomain,
	testimonialDomain,
	mediaDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	projectHandler.New,
	testimonialHandler.New,
	mediaHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
