package di

import (
	authService "vprime/internal/domains/auth/service"
	"vprime/transport/http"
)

// App is the wired server plus the services needed at startup.
type App struct {
	HTTP *http.HTTP
	Auth authService.Auth
}
