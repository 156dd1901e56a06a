package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"vprime/config"
	"vprime/infras/jwt"
	"vprime/infras/otel"
	"vprime/permissions"
	"vprime/shared/constant"
	"vprime/shared/failure"
	"vprime/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Auth interface {
	Auth(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole authenticates admin requests and then checks their role against permissions.json.
type AuthRole interface {
	Auth
	Role
}

// tokenErrors maps token failures to the message the caller sees. Order matters for wrapped errors.
var tokenErrors = []struct {
	err     error
	message string
}{
	{jwt.ErrMissingHeader, "Missing authorization header"},
	{jwt.ErrInvalidHeader, "Invalid authorization header format"},
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidToken, "Invalid token"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// Auth validates the bearer access token and puts its claims on the context.
// Public endpoints and unknown routes pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pattern := routePattern(r)
		if m.public(pattern, r.Method) {
			next.ServeHTTP(w, r)

			return
		}

		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		scope.SetAttributes(map[string]any{"http.path": pattern, "http.method": r.Method})

		claims, err := m.authenticate(r)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *authRoleImpl) authenticate(r *http.Request) (*jwt.Claims, error) {
	token, err := jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization))
	if err == nil {
		var claims *jwt.Claims

		claims, err = m.jwtService.ValidateToken(token, jwt.AccessToken)
		if err == nil {
			if claims.UserID == constant.Empty || claims.Email == constant.Empty {
				log.Warn().Str("token_id", claims.TokenID).Msg("access token without subject")

				return nil, failure.Unauthorized("Invalid token claims")
			}

			return claims, nil
		}
	}

	for _, te := range tokenErrors {
		if errors.Is(err, te.err) {
			return nil, failure.Unauthorized(te.message)
		}
	}

	return nil, failure.Unauthorized("Token validation failed")
}

// RBAC lets the request through when the role set by Auth is allowed on the endpoint.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pattern := routePattern(r)
		if m.public(pattern, r.Method) || (m.permission != nil && m.permission.Skip) {
			next.ServeHTTP(w, r)

			return
		}

		if m.permission == nil {
			response.WithError(w, failure.ForbiddenError)

			return
		}

		allowed := m.permission.FindPermissions(pattern, r.Method).Permissions
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

		if len(allowed) > 0 && !slices.Contains(allowed, role) {
			_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
			scope.SetAttributes(map[string]any{"user_role": role, "allowed_roles": allowed})
			scope.TraceError(failure.ForbiddenError)
			scope.End()

			response.WithError(w, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// public reports whether a request goes through without a token.
func (m *authRoleImpl) public(pattern, method string) bool {
	if m.cfg.App.AuthDisabled || pattern == constant.Empty {
		return true
	}

	if m.permission == nil {
		return false
	}

	return m.permission.FindPermissions(pattern, method).Skip
}

// routePattern resolves the registered chi pattern, e.g. /api/gallery/{key}. Empty when no route matches.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return constant.Empty
	}

	return rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
}
