package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/registrar/internal/app/auth"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	ContextUserID             = "userID"
	ContextUsername           = "username"
	ContextRole               = "role"
	ContextMustChangePassword = "mustChangePassword"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	authz      *appauth.AuthorizationService
}

// NewAuthMiddleware creates a new AuthMiddleware. authz may be nil, in which
// case RoleRequired trusts the role carried by the token.
func NewAuthMiddleware(jwtService *auth.JWTService, authz *appauth.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		authz:      authz,
	}
}

// JWTAuth validates the bearer token. A missing token is answered with 401,
// a malformed, forged or expired one with 403.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if errors.Is(err, auth.ErrMissingToken) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		var claims *auth.Claims
		if err == nil {
			claims, err = m.jwtService.ValidateToken(tokenString)
		}
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Access denied").WithDetails("Invalid token")
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				errorDetail.Code = dto.ErrorCodeExpiredToken
				errorDetail.Details = "Token has expired"
			case errors.Is(err, auth.ErrInvalidFormat):
				errorDetail.Details = "Invalid token format"
			}

			logger.Ctx(c.Request.Context()).Debug().Err(err).Str("path", c.FullPath()).Msg("Rejected token")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextMustChangePassword, claims.MustChangePassword)

		lgr := logger.Ctx(c.Request.Context()).With().Int64("userId", claims.UserID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), lgr))

		c.Next()
	}
}

// RoleRequired lets the request through only for the given roles. The role is
// read from the token, then confirmed against the account when an
// AuthorizationService is configured.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		userID, ok := GetUserID(c)
		if role == "" || !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		allowed := false
		for _, r := range roles {
			if models.RoleType(role) == r {
				allowed = true
				break
			}
		}
		if allowed && m.authz != nil {
			if err := m.authz.ValidateRole(c.Request.Context(), userID, roles...); err != nil {
				if !errors.Is(err, apperrors.ErrPermissionDenied) {
					HandleAPIError(c, err)
					c.Abort()
					return
				}
				allowed = false
			}
		}

		if !allowed {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// PasswordRotated rejects tokens issued to accounts that still use an
// admin-issued password. Only identity and password change stay reachable.
func (m *AuthMiddleware) PasswordRotated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(ContextMustChangePassword) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodePasswordChange, "Password change required").
				WithSeverity(dto.ErrorSeverityWarning).
				WithDetails("Change the temporary password with PUT /api/v1/auth/password")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID set by JWTAuth
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}
