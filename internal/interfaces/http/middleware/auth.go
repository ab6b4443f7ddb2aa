package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/infrastructure/auth"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by Auth
const (
	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
	UsernameKey = "username"

	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	TenantIDHeader = "X-Tenant-ID"
	UserIDHeader   = "X-User-ID"
)

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthConfig holds configuration for the Auth middleware
type AuthConfig struct {
	Verifier TokenVerifier
	// AllowHeaderIdentity accepts X-Tenant-ID / X-User-ID when no bearer token
	// is sent. Development only; config validation rejects it in production.
	AllowHeaderIdentity bool
	Logger              *zap.Logger
}

// Auth resolves the caller's tenant and user and stores them in the gin
// context, the request context and the request logger. Requests without a
// resolvable identity are rejected with 401.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		id, err := resolveIdentity(c, cfg)
		if err != nil {
			code := dto.ErrCodeUnauthorized
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			log.Debug("authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				code, err.Error(), logger.GetRequestID(c.Request.Context()),
			))
			return
		}

		c.Set(TenantIDKey, id.TenantID)
		c.Set(UserIDKey, id.UserID)
		if id.Username != "" {
			c.Set(UsernameKey, id.Username)
		}

		ctx := auth.WithIdentity(c.Request.Context(), id)
		ctx = logger.With(ctx,
			zap.String("tenant_id", id.TenantID.String()),
			zap.String("user_id", id.UserID.String()),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, cfg AuthConfig) (auth.Identity, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header != "" {
		if !strings.HasPrefix(header, BearerPrefix) {
			return auth.Identity{}, errors.New("authorization header must use the Bearer scheme")
		}
		if cfg.Verifier == nil {
			return auth.Identity{}, errors.New("token verification is not configured")
		}
		claims, err := cfg.Verifier.Verify(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			return auth.Identity{}, err
		}
		return claims.Identity()
	}

	if !cfg.AllowHeaderIdentity {
		return auth.Identity{}, errors.New("missing bearer token")
	}
	tenantID, err := uuid.Parse(c.GetHeader(TenantIDHeader))
	if err != nil || tenantID == uuid.Nil {
		return auth.Identity{}, auth.ErrMissingTenantID
	}
	userID, err := uuid.Parse(c.GetHeader(UserIDHeader))
	if err != nil || userID == uuid.Nil {
		return auth.Identity{}, auth.ErrMissingUserID
	}
	return auth.Identity{TenantID: tenantID, UserID: userID}, nil
}

// GetTenantID returns the tenant resolved by Auth
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GetUserID returns the user resolved by Auth
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}
