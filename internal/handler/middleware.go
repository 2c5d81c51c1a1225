package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/logger"
	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/observability"
)

const (
	authUserKey = "auth_user"
	rawTokenKey = "raw_id_token"

	maxBodyBytes = 10 << 20
)

// IDTokenVerifier valida ID tokens emitidos pelo provedor de
// identidade. Em produção é um *oidc.IDTokenVerifier.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// RequireAuth exige um ID token válido no header Authorization e deixa
// o usuário resolvido no contexto da requisição.
func RequireAuth(verifier IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if verifier == nil {
			writeError(c, http.StatusServiceUnavailable, "Autenticação não configurada", "SERVICE_NOT_CONFIGURED")
			c.Abort()
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			writeError(c, http.StatusUnauthorized, "Token de autenticação ausente", "UNAUTHORIZED")
			c.Abort()
			return
		}

		idToken, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			writeError(c, http.StatusUnauthorized, "Sessão inválida ou expirada", "UNAUTHORIZED")
			c.Abort()
			return
		}

		var claims struct {
			Email string `json:"email"`
		}
		_ = idToken.Claims(&claims)

		c.Set(authUserKey, &model.AuthUser{UID: idToken.Subject, Email: claims.Email})
		c.Set(rawTokenKey, raw)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityHeaders aplica os cabeçalhos de proteção básicos em toda
// resposta (a API serve só JSON, sem frames nem sniffing de tipo).
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// BodyLimit corta corpos acima de 10MB antes de chegarem aos handlers.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}

// RequestLogger registra cada requisição com latência e status, e
// alimenta as métricas HTTP.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := log.WithRequest(c.Request)

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(route, c.Request.Method, status, elapsed)

		entry = entry.WithFields(map[string]any{
			"status":     status,
			"elapsed_ms": elapsed.Milliseconds(),
		})
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
