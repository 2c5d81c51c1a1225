package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/model"
)

type HealthHandler struct {
	baseURL     string
	environment string
	startedAt   time.Time
}

func NewHealthHandler(baseURL, environment string) *HealthHandler {
	return &HealthHandler{
		baseURL:     baseURL,
		environment: environment,
		startedAt:   time.Now(),
	}
}

// Root godoc
// @Summary Informações da API
// @Tags sistema
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Success:     true,
		Message:     "ClimApp API está funcionando!",
		Version:     "1.0.0",
		Environment: h.environment,
		BaseURL:     h.baseURL,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Endpoints: map[string]string{
			"health":       h.baseURL + "/health",
			"auth":         h.baseURL + "/api/auth",
			"clientes":     h.baseURL + "/api/clientes",
			"atendimentos": h.baseURL + "/api/atendimentos",
			"ai":           h.baseURL + "/api/ai",
			"upload":       h.baseURL + "/api/upload",
			"docs":         h.baseURL + "/openapi.json",
		},
	})
}

// Health godoc
// @Summary Healthcheck
// @Tags sistema
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Success:   true,
		Message:   "Servidor funcionando normalmente",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startedAt).Seconds(),
	})
}

// Endpoint de liveness simples para o probe da plataforma.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// NotFound responde 404 no mesmo envelope do resto da API.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, model.ErrorResponse{
		Success: false,
		Message: "Rota não encontrada: " + c.Request.Method + " " + c.Request.URL.Path,
		Error:   "NOT_FOUND",
	})
}
