package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/service"
)

// writeServiceError traduz o conjunto fechado de erros da camada de
// serviço em status HTTP. Nenhuma decisão aqui olha texto de mensagem;
// só errors.Is/As sobre os tipos.
func writeServiceError(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: validation.Message,
			Error:   validation.Code,
		})
		return
	}

	var identityErr *client.IdentityError
	if errors.As(err, &identityErr) {
		writeIdentityError(c, identityErr)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "Registro não encontrado", "NOT_FOUND")
	case errors.Is(err, service.ErrMalformedAIResponse):
		writeError(c, http.StatusInternalServerError, "Resposta da IA em formato inesperado", "MALFORMED_AI_RESPONSE")
	case errors.Is(err, client.ErrNotConfigured):
		writeError(c, http.StatusServiceUnavailable, "Serviço não configurado", "SERVICE_NOT_CONFIGURED")
	case errors.Is(err, client.ErrUpstreamAuth):
		writeError(c, http.StatusServiceUnavailable, "Falha de autenticação com o serviço externo", "UPSTREAM_AUTH")
	case errors.Is(err, client.ErrRateLimited):
		writeError(c, http.StatusTooManyRequests, "Limite de requisições excedido, tente novamente em instantes", "RATE_LIMITED")
	case errors.Is(err, client.ErrTimeout):
		writeError(c, http.StatusRequestTimeout, "Tempo limite excedido ao processar a requisição", "TIMEOUT")
	case errors.Is(err, client.ErrBadPayload):
		writeError(c, http.StatusBadRequest, "Dados de áudio inválidos ou incompatíveis", "INVALID_AUDIO_DATA")
	case errors.Is(err, client.ErrUpstreamUnavailable):
		writeError(c, http.StatusServiceUnavailable, "Serviço externo indisponível", "UPSTREAM_UNAVAILABLE")
	default:
		writeError(c, http.StatusInternalServerError, "Erro interno do servidor", "INTERNAL_ERROR")
	}
}

func writeIdentityError(c *gin.Context, err *client.IdentityError) {
	switch err.Code {
	case client.IdentityEmailExists:
		writeError(c, http.StatusConflict, "Email já cadastrado", err.Code)
	case client.IdentityEmailNotFound, client.IdentityInvalidPassword, client.IdentityInvalidLogin:
		writeError(c, http.StatusUnauthorized, "Email ou senha inválidos", "INVALID_CREDENTIALS")
	case client.IdentityInvalidEmail:
		writeError(c, http.StatusBadRequest, "Email inválido", err.Code)
	case client.IdentityWeakPassword:
		writeError(c, http.StatusBadRequest, "Senha muito fraca, use ao menos 6 caracteres", err.Code)
	case client.IdentityUserDisabled:
		writeError(c, http.StatusForbidden, "Conta desativada", err.Code)
	case client.IdentityTooManyAttempts:
		writeError(c, http.StatusTooManyRequests, "Muitas tentativas, aguarde antes de tentar novamente", err.Code)
	case client.IdentityInvalidIDToken:
		writeError(c, http.StatusUnauthorized, "Sessão inválida ou expirada", err.Code)
	default:
		writeError(c, http.StatusBadGateway, "Falha no provedor de identidade", err.Code)
	}
}

func writeError(c *gin.Context, status int, message, code string) {
	c.JSON(status, model.ErrorResponse{
		Success: false,
		Message: message,
		Error:   code,
	})
}
