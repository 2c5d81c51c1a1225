package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/service"
)

type AIHandler struct {
	svc     *service.AIService
	baseURL string
}

func NewAIHandler(svc *service.AIService, baseURL string) *AIHandler {
	return &AIHandler{svc: svc, baseURL: baseURL}
}

// ProcessAudio godoc
// @Summary Processa áudio de relatório técnico
// @Description Recebe áudio em base64, transcreve e extrai peças e serviços em JSON estruturado.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body model.ProcessAudioRequest true "Áudio em base64 e formato"
// @Success 200 {object} model.ProcessAudioResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 408 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/ai/process-audio [post]
func (h *AIHandler) ProcessAudio(c *gin.Context) {
	var req model.ProcessAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Corpo da requisição inválido", "INVALID_REQUEST_BODY")
		return
	}

	data, err := h.svc.ProcessAudio(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ProcessAudioResponse{
		Success: true,
		Message: "Áudio processado com sucesso",
		Data:    *data,
	})
}

// Status godoc
// @Summary Status do serviço de IA
// @Tags ai
// @Produce json
// @Success 200 {object} model.AIStatusResponse
// @Router /api/ai/status [get]
func (h *AIHandler) Status(c *gin.Context) {
	configured := h.svc.Configured()
	status := "operational"
	if !configured {
		status = "not_configured"
	}

	c.JSON(http.StatusOK, model.AIStatusResponse{
		Success: true,
		Message: "Status do serviço de IA",
		Data: model.AIStatusData{
			APIConfigured:    configured,
			Model:            h.svc.Model(),
			PipelineMode:     h.svc.PipelineMode(),
			SupportedFormats: model.ValidAudioFormats,
			Endpoint:         h.baseURL + "/api/ai/process-audio",
			Status:           status,
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
		},
	})
}
