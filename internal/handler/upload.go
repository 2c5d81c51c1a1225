package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/service"
)

type UploadHandler struct {
	svc     *service.UploadService
	baseURL string
}

func NewUploadHandler(svc *service.UploadService, baseURL string) *UploadHandler {
	return &UploadHandler{svc: svc, baseURL: baseURL}
}

// UploadFoto godoc
// @Summary Envia uma foto do atendimento
// @Description Multipart com campos foto, userId e atendimentoId. A imagem é redimensionada para no máximo 1200x1200.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param foto formData file true "Imagem (máx 10MB)"
// @Param userId formData string true "UID do usuário"
// @Param atendimentoId formData string true "Código do atendimento"
// @Success 200 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/upload/foto [post]
func (h *UploadHandler) UploadFoto(c *gin.Context) {
	file, err := c.FormFile("foto")
	if err != nil {
		writeError(c, http.StatusBadRequest, "Nenhuma imagem enviada no campo foto", "MISSING_FILE")
		return
	}

	image, err := h.svc.UploadSingle(c.Request.Context(), c.PostForm("userId"), c.PostForm("atendimentoId"), file)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Foto enviada com sucesso",
		"data":    image,
	})
}

// UploadFotos godoc
// @Summary Envia várias fotos de uma vez
// @Description Até 10 imagens no campo fotos, enviadas em paralelo. A resposta carrega o desfecho de cada uma; o lote falha se qualquer item falhar.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param fotos formData file true "Imagens (máx 10, 10MB cada)"
// @Param userId formData string true "UID do usuário"
// @Param atendimentoId formData string true "Código do atendimento"
// @Success 200 {object} map[string]any
// @Failure 207 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Router /api/upload/fotos [post]
func (h *UploadHandler) UploadFotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, http.StatusBadRequest, "Formulário multipart inválido", "INVALID_REQUEST_BODY")
		return
	}

	data, err := h.svc.UploadBatch(c.Request.Context(), c.PostForm("userId"), c.PostForm("atendimentoId"), form.File["fotos"])
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if data.Failed > 0 {
		c.JSON(http.StatusMultiStatus, gin.H{
			"success": false,
			"message": "Uma ou mais fotos falharam no envio",
			"data":    data,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Fotos enviadas com sucesso",
		"data":    data,
	})
}

type deleteFotoRequest struct {
	PublicID string `json:"publicId" binding:"required"`
}

// DeleteFoto godoc
// @Summary Remove uma foto do serviço de mídia
// @Tags upload
// @Accept json
// @Produce json
// @Param request body deleteFotoRequest true "publicId da imagem"
// @Success 200 {object} map[string]any
// @Failure 404 {object} model.ErrorResponse
// @Router /api/upload/foto [delete]
func (h *UploadHandler) DeleteFoto(c *gin.Context) {
	var req deleteFotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "publicId é obrigatório", "INVALID_REQUEST_BODY")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), req.PublicID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Foto removida com sucesso",
	})
}

// Status godoc
// @Summary Status do serviço de upload
// @Tags upload
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/upload/status [get]
func (h *UploadHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status do serviço de upload",
		"data":    h.svc.Status(h.baseURL),
	})
}
