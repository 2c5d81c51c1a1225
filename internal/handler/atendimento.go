package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/service"
)

type AtendimentoHandler struct {
	svc     *service.AtendimentoService
	reports *service.ReportService
}

func NewAtendimentoHandler(svc *service.AtendimentoService, reports *service.ReportService) *AtendimentoHandler {
	return &AtendimentoHandler{svc: svc, reports: reports}
}

// Create godoc
// @Summary Abre um atendimento
// @Description Gera o código sequencial Atend-NN do usuário; status inicial Diagnóstico.
// @Tags atendimentos
// @Accept json
// @Produce json
// @Param request body model.CreateAtendimentoRequest true "Dados do atendimento"
// @Success 201 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Router /api/atendimentos [post]
func (h *AtendimentoHandler) Create(c *gin.Context) {
	var req model.CreateAtendimentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "uid é obrigatório", "INVALID_REQUEST_BODY")
		return
	}

	at, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Atendimento criado com sucesso",
		"data":    at,
	})
}

// List godoc
// @Summary Lista os atendimentos do usuário
// @Description Mais recentes primeiro, com rua e numero vindos do cadastro do cliente.
// @Tags atendimentos
// @Produce json
// @Param uid path string true "UID do usuário"
// @Success 200 {object} model.AtendimentoListResponse
// @Router /api/atendimentos/{uid} [get]
func (h *AtendimentoHandler) List(c *gin.Context) {
	atendimentos, err := h.svc.List(c.Request.Context(), c.Param("uid"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.AtendimentoListResponse{
		Success: true,
		Count:   len(atendimentos),
		Data:    atendimentos,
	})
}

// Get godoc
// @Summary Busca um atendimento pelo código
// @Tags atendimentos
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do atendimento (Atend-NN)"
// @Success 200 {object} map[string]any
// @Failure 404 {object} model.ErrorResponse
// @Router /api/atendimentos/{uid}/{codigo} [get]
func (h *AtendimentoHandler) Get(c *gin.Context) {
	at, err := h.svc.Get(c.Request.Context(), c.Param("uid"), c.Param("codigo"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    at,
	})
}

// Update godoc
// @Summary Atualiza um atendimento
// @Description Merge campo a campo: só os campos presentes no corpo são alterados.
// @Tags atendimentos
// @Accept json
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do atendimento (Atend-NN)"
// @Param request body model.UpdateAtendimentoRequest true "Campos a alterar"
// @Success 200 {object} map[string]any
// @Failure 404 {object} model.ErrorResponse
// @Router /api/atendimentos/{uid}/{codigo} [put]
func (h *AtendimentoHandler) Update(c *gin.Context) {
	var req model.UpdateAtendimentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Corpo da requisição inválido", "INVALID_REQUEST_BODY")
		return
	}

	at, err := h.svc.Update(c.Request.Context(), c.Param("uid"), c.Param("codigo"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Atendimento atualizado com sucesso",
		"data":    at,
	})
}

// Delete godoc
// @Summary Remove um atendimento
// @Tags atendimentos
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do atendimento (Atend-NN)"
// @Success 200 {object} map[string]any
// @Failure 404 {object} model.ErrorResponse
// @Router /api/atendimentos/{uid}/{codigo} [delete]
func (h *AtendimentoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("uid"), c.Param("codigo")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Atendimento removido com sucesso",
	})
}

// Estagios godoc
// @Summary Lista os estágios possíveis do atendimento
// @Tags atendimentos
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/estagios/lista [get]
func (h *AtendimentoHandler) Estagios(c *gin.Context) {
	descricoes := map[string]string{
		"Diagnóstico": "Visita técnica realizada, problema em análise",
		"Aguardando":  "Orçamento enviado, aguardando resposta do cliente",
		"Aprovado":    "Orçamento aprovado pelo cliente",
		"Recusado":    "Orçamento recusado pelo cliente",
		"Executado":   "Serviço concluído",
		"Garantia":    "Atendimento coberto pela garantia de um serviço anterior",
	}

	estagios := make([]gin.H, 0, len(model.EstagiosValidos))
	for _, nome := range model.EstagiosValidos {
		estagios = append(estagios, gin.H{
			"nome":      nome,
			"descricao": descricoes[nome],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(estagios),
		"data":    estagios,
		"padrao":  model.StatusPadrao,
	})
}

// SaveOrcamento godoc
// @Summary Grava o orçamento do atendimento
// @Description Salvar o orçamento move o status do atendimento para Aguardando.
// @Tags atendimentos
// @Accept json
// @Produce json
// @Param codigo path string true "Código do atendimento (Atend-NN)"
// @Param request body model.SaveOrcamentoRequest true "Orçamento"
// @Success 200 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/orcamento/{codigo} [post]
func (h *AtendimentoHandler) SaveOrcamento(c *gin.Context) {
	var req model.SaveOrcamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "userId é obrigatório", "INVALID_REQUEST_BODY")
		return
	}

	at, err := h.svc.SaveOrcamento(c.Request.Context(), c.Param("codigo"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Orçamento salvo com sucesso",
		"data":    at,
	})
}

// Relatorio godoc
// @Summary Exporta os atendimentos do usuário em xlsx
// @Tags atendimentos
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param uid path string true "UID do usuário"
// @Success 200 {file} binary
// @Router /api/relatorios/atendimentos/{uid} [get]
func (h *AtendimentoHandler) Relatorio(c *gin.Context) {
	content, filename, err := h.reports.GenerateAtendimentos(c.Request.Context(), c.Param("uid"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
