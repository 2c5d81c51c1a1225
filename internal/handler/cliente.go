package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/service"
)

type ClienteHandler struct {
	svc *service.ClienteService
}

func NewClienteHandler(svc *service.ClienteService) *ClienteHandler {
	return &ClienteHandler{svc: svc}
}

// Create godoc
// @Summary Cadastra um cliente
// @Description Gera o código sequencial Cli-NNN do usuário e grava o cliente.
// @Tags clientes
// @Accept json
// @Produce json
// @Param request body model.CreateClienteRequest true "Dados do cliente"
// @Success 201 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Router /api/clientes [post]
func (h *ClienteHandler) Create(c *gin.Context) {
	var req model.CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "uid é obrigatório", "INVALID_REQUEST_BODY")
		return
	}

	cliente, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Cliente cadastrado com sucesso",
		"data":    cliente,
	})
}

// List godoc
// @Summary Lista os clientes do usuário
// @Tags clientes
// @Produce json
// @Param uid path string true "UID do usuário"
// @Success 200 {object} model.ClienteListResponse
// @Router /api/clientes/{uid} [get]
func (h *ClienteHandler) List(c *gin.Context) {
	clientes, err := h.svc.List(c.Request.Context(), c.Param("uid"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ClienteListResponse{
		Success: true,
		Count:   len(clientes),
		Data:    clientes,
	})
}

// Get godoc
// @Summary Busca um cliente pelo código
// @Tags clientes
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do cliente (Cli-NNN)"
// @Success 200 {object} map[string]any
// @Failure 404 {object} model.ErrorResponse
// @Router /api/clientes/{uid}/{codigo} [get]
func (h *ClienteHandler) Get(c *gin.Context) {
	cliente, err := h.svc.Get(c.Request.Context(), c.Param("uid"), c.Param("codigo"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cliente,
	})
}

// Update godoc
// @Summary Atualiza um cliente
// @Description Merge campo a campo: só campos presentes no corpo são alterados; codigo e criadoEm são preservados.
// @Tags clientes
// @Accept json
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do cliente (Cli-NNN)"
// @Param request body model.UpdateClienteRequest true "Campos a atualizar"
// @Success 200 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/clientes/{uid}/{codigo} [put]
func (h *ClienteHandler) Update(c *gin.Context) {
	var req model.UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Corpo da requisição inválido", "INVALID_REQUEST_BODY")
		return
	}

	cliente, err := h.svc.Update(c.Request.Context(), c.Param("uid"), c.Param("codigo"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cliente atualizado com sucesso",
		"data":    cliente,
	})
}

// Delete godoc
// @Summary Remove um cliente
// @Tags clientes
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do cliente (Cli-NNN)"
// @Success 200 {object} map[string]any
// @Failure 404 {object} model.ErrorResponse
// @Router /api/clientes/{uid}/{codigo} [delete]
func (h *ClienteHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("uid"), c.Param("codigo")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cliente removido com sucesso",
	})
}
