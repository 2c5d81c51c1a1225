package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/service"
)

type EmbeddingHandler struct {
	svc          *service.EmbeddingService
	atendimentos *service.AtendimentoService
}

func NewEmbeddingHandler(svc *service.EmbeddingService, atendimentos *service.AtendimentoService) *EmbeddingHandler {
	return &EmbeddingHandler{svc: svc, atendimentos: atendimentos}
}

// IndexAtendimento godoc
// @Summary Indexa a descrição do defeito para busca por similaridade
// @Description Gera a embedding da descrição do defeito do atendimento e a armazena. A criação do atendimento já indexa automaticamente; este endpoint reindexação manual.
// @Tags atendimentos
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param codigo path string true "Código do atendimento (Atend-NN)"
// @Success 201 {object} model.CreateEmbeddingResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/atendimentos/{uid}/{codigo}/embedding [post]
func (h *EmbeddingHandler) IndexAtendimento(c *gin.Context) {
	uid := c.Param("uid")
	codigo := c.Param("codigo")

	at, err := h.atendimentos.Get(c.Request.Context(), uid, codigo)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	res, err := h.svc.IndexAtendimento(c.Request.Context(), uid, codigo, at.DescricaoDefeito)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// SearchSimilar godoc
// @Summary Busca atendimentos com defeitos parecidos
// @Description Embeda o texto consultado e devolve os atendimentos do usuário com menor distância cosseno.
// @Tags atendimentos
// @Produce json
// @Param uid path string true "UID do usuário"
// @Param q query string true "Descrição do defeito a comparar"
// @Param limit query int false "Quantidade de resultados (default 5)"
// @Success 200 {object} model.SimilarSearchResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/similares/{uid} [get]
func (h *EmbeddingHandler) SearchSimilar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.svc.SearchSimilar(c.Request.Context(), c.Param("uid"), c.Query("q"), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SimilarSearchResponse{
		Success: true,
		Count:   len(results),
		Data:    results,
	})
}
