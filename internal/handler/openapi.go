package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/docs"
)

// OpenAPIDoc devolve o documento OpenAPI gerado.
func OpenAPIDoc(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
}
