package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup godoc
// @Summary Cadastra um novo usuário
// @Description Cria a conta no provedor de identidade e devolve um custom token para login imediato.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Email, senha e nome"
// @Success 201 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Email e senha (mínimo 6 caracteres) são obrigatórios", "INVALID_REQUEST_BODY")
		return
	}

	data, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Usuário criado com sucesso",
		"data":    data,
	})
}

// Login godoc
// @Summary Autentica um usuário
// @Description Valida as credenciais no provedor de identidade e devolve custom token com hint de sessão.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credenciais e rememberMe"
// @Success 200 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Email e senha são obrigatórios", "INVALID_REQUEST_BODY")
		return
	}

	data, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login realizado com sucesso",
		"data":    data,
	})
}

// ForgotPassword godoc
// @Summary Solicita redefinição de senha
// @Description O provedor de identidade envia o email de redefinição. Email inexistente não é revelado.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.ForgotPasswordRequest true "Email da conta"
// @Success 200 {object} map[string]any
// @Failure 400 {object} model.ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Email é obrigatório", "INVALID_REQUEST_BODY")
		return
	}

	data, err := h.svc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Se o email existir, enviaremos as instruções de redefinição",
		"data":    data,
	})
}

// Profile godoc
// @Summary Perfil do usuário autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	idToken := bearerToken(c)
	if idToken == "" {
		writeError(c, http.StatusUnauthorized, "Token de autenticação ausente", "UNAUTHORIZED")
		return
	}

	data, err := h.svc.Profile(c.Request.Context(), idToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Perfil do usuário",
		"data":    data,
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
