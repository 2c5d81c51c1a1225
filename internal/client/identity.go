package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/climapp/backend/internal/config"
)

const identityBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Códigos de erro do provedor de identidade (Identity Toolkit).
const (
	IdentityEmailExists      = "EMAIL_EXISTS"
	IdentityEmailNotFound    = "EMAIL_NOT_FOUND"
	IdentityInvalidPassword  = "INVALID_PASSWORD"
	IdentityInvalidLogin     = "INVALID_LOGIN_CREDENTIALS"
	IdentityInvalidEmail     = "INVALID_EMAIL"
	IdentityUserDisabled     = "USER_DISABLED"
	IdentityTooManyAttempts  = "TOO_MANY_ATTEMPTS_TRY_LATER"
	IdentityWeakPassword     = "WEAK_PASSWORD"
	IdentityInvalidIDToken   = "INVALID_ID_TOKEN"
)

// IdentityError - falha classificada devolvida pelo provedor.
type IdentityError struct {
	StatusCode int
	Code       string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity provider error %d: %s", e.StatusCode, e.Code)
}

// IdentityClient fala com a REST API do provedor de identidade
// hospedado. A conta do usuário (email/senha) vive inteiramente lá;
// este backend nunca armazena credenciais.
type IdentityClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type IdentityUser struct {
	UID            string
	Email          string
	DisplayName    string
	EmailVerified  bool
	CreatedAt      string
	LastLoginAt    string
}

func NewIdentityClient(cfg config.IdentityConfig) (*IdentityClient, error) {
	if cfg.WebAPIKey == "" {
		return nil, fmt.Errorf("%w: FIREBASE_WEB_API_KEY ausente", ErrNotConfigured)
	}
	return &IdentityClient{
		apiKey:  cfg.WebAPIKey,
		baseURL: identityBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// WithBaseURL troca o endpoint (testes).
func (c *IdentityClient) WithBaseURL(baseURL string) *IdentityClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type signUpResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

func (c *IdentityClient) SignUp(ctx context.Context, email, password, displayName string) (*IdentityUser, error) {
	var res signUpResponse
	err := c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &res)
	if err != nil {
		return nil, err
	}

	user := &IdentityUser{UID: res.LocalID, Email: res.Email}
	if displayName != "" {
		updateErr := c.post(ctx, "accounts:update", map[string]any{
			"idToken":           res.IDToken,
			"displayName":       displayName,
			"returnSecureToken": false,
		}, &struct{}{})
		if updateErr == nil {
			user.DisplayName = displayName
		}
	}
	return user, nil
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Registered  bool   `json:"registered"`
	IDToken     string `json:"idToken"`
}

func (c *IdentityClient) SignInWithPassword(ctx context.Context, email, password string) (*IdentityUser, error) {
	var res signInResponse
	err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &IdentityUser{
		UID:         res.LocalID,
		Email:       res.Email,
		DisplayName: res.DisplayName,
	}, nil
}

// SendPasswordReset dispara o email de redefinição pelo provedor.
func (c *IdentityClient) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, &struct{}{})
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		DisplayName   string `json:"displayName"`
		EmailVerified bool   `json:"emailVerified"`
		CreatedAt     string `json:"createdAt"`
		LastLoginAt   string `json:"lastLoginAt"`
	} `json:"users"`
}

// Lookup resolve o registro completo do usuário dono do ID token.
func (c *IdentityClient) Lookup(ctx context.Context, idToken string) (*IdentityUser, error) {
	var res lookupResponse
	err := c.post(ctx, "accounts:lookup", map[string]any{"idToken": idToken}, &res)
	if err != nil {
		return nil, err
	}
	if len(res.Users) == 0 {
		return nil, &IdentityError{StatusCode: http.StatusNotFound, Code: IdentityEmailNotFound}
	}
	u := res.Users[0]
	return &IdentityUser{
		UID:           u.LocalID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
	}, nil
}

func (c *IdentityClient) post(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &IdentityError{
			StatusCode: resp.StatusCode,
			Code:       parseIdentityErrorCode(respBody),
		}
	}
	return json.Unmarshal(respBody, out)
}

func parseIdentityErrorCode(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error.Message == "" {
		return "UNKNOWN_ERROR"
	}
	// Mensagens como "WEAK_PASSWORD : Password should be..." carregam
	// detalhe depois do código.
	code := parsed.Error.Message
	if idx := strings.IndexAny(code, " :"); idx > 0 {
		code = code[:idx]
	}
	return code
}
