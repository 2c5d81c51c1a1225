package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/model"
)

// Audience fixa dos custom tokens: é o valor que o SDK do provedor
// espera em signInWithCustomToken.
const customTokenAudience = "https://identitytoolkit.googleapis.com/google.identity.identitytoolkit.v1.IdentityToolkit"

const (
	sessionPersistent = "persistent"
	sessionShortLived = "session"

	persistentExpiry = 30 * 24 * time.Hour
	shortExpiry      = 24 * time.Hour
)

// TokenMinter assina custom tokens RS256 com a chave da conta de
// serviço. O token vale por 1h (limite do provedor); o cliente o troca
// por um ID token de sessão.
type TokenMinter struct {
	clientEmail string
	key         *rsa.PrivateKey
}

func NewTokenMinter(cfg config.IdentityConfig) (*TokenMinter, error) {
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("%w: credenciais da conta de serviço ausentes", client.ErrNotConfigured)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("FIREBASE_PRIVATE_KEY inválida: %w", err)
	}
	return &TokenMinter{clientEmail: cfg.ClientEmail, key: key}, nil
}

func (m *TokenMinter) Mint(uid string, claims map[string]any) (string, error) {
	now := time.Now()
	payload := jwt.MapClaims{
		"iss": m.clientEmail,
		"sub": m.clientEmail,
		"aud": customTokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
		"uid": uid,
	}
	if len(claims) > 0 {
		payload["claims"] = claims
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, payload)
	return token.SignedString(m.key)
}

// AuthService delega criação e verificação de credenciais ao provedor
// de identidade hospedado e emite os custom tokens da sessão.
type AuthService struct {
	identity *client.IdentityClient
	tokens   *TokenMinter
}

func NewAuthService(identity *client.IdentityClient, tokens *TokenMinter) *AuthService {
	return &AuthService{identity: identity, tokens: tokens}
}

func (s *AuthService) Configured() bool {
	return s.identity != nil && s.tokens != nil
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.SignupData, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: provedor de identidade ausente", client.ErrNotConfigured)
	}

	user, err := s.identity.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Mint(user.UID, nil)
	if err != nil {
		return nil, err
	}
	return &model.SignupData{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CustomToken: token,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginData, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: provedor de identidade ausente", client.ErrNotConfigured)
	}

	user, err := s.identity.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	sessionType := sessionShortLived
	expiry := shortExpiry
	if req.RememberMe {
		sessionType = sessionPersistent
		expiry = persistentExpiry
	}

	token, err := s.tokens.Mint(user.UID, map[string]any{
		"rememberMe":  req.RememberMe,
		"sessionType": sessionType,
	})
	if err != nil {
		return nil, err
	}

	return &model.LoginData{
		UID:             user.UID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		CustomToken:     token,
		RememberMe:      req.RememberMe,
		SessionType:     sessionType,
		SuggestedExpiry: time.Now().UTC().Add(expiry).Format(time.RFC3339),
	}, nil
}

// ForgotPassword delega o envio do email de redefinição ao provedor.
// Email inexistente não vaza para o chamador: responde como sucesso.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*model.ForgotPasswordData, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: provedor de identidade ausente", client.ErrNotConfigured)
	}

	err := s.identity.SendPasswordReset(ctx, email)
	if err != nil {
		var identityErr *client.IdentityError
		if errors.As(err, &identityErr) && identityErr.Code == client.IdentityEmailNotFound {
			return &model.ForgotPasswordData{Email: email}, nil
		}
		return nil, err
	}
	return &model.ForgotPasswordData{Email: email}, nil
}

// Profile resolve os dados completos do dono do ID token.
func (s *AuthService) Profile(ctx context.Context, idToken string) (*model.ProfileData, error) {
	if s.identity == nil {
		return nil, fmt.Errorf("%w: provedor de identidade ausente", client.ErrNotConfigured)
	}

	user, err := s.identity.Lookup(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &model.ProfileData{
		UID:            user.UID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		EmailVerified:  user.EmailVerified,
		CreationTime:   millisToRFC3339(user.CreatedAt),
		LastSignInTime: millisToRFC3339(user.LastLoginAt),
	}, nil
}

func millisToRFC3339(millis string) string {
	if millis == "" {
		return ""
	}
	var ms int64
	if _, err := fmt.Sscanf(millis, "%d", &ms); err != nil {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
