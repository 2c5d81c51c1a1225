package client

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/model"
)

const (
	mediaBaseURL        = "https://api.cloudinary.com/v1_1"
	mediaRequestTimeout = 60 * time.Second

	// Transformação aplicada em todo upload: limita a 1200x1200,
	// qualidade e formato negociados automaticamente (WebP quando o
	// navegador suporta).
	uploadTransformation = "c_limit,w_1200,h_1200/q_auto:good/f_auto"
)

// MediaClient - uploads de imagem delegados ao serviço de mídia
// hospedado (Cloudinary), com requisições assinadas.
type MediaClient struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

func NewMediaClient(cfg config.MediaConfig) (*MediaClient, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: credenciais do Cloudinary ausentes", ErrNotConfigured)
	}
	return &MediaClient{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   mediaBaseURL,
		httpClient: &http.Client{
			Timeout: mediaRequestTimeout,
		},
	}, nil
}

func (c *MediaClient) CloudName() string {
	return c.cloudName
}

// WithBaseURL troca o endpoint (testes).
func (c *MediaClient) WithBaseURL(baseURL string) *MediaClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

// UploadImage envia uma imagem para a pasta do atendimento.
func (c *MediaClient) UploadImage(ctx context.Context, image io.Reader, folder, publicID string) (*model.UploadedImage, error) {
	params := map[string]string{
		"folder":         folder,
		"public_id":      publicID,
		"timestamp":      strconv.FormatInt(time.Now().Unix(), 10),
		"transformation": uploadTransformation,
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, err
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("file", publicID)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var res uploadResponse
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &model.UploadedImage{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		Bytes:    res.Bytes,
	}, nil
}

// DestroyImage remove a imagem. Devolve false quando o serviço não a
// conhece (já removida ou publicId errado).
func (c *MediaClient) DestroyImage(ctx context.Context, publicID string) (bool, error) {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	form := make([]string, 0, len(params)+2)
	for key, value := range params {
		form = append(form, key+"="+value)
	}
	form = append(form, "api_key="+c.apiKey, "signature="+c.sign(params))

	url := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(strings.Join(form, "&")))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var res struct {
		Result string `json:"result"`
	}
	if err := c.do(req, &res); err != nil {
		return false, err
	}
	return res.Result == "ok", nil
}

func (c *MediaClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: a imagem pode ser muito grande", ErrTimeout)
		}
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.Unmarshal(respBody, out)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: assinatura rejeitada pelo serviço de mídia", ErrUpstreamAuth)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: tente novamente em alguns minutos", ErrRateLimited)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: status %d", ErrBadPayload, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}
}

// sign produz a assinatura exigida pelo serviço: sha1 dos parâmetros
// ordenados por chave concatenados com o api_secret.
func (c *MediaClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
