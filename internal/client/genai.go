package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/model"
	"google.golang.org/genai"
)

const aiRequestTimeout = 60 * time.Second

// AIClient envia áudio (variante single_call) ou transcrição (two_call)
// para o Gemini e devolve o texto bruto da resposta, que a camada de
// serviço ainda precisa interpretar como JSON.
type AIClient struct {
	client *genai.Client
	model  string
}

type ExtractionOutput struct {
	Text  string
	Usage *model.TokenUsage
}

func NewAIClient(cfg config.AIConfig) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: AI_API_KEY ausente", ErrNotConfigured)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	return &AIClient{client: client, model: cfg.Model}, nil
}

func (c *AIClient) Model() string {
	return c.model
}

// ExtractFromAudio - variante single_call: o modelo multimodal recebe o
// áudio junto com a instrução e transcreve + extrai em uma chamada.
func (c *AIClient) ExtractFromAudio(ctx context.Context, audio []byte, mimeType, systemPrompt, instruction string) (ExtractionOutput, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}
	return c.generate(ctx, contents, systemPrompt)
}

// ExtractFromText - variante two_call: só a transcrição é enviada.
func (c *AIClient) ExtractFromText(ctx context.Context, transcript, systemPrompt, instruction string) (ExtractionOutput, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(instruction+"\n\nTRANSCRICAO:\n"+transcript, genai.RoleUser),
	}
	return c.generate(ctx, contents, systemPrompt)
}

func (c *AIClient) generate(ctx context.Context, contents []*genai.Content, systemPrompt string) (ExtractionOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, aiRequestTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.3),
		MaxOutputTokens:  2000,
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(systemPrompt)},
		},
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return ExtractionOutput{}, classifyGenAIError(err)
	}

	text := res.Text()
	if text == "" {
		return ExtractionOutput{}, fmt.Errorf("%w: resposta vazia do modelo", ErrUpstreamUnavailable)
	}

	out := ExtractionOutput{Text: text}
	if res.UsageMetadata != nil {
		out.Usage = &model.TokenUsage{
			Prompt:     res.UsageMetadata.PromptTokenCount,
			Completion: res.UsageMetadata.CandidatesTokenCount,
			Total:      res.UsageMetadata.TotalTokenCount,
		}
	}
	return out, nil
}

func classifyGenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: o áudio pode ser muito grande", ErrTimeout)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUpstreamAuth, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: tente novamente em alguns minutos", ErrRateLimited)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: dados de áudio inválidos ou formato não suportado", ErrBadPayload)
		default:
			return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, apiErr.Code)
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
