package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/climapp/backend/internal/config"
)

const speechRequestTimeout = 60 * time.Second

// SpeechClient - transcrição batch via Google Cloud Speech-to-Text
// (variante two_call). Credenciais vêm de GOOGLE_APPLICATION_CREDENTIALS.
type SpeechClient struct {
	client   *speech.Client
	language string
}

func NewSpeechClient(ctx context.Context, cfg config.SpeechConfig) (*SpeechClient, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return &SpeechClient{client: c, language: cfg.LanguageCode}, nil
}

func (c *SpeechClient) ModelID() string {
	return "google-cloud-speech-to-text/latest_long"
}

// Transcribe envia o áudio inteiro em uma chamada batch com pontuação
// automática. Trechos sem alternativa reconhecida viram o marcador
// [inaudível] para o extrator não inventar conteúdo.
func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, speechRequestTimeout)
	defer cancel()

	recognitionConfig := &speechpb.RecognitionConfig{
		Encoding:                   encodingForFormat(format),
		LanguageCode:               c.language,
		EnableAutomaticPunctuation: true,
		Model:                      "latest_long",
	}
	// Containers Opus não carregam a taxa no header lido pela API.
	if recognitionConfig.Encoding == speechpb.RecognitionConfig_OGG_OPUS ||
		recognitionConfig.Encoding == speechpb.RecognitionConfig_WEBM_OPUS {
		recognitionConfig.SampleRateHertz = 48000
	}

	res, err := c.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: recognitionConfig,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", classifySpeechError(err)
	}

	var parts []string
	for _, result := range res.Results {
		if len(result.Alternatives) == 0 {
			parts = append(parts, "[inaudível]")
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (c *SpeechClient) Close() error {
	return c.client.Close()
}

func encodingForFormat(format string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(format) {
	case "flac":
		return speechpb.RecognitionConfig_FLAC
	case "mp3":
		return speechpb.RecognitionConfig_MP3
	case "ogg":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		// WAV traz o encoding no próprio header.
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func classifySpeechError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: o áudio pode ser muito grande", ErrTimeout)
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return fmt.Errorf("%w: %s", ErrUpstreamAuth, st.Message())
		case codes.ResourceExhausted:
			return fmt.Errorf("%w: tente novamente em alguns minutos", ErrRateLimited)
		case codes.InvalidArgument:
			return fmt.Errorf("%w: %s", ErrBadPayload, st.Message())
		case codes.DeadlineExceeded:
			return fmt.Errorf("%w: o áudio pode ser muito grande", ErrTimeout)
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
