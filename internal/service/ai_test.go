package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/model"
)

type stubExtractor struct {
	text       string
	err        error
	lastAudio  []byte
	lastMIME   string
	lastText   string
	audioCalls int
	textCalls  int
}

func (s *stubExtractor) ExtractFromAudio(_ context.Context, audio []byte, mimeType, _, _ string) (client.ExtractionOutput, error) {
	s.audioCalls++
	s.lastAudio = audio
	s.lastMIME = mimeType
	return client.ExtractionOutput{Text: s.text}, s.err
}

func (s *stubExtractor) ExtractFromText(_ context.Context, transcript, _, _ string) (client.ExtractionOutput, error) {
	s.textCalls++
	s.lastText = transcript
	return client.ExtractionOutput{Text: s.text}, s.err
}

func (s *stubExtractor) Model() string { return "modelo-teste" }

type stubTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	return s.transcript, s.err
}

func (s *stubTranscriber) ModelID() string { return "stt-teste" }

func newTestService(extractor Extractor, transcriber Transcriber, mode string, threshold int) *AIService {
	return NewAIService(extractor, transcriber, config.AIConfig{
		PipelineMode:        mode,
		ConfidenceThreshold: threshold,
	}, nil)
}

func audioRequest() model.ProcessAudioRequest {
	return model.ProcessAudioRequest{
		AudioData:   base64.StdEncoding.EncodeToString([]byte("fake audio")),
		AudioFormat: "wav",
	}
}

const wellFormedResponse = `{
	"audio_transcrito": "troquei o capacitor de 35 microfarads e fiz a limpeza",
	"resultado": {
		"pecas_materiais": {
			"peca_2": {"nome": "gás R410A", "confianca": 95},
			"peca_1": {"nome": "capacitor de 35 microfarads", "quantidade": "1", "confianca": 90}
		},
		"servicos": {
			"servico_1": {"nome": "limpeza", "confianca": 88}
		}
	}
}`

func TestProcessAudioParsesAndOrdersItems(t *testing.T) {
	extractor := &stubExtractor{text: wellFormedResponse}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	data, err := svc.ProcessAudio(context.Background(), audioRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.Transcricao != "troquei o capacitor de 35 microfarads e fiz a limpeza" {
		t.Fatalf("unexpected transcricao: %q", data.Transcricao)
	}
	if len(data.Resultado.PecasMateriais) != 2 {
		t.Fatalf("expected 2 pecas, got %d", len(data.Resultado.PecasMateriais))
	}
	if data.Resultado.PecasMateriais[0].Nome != "capacitor de 35 microfarads" {
		t.Fatalf("expected peca_1 first, got %q", data.Resultado.PecasMateriais[0].Nome)
	}
	if data.Resultado.PecasMateriais[0].Quantidade != "1" {
		t.Fatalf("expected quantidade 1, got %q", data.Resultado.PecasMateriais[0].Quantidade)
	}
	if data.Metadata.Analise != model.ParseClean {
		t.Fatalf("expected analise limpa, got %q", data.Metadata.Analise)
	}
	if data.Metadata.Variante != config.PipelineModeSingleCall {
		t.Fatalf("expected variante single_call, got %q", data.Metadata.Variante)
	}
	if extractor.lastMIME != "audio/wav" {
		t.Fatalf("expected audio/wav, got %q", extractor.lastMIME)
	}
}

func TestProcessAudioRecoversJSONFromProse(t *testing.T) {
	extractor := &stubExtractor{text: "Claro! Segue o resultado:\n" + wellFormedResponse + "\nEspero ter ajudado."}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	data, err := svc.ProcessAudio(context.Background(), audioRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Metadata.Analise != model.ParseRecovered {
		t.Fatalf("expected analise recuperada, got %q", data.Metadata.Analise)
	}
	if len(data.Resultado.PecasMateriais) != 2 {
		t.Fatalf("expected 2 pecas, got %d", len(data.Resultado.PecasMateriais))
	}
}

func TestProcessAudioFailsWithoutJSONSpan(t *testing.T) {
	extractor := &stubExtractor{text: "não consegui entender o áudio"}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	_, err := svc.ProcessAudio(context.Background(), audioRequest())
	if !errors.Is(err, ErrMalformedAIResponse) {
		t.Fatalf("expected ErrMalformedAIResponse, got %v", err)
	}
}

func TestProcessAudioFiltersByConfidence(t *testing.T) {
	extractor := &stubExtractor{text: `{
		"audio_transcrito": "x",
		"resultado": {
			"pecas_materiais": {
				"peca_1": {"nome": "filtro", "confianca": 75},
				"peca_2": {"nome": "compressor", "confianca": 95}
			},
			"servicos": {
				"servico_1": {"nome": "troca de filtro"}
			}
		}
	}`}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	data, err := svc.ProcessAudio(context.Background(), audioRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Resultado.PecasMateriais) != 1 || data.Resultado.PecasMateriais[0].Nome != "compressor" {
		t.Fatalf("expected only compressor to survive, got %+v", data.Resultado.PecasMateriais)
	}
	// servico_1 sem confianca conta como 0 e cai fora.
	if len(data.Resultado.Servicos) != 0 {
		t.Fatalf("expected no servicos, got %+v", data.Resultado.Servicos)
	}
}

func TestProcessAudioEmptyResultado(t *testing.T) {
	extractor := &stubExtractor{text: `{"audio_transcrito": "nada a relatar", "resultado": {"pecas_materiais": {}, "servicos": {}}}`}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	data, err := svc.ProcessAudio(context.Background(), audioRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Resultado.PecasMateriais == nil || data.Resultado.Servicos == nil {
		t.Fatal("expected empty slices, got nil")
	}
	if len(data.Resultado.PecasMateriais) != 0 || len(data.Resultado.Servicos) != 0 {
		t.Fatalf("expected empty result, got %+v", data.Resultado)
	}
}

func TestProcessAudioValidation(t *testing.T) {
	svc := newTestService(&stubExtractor{text: wellFormedResponse}, nil, config.PipelineModeSingleCall, 80)

	cases := []struct {
		name string
		req  model.ProcessAudioRequest
		code string
	}{
		{"sem audio", model.ProcessAudioRequest{AudioFormat: "wav"}, "MISSING_AUDIO_DATA"},
		{"formato invalido", model.ProcessAudioRequest{AudioData: "YWJj", AudioFormat: "aac"}, "INVALID_AUDIO_FORMAT"},
		{"base64 invalido", model.ProcessAudioRequest{AudioData: "not base64!!", AudioFormat: "wav"}, "INVALID_AUDIO_DATA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ProcessAudio(context.Background(), tc.req)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validation.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, validation.Code)
			}
		})
	}
}

func TestProcessAudioAcceptsAllFormats(t *testing.T) {
	extractor := &stubExtractor{text: wellFormedResponse}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	for _, format := range model.ValidAudioFormats {
		req := audioRequest()
		req.AudioFormat = format
		if _, err := svc.ProcessAudio(context.Background(), req); err != nil {
			t.Fatalf("format %s rejected: %v", format, err)
		}
	}
}

func TestProcessAudioDefaultsToWav(t *testing.T) {
	extractor := &stubExtractor{text: wellFormedResponse}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	req := audioRequest()
	req.AudioFormat = ""
	data, err := svc.ProcessAudio(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Metadata.FormatoAudio != "wav" {
		t.Fatalf("expected wav default, got %q", data.Metadata.FormatoAudio)
	}
}

func TestProcessAudioTwoCallUsesTranscriber(t *testing.T) {
	extractor := &stubExtractor{text: wellFormedResponse}
	transcriber := &stubTranscriber{transcript: "transcrição dedicada"}
	svc := newTestService(extractor, transcriber, config.PipelineModeTwoCall, 80)

	data, err := svc.ProcessAudio(context.Background(), audioRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transcriber.calls != 1 {
		t.Fatalf("expected 1 transcribe call, got %d", transcriber.calls)
	}
	if extractor.textCalls != 1 || extractor.audioCalls != 0 {
		t.Fatalf("expected text path, got audio=%d text=%d", extractor.audioCalls, extractor.textCalls)
	}
	if extractor.lastText != "transcrição dedicada" {
		t.Fatalf("transcript not forwarded: %q", extractor.lastText)
	}
	// A transcrição reportada vem do serviço dedicado, não do modelo.
	if data.Transcricao != "transcrição dedicada" {
		t.Fatalf("unexpected transcricao: %q", data.Transcricao)
	}
	if data.Metadata.ModeloTranscricao != "stt-teste" {
		t.Fatalf("unexpected modelo_transcricao: %q", data.Metadata.ModeloTranscricao)
	}
}

func TestProcessAudioNotConfigured(t *testing.T) {
	svc := newTestService(nil, nil, config.PipelineModeSingleCall, 80)

	_, err := svc.ProcessAudio(context.Background(), audioRequest())
	if !errors.Is(err, client.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestProcessAudioPropagatesUpstreamErrors(t *testing.T) {
	extractor := &stubExtractor{err: client.ErrRateLimited}
	svc := newTestService(extractor, nil, config.PipelineModeSingleCall, 80)

	_, err := svc.ProcessAudio(context.Background(), audioRequest())
	if !errors.Is(err, client.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestDecodeBase64AudioDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("conteudo"))
	decoded, err := decodeBase64Audio("data:audio/wav;base64," + payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(decoded) != "conteudo" {
		t.Fatalf("unexpected decode: %q", decoded)
	}
}
