package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/service"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractFromAudio(context.Context, []byte, string, string, string) (client.ExtractionOutput, error) {
	f.calls++
	return client.ExtractionOutput{Text: f.text}, f.err
}

func (f *fakeExtractor) ExtractFromText(context.Context, string, string, string) (client.ExtractionOutput, error) {
	f.calls++
	return client.ExtractionOutput{Text: f.text}, f.err
}

func (f *fakeExtractor) Model() string { return "modelo-teste" }

func newAIRouter(extractor service.Extractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAIService(extractor, nil, config.AIConfig{
		PipelineMode:        config.PipelineModeSingleCall,
		ConfidenceThreshold: 80,
	}, nil)
	h := NewAIHandler(svc, "http://localhost:10000")

	r := gin.New()
	r.POST("/api/ai/process-audio", h.ProcessAudio)
	r.GET("/api/ai/status", h.Status)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestProcessAudioHandlerMissingAudio(t *testing.T) {
	extractor := &fakeExtractor{}
	r := newAIRouter(extractor)

	w := postJSON(r, "/api/ai/process-audio", map[string]string{"audioFormat": "wav"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error != "MISSING_AUDIO_DATA" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	// A validação barra antes de qualquer chamada externa.
	if extractor.calls != 0 {
		t.Fatalf("extractor called %d times", extractor.calls)
	}
}

func TestProcessAudioHandlerInvalidFormat(t *testing.T) {
	r := newAIRouter(&fakeExtractor{})

	w := postJSON(r, "/api/ai/process-audio", map[string]string{
		"audioData":   base64.StdEncoding.EncodeToString([]byte("audio")),
		"audioFormat": "aac",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProcessAudioHandlerSuccess(t *testing.T) {
	extractor := &fakeExtractor{text: `{
		"audio_transcrito": "troca do capacitor",
		"resultado": {
			"pecas_materiais": {"peca_1": {"nome": "capacitor", "confianca": 92}},
			"servicos": {}
		}
	}`}
	r := newAIRouter(extractor)

	w := postJSON(r, "/api/ai/process-audio", map[string]string{
		"audioData":   base64.StdEncoding.EncodeToString([]byte("audio")),
		"audioFormat": "mp3",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Transcricao string `json:"transcricao"`
			Resultado   struct {
				PecasMateriais []struct {
					Nome string `json:"nome"`
				} `json:"pecas_materiais"`
			} `json:"resultado"`
			Metadata struct {
				Analise      string `json:"analise"`
				FormatoAudio string `json:"formato_audio"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success true")
	}
	if resp.Data.Transcricao != "troca do capacitor" {
		t.Fatalf("unexpected transcricao: %q", resp.Data.Transcricao)
	}
	if len(resp.Data.Resultado.PecasMateriais) != 1 || resp.Data.Resultado.PecasMateriais[0].Nome != "capacitor" {
		t.Fatalf("unexpected pecas: %+v", resp.Data.Resultado.PecasMateriais)
	}
	if resp.Data.Metadata.Analise != "limpa" || resp.Data.Metadata.FormatoAudio != "mp3" {
		t.Fatalf("unexpected metadata: %+v", resp.Data.Metadata)
	}
}

func TestProcessAudioHandlerBadPayload(t *testing.T) {
	r := newAIRouter(&fakeExtractor{err: client.ErrBadPayload})

	w := postJSON(r, "/api/ai/process-audio", map[string]string{
		"audioData": base64.StdEncoding.EncodeToString([]byte("audio")),
	})
	// Áudio rejeitado pelo serviço externo é erro do chamador, não gateway.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error != "INVALID_AUDIO_DATA" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestProcessAudioHandlerRateLimited(t *testing.T) {
	r := newAIRouter(&fakeExtractor{err: client.ErrRateLimited})

	w := postJSON(r, "/api/ai/process-audio", map[string]string{
		"audioData": base64.StdEncoding.EncodeToString([]byte("audio")),
	})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestProcessAudioHandlerNotConfigured(t *testing.T) {
	r := newAIRouter(nil)

	w := postJSON(r, "/api/ai/process-audio", map[string]string{
		"audioData": base64.StdEncoding.EncodeToString([]byte("audio")),
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestAIStatusHandler(t *testing.T) {
	r := newAIRouter(&fakeExtractor{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ai/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			APIConfigured    bool     `json:"api_configured"`
			Status           string   `json:"status"`
			SupportedFormats []string `json:"supported_formats"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data.APIConfigured || resp.Data.Status != "operational" {
		t.Fatalf("unexpected status data: %+v", resp.Data)
	}
	if len(resp.Data.SupportedFormats) != 5 {
		t.Fatalf("expected 5 formats, got %v", resp.Data.SupportedFormats)
	}
}
