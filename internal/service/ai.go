package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/config"
	"github.com/climapp/backend/internal/model"
	"github.com/climapp/backend/internal/observability"
)

// Prompt de extração. As regras garantem: transcrição verbatim (sem
// sinônimos nem tradução de termos técnicos), confiança obrigatória por
// item, chaves incrementais por item e objetos vazios quando nada se
// qualifica.
const extractionSystemPrompt = `Você é um assistente especializado em análise de relatórios técnicos de manutenção de ar-condicionado e refrigeração.

Sua tarefa é:
1. Transcrever o áudio com precisão
2. Listar todas as peças/componentes mencionados no áudio
3. Extrair ações ou serviços mencionados no áudio

IMPORTANTE: Retorne APENAS um objeto JSON válido no seguinte formato, sem texto adicional:
{
  "audio_transcrito": "transcrição completa do áudio aqui",
  "resultado": {
    "pecas_materiais": {
      "peca_1": { "nome": "nome literal da peça", "quantidade": "2", "confianca": 95 },
      "peca_2": { "nome": "outra peça", "confianca": 88 }
    },
    "servicos": {
      "servico_1": { "nome": "ação literal mencionada", "confianca": 90 }
    }
  }
}

Regras:
- Copie os nomes EXATAMENTE como foram ditos no áudio. Não parafraseie, não traduza e não substitua termos técnicos por sinônimos
- Todo item DEVE ter o campo "confianca" com um inteiro de 0 a 100 indicando sua certeza
- Numere as chaves em ordem de menção: peca_1, peca_2, ..., servico_1, servico_2, ...
- "quantidade" é opcional; inclua como string somente quando foi dita
- Se não houver peças mencionadas, retorne objeto vazio: {}
- Se não houver serviços mencionados, retorne objeto vazio: {}
- Não adicione explicações ou texto fora do JSON solicitado`

const (
	audioInstruction      = "Analise este áudio de relatório técnico e extraia as informações conforme o formato solicitado:"
	transcriptInstruction = "Analise esta transcrição de relatório técnico e extraia as informações conforme o formato solicitado. O campo audio_transcrito deve repetir a transcrição recebida."
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
	ModelID() string
}

type Extractor interface {
	ExtractFromAudio(ctx context.Context, audio []byte, mimeType, systemPrompt, instruction string) (client.ExtractionOutput, error)
	ExtractFromText(ctx context.Context, transcript, systemPrompt, instruction string) (client.ExtractionOutput, error)
	Model() string
}

// AIService orquestra o pipeline: valida → (transcreve) → extrai →
// interpreta o JSON → filtra por confiança → monta o envelope. Tudo
// com escopo de requisição; nenhum estado é compartilhado.
type AIService struct {
	extractor   Extractor
	transcriber Transcriber
	mode        string
	threshold   int
	metrics     *observability.Metrics
}

func NewAIService(extractor Extractor, transcriber Transcriber, cfg config.AIConfig, metrics *observability.Metrics) *AIService {
	mode := cfg.PipelineMode
	if mode != config.PipelineModeTwoCall {
		mode = config.PipelineModeSingleCall
	}
	return &AIService{
		extractor:   extractor,
		transcriber: transcriber,
		mode:        mode,
		threshold:   cfg.ConfidenceThreshold,
		metrics:     metrics,
	}
}

func (s *AIService) Configured() bool {
	if s.extractor == nil {
		return false
	}
	if s.mode == config.PipelineModeTwoCall && s.transcriber == nil {
		return false
	}
	return true
}

func (s *AIService) Model() string {
	if s.extractor == nil {
		return ""
	}
	return s.extractor.Model()
}

func (s *AIService) PipelineMode() string {
	return s.mode
}

func (s *AIService) ProcessAudio(ctx context.Context, req model.ProcessAudioRequest) (*model.ProcessAudioData, error) {
	audio, format, err := validateProcessAudioRequest(req)
	if err != nil {
		return nil, err
	}

	if s.extractor == nil {
		return nil, fmt.Errorf("%w: AI_API_KEY ausente", client.ErrNotConfigured)
	}

	var (
		out        client.ExtractionOutput
		transcript string
		sttModel   string
	)

	switch s.mode {
	case config.PipelineModeTwoCall:
		if s.transcriber == nil {
			return nil, fmt.Errorf("%w: serviço de transcrição ausente", client.ErrNotConfigured)
		}
		sttStart := time.Now()
		transcript, err = s.transcriber.Transcribe(ctx, audio, format)
		s.metrics.ObserveUpstream("speech", err, time.Since(sttStart))
		if err != nil {
			return nil, err
		}
		sttModel = s.transcriber.ModelID()

		start := time.Now()
		out, err = s.extractor.ExtractFromText(ctx, transcript, extractionSystemPrompt, transcriptInstruction)
		s.metrics.ObserveUpstream("genai", err, time.Since(start))
	default:
		start := time.Now()
		out, err = s.extractor.ExtractFromAudio(ctx, audio, mimeTypeForFormat(format), extractionSystemPrompt, audioInstruction)
		s.metrics.ObserveUpstream("genai", err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	parsed, analise, err := parseExtraction(out.Text)
	if err != nil {
		return nil, err
	}
	if analise == model.ParseRecovered {
		s.metrics.IncRecoveredParse()
	}

	// A transcrição da variante single_call vem do próprio modelo.
	if transcript == "" {
		transcript = parsed.AudioTranscrito
	}

	pecas, pecasDropped := filterByConfidence(orderedItems(parsed.Resultado.PecasMateriais, "peca_"), s.threshold)
	servicos, servicosDropped := filterByConfidence(orderedItems(parsed.Resultado.Servicos, "servico_"), s.threshold)
	s.metrics.AddDiscardedItems(pecasDropped + servicosDropped)

	data := &model.ProcessAudioData{
		Transcricao: transcript,
		Resultado: model.ExtractionResult{
			PecasMateriais: pecas,
			Servicos:       servicos,
		},
		Metadata: model.ExtractionMetadata{
			ModeloIA:          s.extractor.Model(),
			ModeloTranscricao: sttModel,
			Variante:          s.mode,
			Analise:           analise,
			ProcessadoEm:      time.Now().UTC().Format(time.RFC3339),
			FormatoAudio:      format,
			LimiarConfianca:   s.threshold,
			TokensUtilizados:  out.Usage,
		},
	}
	return data, nil
}

func validateProcessAudioRequest(req model.ProcessAudioRequest) ([]byte, string, error) {
	if strings.TrimSpace(req.AudioData) == "" {
		return nil, "", &ValidationError{
			Code:    "MISSING_AUDIO_DATA",
			Message: "Dados de áudio são obrigatórios",
		}
	}

	format := strings.ToLower(strings.TrimSpace(req.AudioFormat))
	if format == "" {
		format = "wav"
	}
	if !isValidAudioFormat(format) {
		return nil, "", &ValidationError{
			Code:    "INVALID_AUDIO_FORMAT",
			Message: fmt.Sprintf("Formato de áudio inválido. Use: %s", strings.Join(model.ValidAudioFormats, ", ")),
		}
	}

	audio, err := decodeBase64Audio(req.AudioData)
	if err != nil {
		return nil, "", &ValidationError{
			Code:    "INVALID_AUDIO_DATA",
			Message: "Dados de áudio devem estar em formato base64",
		}
	}
	if len(audio) == 0 {
		return nil, "", &ValidationError{
			Code:    "MISSING_AUDIO_DATA",
			Message: "Dados de áudio são obrigatórios",
		}
	}
	return audio, format, nil
}

// decodeBase64Audio aceita tanto o payload puro quanto data URLs
// ("data:audio/wav;base64,...") enviadas por gravadores de navegador.
func decodeBase64Audio(data string) ([]byte, error) {
	payload := data
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
}

func isValidAudioFormat(format string) bool {
	for _, valid := range model.ValidAudioFormats {
		if format == valid {
			return true
		}
	}
	return false
}

func mimeTypeForFormat(format string) string {
	switch format {
	case "mp3":
		return "audio/mp3"
	case "ogg":
		return "audio/ogg"
	case "webm":
		return "audio/webm"
	case "flac":
		return "audio/flac"
	default:
		return "audio/wav"
	}
}

type rawExtractedItem struct {
	Nome       string `json:"nome"`
	Quantidade string `json:"quantidade"`
	Confianca  *int   `json:"confianca"`
}

type rawExtraction struct {
	AudioTranscrito string `json:"audio_transcrito"`
	Resultado       struct {
		PecasMateriais map[string]rawExtractedItem `json:"pecas_materiais"`
		Servicos       map[string]rawExtractedItem `json:"servicos"`
	} `json:"resultado"`
}

// parseExtraction tenta o parse estrito e, falhando, recorta o span
// {...} mais externo (modelos às vezes envolvem o JSON em prosa mesmo
// com a instrução em contrário). A recuperação é melhor esforço e fica
// registrada no metadata como "recuperada".
func parseExtraction(text string) (rawExtraction, string, error) {
	var parsed rawExtraction
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return parsed, model.ParseClean, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return rawExtraction{}, "", fmt.Errorf("%w: nenhum objeto JSON na resposta", ErrMalformedAIResponse)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return rawExtraction{}, "", fmt.Errorf("%w: %v", ErrMalformedAIResponse, err)
	}
	return parsed, model.ParseRecovered, nil
}

// orderedItems transforma o objeto chaveado (peca_1, peca_2, ...) em
// lista ordenada pelo índice da chave. Chaves fora do padrão vão para o
// fim, em ordem lexicográfica, para não perder item nenhum.
func orderedItems(raw map[string]rawExtractedItem, prefix string) []model.ExtractedItem {
	if len(raw) == 0 {
		return []model.ExtractedItem{}
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iOk := keyIndex(keys[i], prefix)
		nj, jOk := keyIndex(keys[j], prefix)
		if iOk && jOk {
			return ni < nj
		}
		if iOk != jOk {
			return iOk
		}
		return keys[i] < keys[j]
	})

	items := make([]model.ExtractedItem, 0, len(keys))
	for _, key := range keys {
		entry := raw[key]
		if strings.TrimSpace(entry.Nome) == "" {
			continue
		}
		confianca := 0
		if entry.Confianca != nil {
			confianca = *entry.Confianca
		}
		items = append(items, model.ExtractedItem{
			Nome:       entry.Nome,
			Quantidade: entry.Quantidade,
			Confianca:  confianca,
		})
	}
	return items
}

func keyIndex(key, prefix string) (int, bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// filterByConfidence mantém apenas itens com confiança >= limiar,
// preservando a ordem. Item sem confiança conta como 0 e cai fora.
func filterByConfidence(items []model.ExtractedItem, threshold int) ([]model.ExtractedItem, int) {
	kept := make([]model.ExtractedItem, 0, len(items))
	for _, item := range items {
		if item.Confianca >= threshold {
			kept = append(kept, item)
		}
	}
	return kept, len(items) - len(kept)
}
