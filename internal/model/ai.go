package model

// Formatos de áudio aceitos pelo pipeline.
var ValidAudioFormats = []string{"wav", "mp3", "ogg", "webm", "flac"}

type ProcessAudioRequest struct {
	AudioData   string `json:"audioData"`
	AudioFormat string `json:"audioFormat"`
	UID         string `json:"uid,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
}

// ExtractedItem - uma peça/material ou serviço citado no áudio.
// Nome é literal (transcrição verbatim), nunca normalizado.
type ExtractedItem struct {
	Nome       string `json:"nome"`
	Quantidade string `json:"quantidade,omitempty"`
	Confianca  int    `json:"confianca"`
}

type ExtractionResult struct {
	PecasMateriais []ExtractedItem `json:"pecas_materiais"`
	Servicos       []ExtractedItem `json:"servicos"`
}

type TokenUsage struct {
	Prompt     int32 `json:"prompt"`
	Completion int32 `json:"completion"`
	Total      int32 `json:"total"`
}

// Analise de parse: "limpa" = JSON estrito; "recuperada" = extração do
// span {...} de uma resposta envolta em prosa.
const (
	ParseClean     = "limpa"
	ParseRecovered = "recuperada"
)

type ExtractionMetadata struct {
	ModeloIA          string      `json:"modelo_ia"`
	ModeloTranscricao string      `json:"modelo_transcricao,omitempty"`
	Variante          string      `json:"variante"`
	Analise           string      `json:"analise"`
	ProcessadoEm      string      `json:"processado_em"`
	FormatoAudio      string      `json:"formato_audio"`
	LimiarConfianca   int         `json:"limiar_confianca"`
	TokensUtilizados  *TokenUsage `json:"tokens_utilizados,omitempty"`
}

type ProcessAudioData struct {
	Transcricao string             `json:"transcricao,omitempty"`
	Resultado   ExtractionResult   `json:"resultado"`
	Metadata    ExtractionMetadata `json:"metadata"`
}

type ProcessAudioResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    ProcessAudioData `json:"data"`
}

type AIStatusData struct {
	APIConfigured    bool     `json:"api_configured"`
	Model            string   `json:"model"`
	PipelineMode     string   `json:"pipeline_mode"`
	SupportedFormats []string `json:"supported_formats"`
	Endpoint         string   `json:"endpoint"`
	Status           string   `json:"status"`
	Timestamp        string   `json:"timestamp"`
}

type AIStatusResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    AIStatusData `json:"data"`
}
