package service

import "errors"

var (
	ErrNotFound            = errors.New("registro não encontrado")
	ErrMalformedAIResponse = errors.New("resposta da IA não está em formato JSON válido")
)

// ValidationError - requisição rejeitada antes de qualquer chamada de
// upstream. Code é o identificador estável que o app consome
// (MISSING_AUDIO_DATA, INVALID_AUDIO_FORMAT, ...).
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
