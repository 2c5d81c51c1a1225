package client

import "errors"

// Conjunto fechado de falhas de upstream. Os adapters classificam a
// causa aqui; os handlers escolhem o status HTTP pelo tag, nunca pelo
// texto da mensagem.
var (
	ErrNotConfigured      = errors.New("serviço não configurado")
	ErrUpstreamAuth       = errors.New("credencial de upstream inválida")
	ErrRateLimited        = errors.New("limite de requisições excedido")
	ErrTimeout            = errors.New("tempo limite excedido no upstream")
	ErrBadPayload         = errors.New("payload rejeitado pelo upstream")
	ErrUpstreamUnavailable = errors.New("serviço de upstream indisponível")
)
