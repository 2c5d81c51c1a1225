package model

import "time"

type Cliente struct {
	Codigo      string    `json:"codigo"`
	Nome        string    `json:"nome"`
	Documento   string    `json:"documento"`
	Telefone    string    `json:"telefone"`
	Email       string    `json:"email"`
	CEP         string    `json:"cep"`
	Rua         string    `json:"rua"`
	Numero      string    `json:"numero"`
	Referencia  string    `json:"referencia"`
	Observacoes string    `json:"observacoes"`
	CriadoEm    time.Time `json:"criadoEm"`
}

type CreateClienteRequest struct {
	UID         string `json:"uid" binding:"required"`
	Nome        string `json:"nome"`
	Documento   string `json:"documento"`
	Telefone    string `json:"telefone"`
	Email       string `json:"email"`
	CEP         string `json:"cep"`
	Rua         string `json:"rua"`
	Numero      string `json:"numero"`
	Referencia  string `json:"referencia"`
	Observacoes string `json:"observacoes"`
}

// UpdateClienteRequest usa ponteiros para distinguir campo ausente de
// campo vazio: só o que veio no corpo substitui o valor atual.
type UpdateClienteRequest struct {
	Nome        *string `json:"nome"`
	Documento   *string `json:"documento"`
	Telefone    *string `json:"telefone"`
	Email       *string `json:"email"`
	CEP         *string `json:"cep"`
	Rua         *string `json:"rua"`
	Numero      *string `json:"numero"`
	Referencia  *string `json:"referencia"`
	Observacoes *string `json:"observacoes"`
}

type ClienteListResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []Cliente `json:"data"`
}
