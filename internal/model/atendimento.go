package model

import "time"

// Estágios válidos para o status do atendimento.
var EstagiosValidos = []string{
	"Diagnóstico",
	"Aguardando",
	"Aprovado",
	"Recusado",
	"Executado",
	"Garantia",
}

const StatusPadrao = "Diagnóstico"

type Atendimento struct {
	Codigo           string     `json:"codigo"`
	Produto          string     `json:"Produto"`
	ClienteCodigo    string     `json:"clienteCodigo"`
	ClienteNome      string     `json:"clienteNome"`
	Data             string     `json:"data"`
	DescricaoDefeito string     `json:"descricaoDefeito"`
	Foto             string     `json:"foto,omitempty"`
	Hora             string     `json:"hora"`
	Modelo           string     `json:"modelo"`
	ValorVisita      string     `json:"valorVisita"`
	Status           string     `json:"Status"`
	Orcamento        *Orcamento `json:"orcamento,omitempty"`
	CriadoEm         time.Time  `json:"criadoEm"`
	AtualizadoEm     *time.Time `json:"atualizadoEm,omitempty"`

	// Preenchidos a partir do cadastro do cliente na listagem.
	Rua    string `json:"rua,omitempty"`
	Numero string `json:"numero,omitempty"`
}

type OrcamentoItem struct {
	Nome       string `json:"nome"`
	Quantidade string `json:"quantidade,omitempty"`
	Valor      string `json:"valor,omitempty"`
}

type Garantia struct {
	TemGarantia bool   `json:"temGarantia"`
	Tipo        string `json:"tipo"`
	Tempo       string `json:"tempo"`
}

type Orcamento struct {
	ClienteNome    string          `json:"clienteNome"`
	Produto        string          `json:"produto"`
	Materiais      []OrcamentoItem `json:"materiais"`
	Servicos       []OrcamentoItem `json:"servicos"`
	Garantia       Garantia        `json:"garantia"`
	VisitaRecebida bool            `json:"visitaRecebida"`
	ValorVisita    string          `json:"valorVisita"`
	ValorTotal     string          `json:"valorTotal"`
	Timestamp      string          `json:"timestamp"`
}

type CreateAtendimentoRequest struct {
	UID              string `json:"uid" binding:"required"`
	Produto          string `json:"Produto"`
	ClienteCodigo    string `json:"clienteCodigo"`
	ClienteNome      string `json:"clienteNome"`
	Data             string `json:"data"`
	DescricaoDefeito string `json:"descricaoDefeito"`
	Foto             string `json:"foto"`
	Hora             string `json:"hora"`
	Modelo           string `json:"modelo"`
	ValorVisita      string `json:"valorVisita"`
	Status           string `json:"Status"`
}

type UpdateAtendimentoRequest struct {
	Produto          *string    `json:"Produto"`
	ClienteCodigo    *string    `json:"clienteCodigo"`
	ClienteNome      *string    `json:"clienteNome"`
	Data             *string    `json:"data"`
	DescricaoDefeito *string    `json:"descricaoDefeito"`
	Foto             *string    `json:"foto"`
	Hora             *string    `json:"hora"`
	Modelo           *string    `json:"modelo"`
	ValorVisita      *string    `json:"valorVisita"`
	Status           *string    `json:"Status"`
	Orcamento        *Orcamento `json:"orcamento"`
}

type SaveOrcamentoRequest struct {
	UserID         string          `json:"userId" binding:"required"`
	ClienteNome    string          `json:"clienteNome"`
	Produto        string          `json:"produto"`
	Materiais      []OrcamentoItem `json:"materiais"`
	Servicos       []OrcamentoItem `json:"servicos"`
	Garantia       *Garantia       `json:"garantia"`
	VisitaRecebida bool            `json:"visitaRecebida"`
	ValorVisita    string          `json:"valorVisita"`
	ValorTotal     string          `json:"valorTotal"`
	Timestamp      string          `json:"timestamp"`
}

type AtendimentoListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []Atendimento `json:"data"`
}
