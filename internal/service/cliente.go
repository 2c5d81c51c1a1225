package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/climapp/backend/internal/db"
	"github.com/climapp/backend/internal/model"
)

// ClienteService - cadastro de clientes por usuário, com códigos
// sequenciais Cli-001, Cli-002, ...
type ClienteService struct {
	store *db.Postgres
}

func NewClienteService(store *db.Postgres) *ClienteService {
	return &ClienteService{store: store}
}

func (s *ClienteService) Create(ctx context.Context, req model.CreateClienteRequest) (*model.Cliente, error) {
	if strings.TrimSpace(req.Nome) == "" {
		return nil, &ValidationError{Code: "MISSING_NOME", Message: "Nome do cliente é obrigatório"}
	}

	count, err := s.store.CountClientes(ctx, req.UID)
	if err != nil {
		return nil, err
	}

	cliente := model.Cliente{
		Codigo:      fmt.Sprintf("Cli-%03d", count+1),
		Nome:        strings.TrimSpace(req.Nome),
		Documento:   strings.TrimSpace(req.Documento),
		Telefone:    strings.TrimSpace(req.Telefone),
		Email:       strings.TrimSpace(req.Email),
		CEP:         strings.TrimSpace(req.CEP),
		Rua:         strings.TrimSpace(req.Rua),
		Numero:      strings.TrimSpace(req.Numero),
		Referencia:  strings.TrimSpace(req.Referencia),
		Observacoes: strings.TrimSpace(req.Observacoes),
	}
	if err := s.store.CreateCliente(ctx, req.UID, cliente); err != nil {
		return nil, err
	}

	created, err := s.store.GetCliente(ctx, req.UID, cliente.Codigo)
	if err != nil {
		// O INSERT já passou; devolve o que foi montado.
		return &cliente, nil
	}
	return created, nil
}

func (s *ClienteService) List(ctx context.Context, uid string) ([]model.Cliente, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, &ValidationError{Code: "MISSING_UID", Message: "UID do usuário é obrigatório"}
	}
	return s.store.ListClientes(ctx, uid)
}

func (s *ClienteService) Get(ctx context.Context, uid, codigo string) (*model.Cliente, error) {
	cliente, err := s.store.GetCliente(ctx, uid, codigo)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cliente, nil
}

// Update aplica merge campo a campo, como em AtendimentoService.Update:
// só campos presentes no corpo trocam o valor atual.
func (s *ClienteService) Update(ctx context.Context, uid, codigo string, req model.UpdateClienteRequest) (*model.Cliente, error) {
	atual, err := s.Get(ctx, uid, codigo)
	if err != nil {
		return nil, err
	}

	merged := mergeCliente(*atual, req)
	if err := s.store.UpdateCliente(ctx, uid, merged); err != nil {
		return nil, err
	}
	return s.Get(ctx, uid, codigo)
}

func mergeCliente(atual model.Cliente, req model.UpdateClienteRequest) model.Cliente {
	if req.Nome != nil {
		atual.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Documento != nil {
		atual.Documento = strings.TrimSpace(*req.Documento)
	}
	if req.Telefone != nil {
		atual.Telefone = strings.TrimSpace(*req.Telefone)
	}
	if req.Email != nil {
		atual.Email = strings.TrimSpace(*req.Email)
	}
	if req.CEP != nil {
		atual.CEP = strings.TrimSpace(*req.CEP)
	}
	if req.Rua != nil {
		atual.Rua = strings.TrimSpace(*req.Rua)
	}
	if req.Numero != nil {
		atual.Numero = strings.TrimSpace(*req.Numero)
	}
	if req.Referencia != nil {
		atual.Referencia = strings.TrimSpace(*req.Referencia)
	}
	if req.Observacoes != nil {
		atual.Observacoes = strings.TrimSpace(*req.Observacoes)
	}
	return atual
}

func (s *ClienteService) Delete(ctx context.Context, uid, codigo string) error {
	deleted, err := s.store.DeleteCliente(ctx, uid, codigo)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
