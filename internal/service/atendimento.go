package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/climapp/backend/internal/db"
	"github.com/climapp/backend/internal/logger"
	"github.com/climapp/backend/internal/model"
)

var atendimentoCodigoRe = regexp.MustCompile(`^Atend-(\d+)$`)

// AtendimentoService - ciclo de vida do atendimento: criação com
// código sequencial, estágios, orçamento e indexação por similaridade.
type AtendimentoService struct {
	store      *db.Postgres
	embeddings *EmbeddingService
	log        *logger.Logger
}

func NewAtendimentoService(store *db.Postgres, embeddings *EmbeddingService, log *logger.Logger) *AtendimentoService {
	return &AtendimentoService{store: store, embeddings: embeddings, log: log}
}

// nextCodigo gera Atend-NN a partir do maior código existente do
// usuário. Códigos fora do padrão são ignorados no cálculo.
func (s *AtendimentoService) nextCodigo(ctx context.Context, uid string) (string, error) {
	codigos, err := s.store.ListAtendimentoCodigos(ctx, uid)
	if err != nil {
		return "", err
	}
	return nextAtendimentoCodigo(codigos), nil
}

func nextAtendimentoCodigo(codigos []string) string {
	max := 0
	for _, codigo := range codigos {
		match := atendimentoCodigoRe.FindStringSubmatch(codigo)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("Atend-%02d", max+1)
}

// normalizeStatus aceita o estágio em qualquer caixa e devolve a forma
// canônica; valor desconhecido ou vazio cai no padrão Diagnóstico.
func normalizeStatus(status string) string {
	trimmed := strings.TrimSpace(status)
	for _, valido := range model.EstagiosValidos {
		if strings.EqualFold(trimmed, valido) {
			return valido
		}
	}
	return model.StatusPadrao
}

func (s *AtendimentoService) Create(ctx context.Context, req model.CreateAtendimentoRequest) (*model.Atendimento, error) {
	codigo, err := s.nextCodigo(ctx, req.UID)
	if err != nil {
		return nil, err
	}

	at := model.Atendimento{
		Codigo:           codigo,
		Produto:          strings.TrimSpace(req.Produto),
		ClienteCodigo:    strings.TrimSpace(req.ClienteCodigo),
		ClienteNome:      strings.TrimSpace(req.ClienteNome),
		Data:             strings.TrimSpace(req.Data),
		DescricaoDefeito: strings.TrimSpace(req.DescricaoDefeito),
		Foto:             strings.TrimSpace(req.Foto),
		Hora:             strings.TrimSpace(req.Hora),
		Modelo:           strings.TrimSpace(req.Modelo),
		ValorVisita:      strings.TrimSpace(req.ValorVisita),
		Status:           normalizeStatus(req.Status),
	}
	if err := s.store.CreateAtendimento(ctx, req.UID, at); err != nil {
		return nil, err
	}

	// Indexação best-effort: falha na embedding não derruba a criação.
	if s.embeddings != nil && at.DescricaoDefeito != "" {
		if _, err := s.embeddings.IndexAtendimento(ctx, req.UID, at.Codigo, at.DescricaoDefeito); err != nil && s.log != nil {
			s.log.WithComponent("atendimento").WithField("codigo", at.Codigo).
				WithError(err).Warn("falha ao indexar embedding do atendimento")
		}
	}

	created, err := s.store.GetAtendimento(ctx, req.UID, codigo)
	if err != nil {
		return &at, nil
	}
	return created, nil
}

func (s *AtendimentoService) List(ctx context.Context, uid string) ([]model.Atendimento, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, &ValidationError{Code: "MISSING_UID", Message: "UID do usuário é obrigatório"}
	}
	return s.store.ListAtendimentos(ctx, uid)
}

func (s *AtendimentoService) Get(ctx context.Context, uid, codigo string) (*model.Atendimento, error) {
	at, err := s.store.GetAtendimento(ctx, uid, codigo)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return at, nil
}

// Update aplica merge campo a campo: só campos presentes no corpo da
// requisição trocam o valor atual.
func (s *AtendimentoService) Update(ctx context.Context, uid, codigo string, req model.UpdateAtendimentoRequest) (*model.Atendimento, error) {
	at, err := s.Get(ctx, uid, codigo)
	if err != nil {
		return nil, err
	}

	if req.Produto != nil {
		at.Produto = strings.TrimSpace(*req.Produto)
	}
	if req.ClienteCodigo != nil {
		at.ClienteCodigo = strings.TrimSpace(*req.ClienteCodigo)
	}
	if req.ClienteNome != nil {
		at.ClienteNome = strings.TrimSpace(*req.ClienteNome)
	}
	if req.Data != nil {
		at.Data = strings.TrimSpace(*req.Data)
	}
	if req.DescricaoDefeito != nil {
		at.DescricaoDefeito = strings.TrimSpace(*req.DescricaoDefeito)
	}
	if req.Foto != nil {
		at.Foto = strings.TrimSpace(*req.Foto)
	}
	if req.Hora != nil {
		at.Hora = strings.TrimSpace(*req.Hora)
	}
	if req.Modelo != nil {
		at.Modelo = strings.TrimSpace(*req.Modelo)
	}
	if req.ValorVisita != nil {
		at.ValorVisita = strings.TrimSpace(*req.ValorVisita)
	}
	if req.Status != nil {
		at.Status = normalizeStatus(*req.Status)
	}
	if req.Orcamento != nil {
		at.Orcamento = req.Orcamento
	}

	if err := s.store.UpdateAtendimento(ctx, uid, *at); err != nil {
		return nil, err
	}
	return s.Get(ctx, uid, codigo)
}

// SaveOrcamento grava o orçamento do atendimento; o estágio vai para
// Aguardando na mesma escrita.
func (s *AtendimentoService) SaveOrcamento(ctx context.Context, codigo string, req model.SaveOrcamentoRequest) (*model.Atendimento, error) {
	if _, err := s.Get(ctx, req.UserID, codigo); err != nil {
		return nil, err
	}

	timestamp := strings.TrimSpace(req.Timestamp)
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	garantia := model.Garantia{}
	if req.Garantia != nil {
		garantia = *req.Garantia
	}

	orcamento := model.Orcamento{
		ClienteNome:    req.ClienteNome,
		Produto:        req.Produto,
		Materiais:      req.Materiais,
		Servicos:       req.Servicos,
		Garantia:       garantia,
		VisitaRecebida: req.VisitaRecebida,
		ValorVisita:    req.ValorVisita,
		ValorTotal:     req.ValorTotal,
		Timestamp:      timestamp,
	}
	if orcamento.Materiais == nil {
		orcamento.Materiais = []model.OrcamentoItem{}
	}
	if orcamento.Servicos == nil {
		orcamento.Servicos = []model.OrcamentoItem{}
	}

	if err := s.store.SaveOrcamento(ctx, req.UserID, codigo, orcamento); err != nil {
		return nil, err
	}
	return s.Get(ctx, req.UserID, codigo)
}

func (s *AtendimentoService) Delete(ctx context.Context, uid, codigo string) error {
	deleted, err := s.store.DeleteAtendimento(ctx, uid, codigo)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
