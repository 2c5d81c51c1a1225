package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/climapp/backend/internal/client"
	"github.com/climapp/backend/internal/db"
	"github.com/climapp/backend/internal/model"
)

const defaultSimilarLimit = 5

// EmbeddingService indexa descrições de defeito e busca atendimentos
// com problemas parecidos (distância cosseno em pgvector).
type EmbeddingService struct {
	embedder *client.EmbeddingClient
	store    *db.Postgres
}

func NewEmbeddingService(embedder *client.EmbeddingClient, store *db.Postgres) *EmbeddingService {
	return &EmbeddingService{embedder: embedder, store: store}
}

func (s *EmbeddingService) Configured() bool {
	return s.embedder != nil && s.store != nil
}

func (s *EmbeddingService) IndexAtendimento(ctx context.Context, uid, codigo, descricao string) (*model.CreateEmbeddingResponse, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: serviço de embeddings ausente", client.ErrNotConfigured)
	}
	descricao = strings.TrimSpace(descricao)
	if descricao == "" {
		return nil, &ValidationError{Code: "MISSING_DESCRICAO", Message: "Descrição do defeito é obrigatória"}
	}

	vector, modelName, err := s.embedder.EmbedText(ctx, descricao)
	if err != nil {
		return nil, err
	}

	id, err := s.store.InsertEmbedding(ctx, uid, codigo, descricao, modelName, vector)
	if err != nil {
		return nil, err
	}
	return &model.CreateEmbeddingResponse{
		Success:   true,
		ID:        id,
		Codigo:    codigo,
		Model:     modelName,
		Dimension: len(vector),
	}, nil
}

// SearchSimilar embeda a consulta e devolve os atendimentos do usuário
// mais próximos, do menor para o maior valor de distância.
func (s *EmbeddingService) SearchSimilar(ctx context.Context, uid, query string, limit int) ([]model.SimilarAtendimento, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: serviço de embeddings ausente", client.ErrNotConfigured)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Code: "MISSING_QUERY", Message: "Texto de busca é obrigatório"}
	}
	if limit <= 0 || limit > 50 {
		limit = defaultSimilarLimit
	}

	vector, _, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.store.SearchSimilar(ctx, uid, vector, limit)
}
