package db

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/climapp/backend/internal/model"
)

func (db *Postgres) InsertEmbedding(ctx context.Context, uid, codigo, descricao, embeddingModel string, vector []float32) (int64, error) {
	query := `
		INSERT INTO atendimento_embeddings (uid, codigo, descricao, embedding, model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query, uid, codigo, descricao, pgvector.NewVector(vector), embeddingModel).Scan(&id)
	return id, err
}

// SearchSimilar devolve os atendimentos do usuário com a descrição de
// defeito mais próxima do vetor consultado (distância cosseno).
func (db *Postgres) SearchSimilar(ctx context.Context, uid string, vector []float32, limit int) ([]model.SimilarAtendimento, error) {
	query := `
		SELECT codigo, descricao, embedding <=> $2 AS distancia
		FROM atendimento_embeddings
		WHERE uid = $1
		ORDER BY distancia ASC
		LIMIT $3
	`
	rows, err := db.Pool.Query(ctx, query, uid, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.SimilarAtendimento{}
	for rows.Next() {
		var item model.SimilarAtendimento
		if err := rows.Scan(&item.Codigo, &item.Descricao, &item.Distancia); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}
