package db

import (
	"context"
	"encoding/json"

	"github.com/climapp/backend/internal/model"
)

const atendimentoColumns = `
	codigo, produto, cliente_codigo, cliente_nome, data, descricao_defeito,
	foto, hora, modelo, valor_visita, status, orcamento, criado_em, atualizado_em
`

func (db *Postgres) CreateAtendimento(ctx context.Context, uid string, at model.Atendimento) error {
	query := `
		INSERT INTO atendimentos (uid, codigo, produto, cliente_codigo, cliente_nome, data, descricao_defeito, foto, hora, modelo, valor_visita, status, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	`
	_, err := db.Pool.Exec(ctx, query,
		uid,
		at.Codigo,
		at.Produto,
		at.ClienteCodigo,
		at.ClienteNome,
		at.Data,
		at.DescricaoDefeito,
		at.Foto,
		at.Hora,
		at.Modelo,
		at.ValorVisita,
		at.Status,
	)
	return err
}

// ListAtendimentoCodigos devolve só os códigos existentes do usuário,
// usados para gerar o próximo Atend-NN.
func (db *Postgres) ListAtendimentoCodigos(ctx context.Context, uid string) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT codigo FROM atendimentos WHERE uid = $1`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codigos []string
	for rows.Next() {
		var codigo string
		if err := rows.Scan(&codigo); err != nil {
			return nil, err
		}
		codigos = append(codigos, codigo)
	}
	return codigos, rows.Err()
}

// ListAtendimentos lista os atendimentos do usuário (mais recentes
// primeiro), com rua e numero vindos do cadastro do cliente quando o
// clienteCodigo resolve.
func (db *Postgres) ListAtendimentos(ctx context.Context, uid string) ([]model.Atendimento, error) {
	query := `
		SELECT a.codigo, a.produto, a.cliente_codigo, a.cliente_nome, a.data, a.descricao_defeito,
		       a.foto, a.hora, a.modelo, a.valor_visita, a.status, a.orcamento, a.criado_em, a.atualizado_em,
		       COALESCE(c.rua, ''), COALESCE(c.numero, '')
		FROM atendimentos a
		LEFT JOIN clientes c ON c.uid = a.uid AND c.codigo = a.cliente_codigo
		WHERE a.uid = $1
		ORDER BY a.criado_em DESC
	`
	rows, err := db.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	atendimentos := []model.Atendimento{}
	for rows.Next() {
		var at model.Atendimento
		var orcamentoRaw []byte
		if err := rows.Scan(
			&at.Codigo,
			&at.Produto,
			&at.ClienteCodigo,
			&at.ClienteNome,
			&at.Data,
			&at.DescricaoDefeito,
			&at.Foto,
			&at.Hora,
			&at.Modelo,
			&at.ValorVisita,
			&at.Status,
			&orcamentoRaw,
			&at.CriadoEm,
			&at.AtualizadoEm,
			&at.Rua,
			&at.Numero,
		); err != nil {
			return nil, err
		}
		if err := decodeOrcamento(orcamentoRaw, &at); err != nil {
			return nil, err
		}
		atendimentos = append(atendimentos, at)
	}
	return atendimentos, rows.Err()
}

func (db *Postgres) GetAtendimento(ctx context.Context, uid, codigo string) (*model.Atendimento, error) {
	query := `SELECT ` + atendimentoColumns + ` FROM atendimentos WHERE uid = $1 AND codigo = $2`

	var at model.Atendimento
	var orcamentoRaw []byte
	err := db.Pool.QueryRow(ctx, query, uid, codigo).Scan(
		&at.Codigo,
		&at.Produto,
		&at.ClienteCodigo,
		&at.ClienteNome,
		&at.Data,
		&at.DescricaoDefeito,
		&at.Foto,
		&at.Hora,
		&at.Modelo,
		&at.ValorVisita,
		&at.Status,
		&orcamentoRaw,
		&at.CriadoEm,
		&at.AtualizadoEm,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeOrcamento(orcamentoRaw, &at); err != nil {
		return nil, err
	}
	return &at, nil
}

// UpdateAtendimento regrava o registro inteiro preservando codigo e
// criado_em; o merge campo a campo acontece na camada de serviço.
func (db *Postgres) UpdateAtendimento(ctx context.Context, uid string, at model.Atendimento) error {
	orcamentoRaw, err := encodeOrcamento(at.Orcamento)
	if err != nil {
		return err
	}

	query := `
		UPDATE atendimentos
		SET produto = $3, cliente_codigo = $4, cliente_nome = $5, data = $6,
		    descricao_defeito = $7, foto = $8, hora = $9, modelo = $10,
		    valor_visita = $11, status = $12, orcamento = $13, atualizado_em = NOW()
		WHERE uid = $1 AND codigo = $2
	`
	_, err = db.Pool.Exec(ctx, query,
		uid,
		at.Codigo,
		at.Produto,
		at.ClienteCodigo,
		at.ClienteNome,
		at.Data,
		at.DescricaoDefeito,
		at.Foto,
		at.Hora,
		at.Modelo,
		at.ValorVisita,
		at.Status,
		orcamentoRaw,
	)
	return err
}

// SaveOrcamento grava o orçamento e move o status para Aguardando.
func (db *Postgres) SaveOrcamento(ctx context.Context, uid, codigo string, orcamento model.Orcamento) error {
	raw, err := json.Marshal(orcamento)
	if err != nil {
		return err
	}
	query := `
		UPDATE atendimentos
		SET orcamento = $3, status = 'Aguardando', atualizado_em = NOW()
		WHERE uid = $1 AND codigo = $2
	`
	_, err = db.Pool.Exec(ctx, query, uid, codigo, raw)
	return err
}

func (db *Postgres) DeleteAtendimento(ctx context.Context, uid, codigo string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM atendimentos WHERE uid = $1 AND codigo = $2`, uid, codigo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func decodeOrcamento(raw []byte, at *model.Atendimento) error {
	if len(raw) == 0 {
		return nil
	}
	var orcamento model.Orcamento
	if err := json.Unmarshal(raw, &orcamento); err != nil {
		return err
	}
	at.Orcamento = &orcamento
	return nil
}

func encodeOrcamento(orcamento *model.Orcamento) ([]byte, error) {
	if orcamento == nil {
		return nil, nil
	}
	return json.Marshal(orcamento)
}
