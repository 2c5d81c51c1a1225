package db

import (
	"context"

	"github.com/climapp/backend/internal/model"
)

func (db *Postgres) CreateCliente(ctx context.Context, uid string, cliente model.Cliente) error {
	query := `
		INSERT INTO clientes (uid, codigo, nome, documento, telefone, email, cep, rua, numero, referencia, observacoes, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := db.Pool.Exec(ctx, query,
		uid,
		cliente.Codigo,
		cliente.Nome,
		cliente.Documento,
		cliente.Telefone,
		cliente.Email,
		cliente.CEP,
		cliente.Rua,
		cliente.Numero,
		cliente.Referencia,
		cliente.Observacoes,
	)
	return err
}

func (db *Postgres) CountClientes(ctx context.Context, uid string) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clientes WHERE uid = $1`, uid).Scan(&count)
	return count, err
}

func (db *Postgres) ListClientes(ctx context.Context, uid string) ([]model.Cliente, error) {
	query := `
		SELECT codigo, nome, documento, telefone, email, cep, rua, numero, referencia, observacoes, criado_em
		FROM clientes
		WHERE uid = $1
		ORDER BY criado_em ASC
	`
	rows, err := db.Pool.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clientes := []model.Cliente{}
	for rows.Next() {
		var c model.Cliente
		if err := rows.Scan(
			&c.Codigo,
			&c.Nome,
			&c.Documento,
			&c.Telefone,
			&c.Email,
			&c.CEP,
			&c.Rua,
			&c.Numero,
			&c.Referencia,
			&c.Observacoes,
			&c.CriadoEm,
		); err != nil {
			return nil, err
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

func (db *Postgres) GetCliente(ctx context.Context, uid, codigo string) (*model.Cliente, error) {
	query := `
		SELECT codigo, nome, documento, telefone, email, cep, rua, numero, referencia, observacoes, criado_em
		FROM clientes
		WHERE uid = $1 AND codigo = $2
	`
	var c model.Cliente
	err := db.Pool.QueryRow(ctx, query, uid, codigo).Scan(
		&c.Codigo,
		&c.Nome,
		&c.Documento,
		&c.Telefone,
		&c.Email,
		&c.CEP,
		&c.Rua,
		&c.Numero,
		&c.Referencia,
		&c.Observacoes,
		&c.CriadoEm,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCliente regrava os campos editáveis; codigo e criado_em nunca mudam.
func (db *Postgres) UpdateCliente(ctx context.Context, uid string, cliente model.Cliente) error {
	query := `
		UPDATE clientes
		SET nome = $3, documento = $4, telefone = $5, email = $6, cep = $7,
			rua = $8, numero = $9, referencia = $10, observacoes = $11
		WHERE uid = $1 AND codigo = $2
	`
	_, err := db.Pool.Exec(ctx, query,
		uid,
		cliente.Codigo,
		cliente.Nome,
		cliente.Documento,
		cliente.Telefone,
		cliente.Email,
		cliente.CEP,
		cliente.Rua,
		cliente.Numero,
		cliente.Referencia,
		cliente.Observacoes,
	)
	return err
}

func (db *Postgres) DeleteCliente(ctx context.Context, uid, codigo string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM clientes WHERE uid = $1 AND codigo = $2`, uid, codigo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
