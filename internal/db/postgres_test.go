package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows must classify as no rows")
	}
	// Erros embrulhados também classificam.
	if !IsNoRows(fmt.Errorf("buscar cliente: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped pgx.ErrNoRows must classify as no rows")
	}
	if IsNoRows(errors.New("conexão recusada")) {
		t.Fatal("unrelated error classified as no rows")
	}
	if IsNoRows(nil) {
		t.Fatal("nil classified as no rows")
	}
}
