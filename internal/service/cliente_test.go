package service

import (
	"testing"
	"time"

	"github.com/climapp/backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestMergeCliente(t *testing.T) {
	criadoEm := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	atual := model.Cliente{
		Codigo:      "Cli-004",
		Nome:        "Maria Souza",
		Documento:   "123.456.789-00",
		Telefone:    "11 99999-0000",
		Email:       "maria@example.com",
		CEP:         "01000-000",
		Rua:         "Rua das Flores",
		Numero:      "42",
		Referencia:  "portão azul",
		Observacoes: "condensadora no telhado",
		CriadoEm:    criadoEm,
	}

	merged := mergeCliente(atual, model.UpdateClienteRequest{
		Telefone: strPtr(" 11 98888-1111 "),
		Rua:      strPtr("Av. Paulista"),
		Numero:   strPtr("1000"),
	})

	if merged.Telefone != "11 98888-1111" {
		t.Fatalf("unexpected telefone: %q", merged.Telefone)
	}
	if merged.Rua != "Av. Paulista" || merged.Numero != "1000" {
		t.Fatalf("unexpected endereco: %q %q", merged.Rua, merged.Numero)
	}
	// Campos ausentes no corpo não mudam.
	if merged.Nome != "Maria Souza" || merged.Email != "maria@example.com" {
		t.Fatalf("untouched fields changed: %+v", merged)
	}
	if merged.Codigo != "Cli-004" || !merged.CriadoEm.Equal(criadoEm) {
		t.Fatalf("codigo/criadoEm must be preserved: %+v", merged)
	}
}

func TestMergeClienteCampoVazioApaga(t *testing.T) {
	atual := model.Cliente{Codigo: "Cli-001", Nome: "João", Observacoes: "antiga"}

	merged := mergeCliente(atual, model.UpdateClienteRequest{Observacoes: strPtr("")})

	// Ponteiro presente com string vazia limpa o campo; ausente preserva.
	if merged.Observacoes != "" {
		t.Fatalf("expected observacoes cleared, got %q", merged.Observacoes)
	}
	if merged.Nome != "João" {
		t.Fatalf("unexpected nome: %q", merged.Nome)
	}
}
