package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/climapp/backend/internal/model"
)

type stubLister struct {
	atendimentos []model.Atendimento
}

func (s *stubLister) ListAtendimentos(context.Context, string) ([]model.Atendimento, error) {
	return s.atendimentos, nil
}

func TestGenerateAtendimentosReport(t *testing.T) {
	lister := &stubLister{atendimentos: []model.Atendimento{
		{
			Codigo:           "Atend-02",
			Status:           "Aguardando",
			ClienteNome:      "Maria",
			Produto:          "Split 12000",
			DescricaoDefeito: "não gela",
			CriadoEm:         time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			Orcamento:        &model.Orcamento{ValorTotal: "450,00"},
		},
		{
			Codigo:   "Atend-01",
			Status:   "Executado",
			CriadoEm: time.Date(2026, 7, 20, 9, 0, 0, 0, time.UTC),
		},
	}}
	svc := NewReportService(lister)

	content, filename, err := svc.GenerateAtendimentos(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(filename, "atendimentos_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Fatalf("unexpected filename: %q", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open generated xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Atendimentos")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	// Cabeçalho + uma linha por atendimento.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Código" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "Atend-02" || rows[1][1] != "Aguardando" {
		t.Fatalf("unexpected first data row: %v", rows[1])
	}
	if rows[1][10] != "450,00" {
		t.Fatalf("expected orcamento total in row, got %v", rows[1])
	}
}

func TestGenerateAtendimentosRequiresUID(t *testing.T) {
	svc := NewReportService(&stubLister{})

	_, _, err := svc.GenerateAtendimentos(context.Background(), " ")
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Code != "MISSING_UID" {
		t.Fatalf("expected MISSING_UID, got %v", err)
	}
}
