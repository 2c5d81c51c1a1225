package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/climapp/backend/internal/model"
)

const reportSheet = "Atendimentos"

// AtendimentoLister é a fatia do repositório que o relatório consome.
type AtendimentoLister interface {
	ListAtendimentos(ctx context.Context, uid string) ([]model.Atendimento, error)
}

// ReportService exporta os atendimentos do usuário em planilha xlsx
// para conferência fora do app.
type ReportService struct {
	store AtendimentoLister
}

func NewReportService(store AtendimentoLister) *ReportService {
	return &ReportService{store: store}
}

// GenerateAtendimentos monta a planilha em memória e devolve o
// conteúdo pronto para download, junto com o nome de arquivo sugerido.
func (s *ReportService) GenerateAtendimentos(ctx context.Context, uid string) ([]byte, string, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, "", &ValidationError{Code: "MISSING_UID", Message: "UID do usuário é obrigatório"}
	}

	atendimentos, err := s.store.ListAtendimentos(ctx, uid)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Código", "Status", "Cliente", "Código do Cliente", "Produto", "Modelo",
		"Data", "Hora", "Descrição do Defeito", "Valor da Visita", "Valor do Orçamento", "Criado em",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(reportSheet, "A1", last, headerStyle)
	}

	for row, at := range atendimentos {
		values := []any{
			at.Codigo,
			at.Status,
			at.ClienteNome,
			at.ClienteCodigo,
			at.Produto,
			at.Modelo,
			at.Data,
			at.Hora,
			at.DescricaoDefeito,
			at.ValorVisita,
			orcamentoTotal(at.Orcamento),
			at.CriadoEm.Format("02/01/2006 15:04"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	f.SetColWidth(reportSheet, "A", "L", 18)
	f.SetColWidth(reportSheet, "I", "I", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("atendimentos_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func orcamentoTotal(orcamento *model.Orcamento) string {
	if orcamento == nil {
		return ""
	}
	return orcamento.ValorTotal
}
