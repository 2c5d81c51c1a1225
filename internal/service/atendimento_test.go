package service

import "testing"

func TestNextAtendimentoCodigo(t *testing.T) {
	cases := []struct {
		name    string
		codigos []string
		want    string
	}{
		{"sem atendimentos", nil, "Atend-01"},
		{"sequencia simples", []string{"Atend-01", "Atend-02"}, "Atend-03"},
		{"buracos na sequencia", []string{"Atend-01", "Atend-07"}, "Atend-08"},
		{"ignora fora do padrao", []string{"Atend-02", "legado-99", "Atend-abc"}, "Atend-03"},
		{"acima de dois digitos", []string{"Atend-99"}, "Atend-100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextAtendimentoCodigo(tc.codigos); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "Diagnóstico"},
		{"diagnóstico", "Diagnóstico"},
		{"AGUARDANDO", "Aguardando"},
		{"Aprovado", "Aprovado"},
		{"recusado", "Recusado"},
		{"executado ", "Executado"},
		{"garantia", "Garantia"},
		{"qualquer coisa", "Diagnóstico"},
	}
	for _, tc := range cases {
		if got := normalizeStatus(tc.in); got != tc.want {
			t.Fatalf("normalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
