package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeFinancialData(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `{"gastos":[{"monto":"12.50","fecha":"2024-01-01","tipo":"gasto"}],"ingresos":[],"presupuestos":[]}`, false},
		{"empty object", `{}`, false},
		{"missing fecha", `{"gastos":[{"monto":12}]}`, true},
		{"not json", `gastos`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeFinancialData(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeFinancialData() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFinancialData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `{"ingresos":[{"monto":1000,"fuente":"Salario","fecha":"2024-02-01"}]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := loadFinancialData(path)
	if err != nil {
		t.Fatalf("loadFinancialData() error = %v", err)
	}
	if len(data.Incomes) != 1 || data.Incomes[0].Amount != 1000 {
		t.Errorf("incomes = %+v", data.Incomes)
	}

	if _, err := loadFinancialData(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
