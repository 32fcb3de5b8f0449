// Package finance holds the per-request financial data sent by callers and the
// pure computations over it: totals, savings rate, risk tier and the textual
// context handed to the model.
package finance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the transaction direction.
type Kind string

const (
	KindExpense Kind = "gasto"
	KindIncome  Kind = "ingreso"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Amount is a transaction amount. It decodes from a JSON number or a numeric
// string, since database rows often serialize numerics as strings.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("amount must not be null")
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", s)
		}
		*a = Amount(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = Amount(f)
	return nil
}

// Transaction is a single expense or income record.
type Transaction struct {
	ID          *int64 `json:"id,omitempty"`
	Amount      Amount `json:"monto"`
	Category    string `json:"categoria,omitempty"`
	Source      string `json:"fuente,omitempty"`
	Description string `json:"descripcion,omitempty"`
	Date        string `json:"fecha"`
	Kind        Kind   `json:"tipo,omitempty"`
}

// Budget is a free-form budget record. The context formatter reads the
// "categoria", "monto_limite" and "mes" keys.
type Budget map[string]interface{}

// FinancialData is everything a caller sends about one user.
type FinancialData struct {
	Expenses []Transaction `json:"gastos"`
	Incomes  []Transaction `json:"ingresos"`
	Budgets  []Budget      `json:"presupuestos"`
}

// Validate checks the fields the formatter relies on.
func (d FinancialData) Validate() error {
	check := func(list string, txs []Transaction) error {
		for i, tx := range txs {
			if strings.TrimSpace(tx.Date) == "" {
				return fmt.Errorf("%s[%d]: fecha is required", list, i)
			}
			if tx.Kind != "" && !tx.Kind.Valid() {
				return fmt.Errorf("%s[%d]: tipo must be %q or %q", list, i, KindExpense, KindIncome)
			}
		}
		return nil
	}

	if err := check("gastos", d.Expenses); err != nil {
		return err
	}
	return check("ingresos", d.Incomes)
}
