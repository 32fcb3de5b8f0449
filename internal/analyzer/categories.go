package analyzer

import "github.com/dvloznov/finanzas-ai/internal/finance"

// OtherCategory is the catch-all category of both kinds.
const OtherCategory = "Otros"

var expenseCategories = []string{
	"Alimentación", "Transporte", "Vivienda", "Servicios",
	"Entretenimiento", "Salud", "Educación", "Ropa", OtherCategory,
}

var incomeCategories = []string{
	"Salario", "Freelance", "Negocio", "Inversiones", "Regalo", OtherCategory,
}

// CategoriesFor returns the allowed categories for kind. Anything other than
// an expense uses the income set.
func CategoriesFor(kind finance.Kind) []string {
	var src []string
	if kind == finance.KindExpense {
		src = expenseCategories
	} else {
		src = incomeCategories
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
