package finance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Labels used when a transaction has no category or source.
const (
	UncategorizedLabel = "Sin categoría"
	NoSourceLabel      = "Sin fuente"
)

const (
	topExpenseCategories = 5
	recentExpenses       = 5
	recentIncomes        = 3
	listedBudgets        = 3
)

// group is a labelled sum; groups keep the order in which labels first appear.
type group struct {
	label string
	total float64
}

// FormatContext renders data as the fixed-layout summary used in prompts.
// The output depends only on data.
func FormatContext(data FinancialData) string {
	m := ComputeMetrics(data)

	var b strings.Builder
	b.WriteString("\nRESUMEN FINANCIERO:\n")
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	b.WriteString("📊 MÉTRICAS GENERALES:\n")
	fmt.Fprintf(&b, "   • Total Ingresos: %s\n", formatCurrency(m.TotalIncome))
	fmt.Fprintf(&b, "   • Total Gastos: %s\n", formatCurrency(m.TotalExpenses))
	fmt.Fprintf(&b, "   • Saldo Actual: %s\n", formatCurrency(m.Balance))
	fmt.Fprintf(&b, "   • Tasa de Ahorro: %.1f%%\n", m.SavingsRate)
	fmt.Fprintf(&b, "   • Número de Transacciones: %d\n\n", len(data.Expenses)+len(data.Incomes))

	b.WriteString("💸 DISTRIBUCIÓN DE GASTOS:\n")
	categories := sortedGroups(data.Expenses, func(tx Transaction) string {
		return labelOr(tx.Category, UncategorizedLabel)
	})
	if len(categories) > topExpenseCategories {
		categories = categories[:topExpenseCategories]
	}
	for _, g := range categories {
		fmt.Fprintf(&b, "   • %s: %s (%.1f%%)\n", g.label, formatCurrency(g.total), percentOf(g.total, m.TotalExpenses))
	}

	b.WriteString("\n💰 FUENTES DE INGRESO:\n")
	sources := sortedGroups(data.Incomes, func(tx Transaction) string {
		return labelOr(tx.Source, NoSourceLabel)
	})
	for _, g := range sources {
		fmt.Fprintf(&b, "   • %s: %s (%.1f%%)\n", g.label, formatCurrency(g.total), percentOf(g.total, m.TotalIncome))
	}

	if len(data.Expenses) > 0 {
		b.WriteString("\n📉 ÚLTIMOS 5 GASTOS:\n")
		for _, tx := range mostRecent(data.Expenses, recentExpenses) {
			fmt.Fprintf(&b, "   • %s: $%s - %s - %s\n",
				truncateDate(tx.Date),
				FormatAmount(float64(tx.Amount)),
				labelOr(tx.Category, UncategorizedLabel),
				labelOr(tx.Description, "N/A"),
			)
		}
	}

	if len(data.Incomes) > 0 {
		b.WriteString("\n📈 ÚLTIMOS 3 INGRESOS:\n")
		for _, tx := range mostRecent(data.Incomes, recentIncomes) {
			fmt.Fprintf(&b, "   • %s: $%s - %s\n",
				truncateDate(tx.Date),
				FormatAmount(float64(tx.Amount)),
				labelOr(tx.Source, NoSourceLabel),
			)
		}
	}

	if len(data.Budgets) > 0 {
		fmt.Fprintf(&b, "\n🎯 PRESUPUESTOS ACTIVOS: %d\n", len(data.Budgets))
		for i, budget := range data.Budgets {
			if i == listedBudgets {
				break
			}
			fmt.Fprintf(&b, "   • %s: $%s (%s)\n",
				formatBudgetValue(budget["categoria"]),
				formatBudgetValue(budget["monto_limite"]),
				formatBudgetValue(budget["mes"]),
			)
		}
	}

	return b.String()
}

// sortedGroups sums amounts per label and orders the groups by total,
// largest first. Equal totals keep first-occurrence order.
func sortedGroups(txs []Transaction, labelOf func(Transaction) string) []group {
	index := make(map[string]int)
	var groups []group
	for _, tx := range txs {
		label := labelOf(tx)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, group{label: label})
		}
		groups[i].total += float64(tx.Amount)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].total > groups[j].total
	})
	return groups
}

// mostRecent returns up to n transactions ordered by date string, newest first.
func mostRecent(txs []Transaction, n int) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func truncateDate(date string) string {
	r := []rune(date)
	if len(r) > 10 {
		return string(r[:10])
	}
	return date
}

// formatCurrency renders v as $1,234.56, rounded to the nearest cent.
func formatCurrency(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, cents, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + sign + s
	}
	return "$" + sign + humanize.Comma(n) + "." + cents
}

// FormatAmount prints an amount as entered, always with a decimal part
// (1000 -> "1000.0", 12.5 -> "12.5").
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatBudgetValue prints a free-form budget field; whole numbers have no decimals.
func formatBudgetValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
