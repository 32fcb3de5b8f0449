package finance

// Risk tiers derived from the savings rate.
const (
	RiskLow    = "Bajo"
	RiskMedium = "Medio"
	RiskHigh   = "Alto"
)

const (
	lowRiskSavingsRate    = 20.0
	mediumRiskSavingsRate = 10.0
)

// Metrics are the headline numbers of a FinancialData.
type Metrics struct {
	TotalIncome   float64 `json:"total_ingresos"`
	TotalExpenses float64 `json:"total_gastos"`
	Balance       float64 `json:"saldo"`
	SavingsRate   float64 `json:"savings_rate"`
}

// ComputeMetrics sums incomes and expenses in input order. SavingsRate is a
// percentage of income and is 0 when there is no income.
func ComputeMetrics(data FinancialData) Metrics {
	var m Metrics
	for _, tx := range data.Incomes {
		m.TotalIncome += float64(tx.Amount)
	}
	for _, tx := range data.Expenses {
		m.TotalExpenses += float64(tx.Amount)
	}
	m.Balance = m.TotalIncome - m.TotalExpenses
	m.SavingsRate = percentOf(m.Balance, m.TotalIncome)
	return m
}

// RiskLevel maps a savings rate to a tier: >= 20 is Bajo, >= 10 is Medio,
// anything lower is Alto.
func RiskLevel(savingsRate float64) string {
	switch {
	case savingsRate >= lowRiskSavingsRate:
		return RiskLow
	case savingsRate >= mediumRiskSavingsRate:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// percentOf returns part/total*100, or 0 unless total is positive.
func percentOf(part, total float64) float64 {
	if total > 0 {
		return part / total * 100
	}
	return 0
}
