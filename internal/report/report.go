// Package report computes monthly summaries, category breakdowns, and
// the financial health score from the working transaction collection.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/centsible/centsible/internal/model"
)

// MonthSummary totals one month's activity by transaction type.
// Leftover is income minus expenses minus credit card spending; payments
// and transfers move money around and do not change it.
type MonthSummary struct {
	Month      string
	Income     float64
	Expenses   float64
	CreditCard float64
	Payments   float64
	Transfers  float64
	Count      int
}

// Leftover returns the month's net after spending.
func (s MonthSummary) Leftover() float64 {
	return s.Income - s.Expenses - s.CreditCard
}

// Summarize totals transactions for one month. When month is empty every
// record with a well-formed date contributes; records whose dates never
// normalized cannot be grouped and are skipped.
func Summarize(txns []model.Transaction, month string) MonthSummary {
	summary := MonthSummary{Month: month}
	for _, txn := range txns {
		key, ok := txn.MonthKey()
		if !ok {
			continue
		}
		if month != "" && key != month {
			continue
		}
		summary.Count++
		switch txn.Type {
		case model.TypeIncome:
			summary.Income += txn.Amount
		case model.TypeExpense:
			summary.Expenses += txn.Amount
		case model.TypeCreditCard:
			summary.CreditCard += txn.Amount
		case model.TypePayment:
			summary.Payments += txn.Amount
		case model.TypeTransfer:
			summary.Transfers += txn.Amount
		}
	}
	return summary
}

// CategoryTotal is one row of a spending breakdown.
type CategoryTotal struct {
	Category string
	Total    float64
	Percent  float64
}

// Breakdown groups spending (expense and credit card records) by
// category, largest first. When the result has more than maxRows rows
// the tail collapses into an "Other" bucket; maxRows <= 0 keeps all.
func Breakdown(txns []model.Transaction, month string, maxRows int) []CategoryTotal {
	totals := make(map[string]float64)
	var spent float64

	for _, txn := range txns {
		if txn.Type != model.TypeExpense && txn.Type != model.TypeCreditCard {
			continue
		}
		if month != "" {
			key, ok := txn.MonthKey()
			if !ok || key != month {
				continue
			}
		}
		category := txn.Category
		if strings.TrimSpace(category) == "" {
			category = model.CategoryUncategorized
		}
		totals[category] += txn.Amount
		spent += txn.Amount
	}

	rows := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		rows = append(rows, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Category < rows[j].Category
	})

	if maxRows > 0 && len(rows) > maxRows {
		var other float64
		for _, row := range rows[maxRows-1:] {
			other += row.Total
		}
		rows = append(rows[:maxRows-1], CategoryTotal{Category: "Other", Total: other})
	}

	if spent > 0 {
		for i := range rows {
			rows[i].Percent = rows[i].Total / spent * 100
		}
	}
	return rows
}

// HealthScore is the 0-100 financial health rating for one month.
type HealthScore struct {
	Grade        string
	Tips         []string
	Score        int
	SavingsPts   int
	ExpensePts   int
	EmergencyPts int
	SavingsRate  float64
}

// savingsGoal picks the goal the emergency-fund component reads, by the
// "SV" code or a "savings" label.
func savingsGoal(goals []model.Goal) *model.Goal {
	for i := range goals {
		if strings.EqualFold(goals[i].Code, "SV") || strings.EqualFold(goals[i].Label, "savings") {
			return &goals[i]
		}
	}
	return nil
}

// Health scores one month's summary against the savings goal.
//
// Savings rate (leftover over income) earns up to 55 points. The outflow
// ratio earns up to 35, full at half of income or less and zero at or
// past the whole of it. Emergency fund progress earns the last 10, with
// a neutral half credit when no savings target is set.
func Health(summary MonthSummary, goals []model.Goal) HealthScore {
	income := summary.Income
	leftover := summary.Leftover()

	var savingsRate, expenseRatio float64
	if income > 0 {
		savingsRate = clamp(leftover/income, 0, 1)
		expenseRatio = clamp((summary.Expenses+summary.CreditCard)/income, 0, 2)
	}

	emergencyProgress := 0.5
	goal := savingsGoal(goals)
	if goal != nil && goal.Target > 0 {
		emergencyProgress = clamp(goal.Current/goal.Target, 0, 1)
	}

	savingsPts := int(math.Round(55 * savingsRate))
	expensePts := int(math.Round(35 * clamp((1-expenseRatio)/0.5, 0, 1)))
	emergencyPts := int(math.Round(10 * emergencyProgress))

	score := savingsPts + expensePts + emergencyPts
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	hs := HealthScore{
		Score:        score,
		Grade:        grade(savingsRate),
		SavingsRate:  savingsRate,
		SavingsPts:   savingsPts,
		ExpensePts:   expensePts,
		EmergencyPts: emergencyPts,
	}

	if income <= 0 {
		hs.Tips = append(hs.Tips, "Add income transactions to calculate a real score.")
		return hs
	}
	if savingsRate < 0.1 {
		hs.Tips = append(hs.Tips, "Try to save at least 10% of your income.")
	}
	if expenseRatio > 0.8 {
		hs.Tips = append(hs.Tips, "Expenses are high versus income; look for one or two cuts.")
	}
	if goal == nil || goal.Target <= 0 {
		hs.Tips = append(hs.Tips, "Set a Savings goal target (emergency fund) for a better score.")
	}
	return hs
}

func grade(savingsRate float64) string {
	pct := savingsRate * 100
	switch {
	case pct >= 60:
		return "Excellent"
	case pct >= 30:
		return "Good"
	case pct >= 15:
		return "Fair"
	case pct >= 5:
		return "Needs Work"
	default:
		return "Critical"
	}
}

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}
