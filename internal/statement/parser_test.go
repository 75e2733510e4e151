package statement

import (
	"strings"
	"testing"

	"github.com/centsible/centsible/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, text string) []model.Transaction {
	t.Helper()
	return NewParser(0, nil).Parse(text)
}

func TestParseGenericFourColumn(t *testing.T) {
	text := strings.Join([]string{
		"Type,Description,Amount,Date",
		"Income,Paycheck,2200,2026-01-03",
		"Expense,Rent,900,2026-01-04",
		"Expense,Groceries,120.50,2026-01-06",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 3)

	assert.Equal(t, model.TypeIncome, txns[0].Type)
	assert.Equal(t, "Paycheck", txns[0].Description)
	assert.InDelta(t, 2200, txns[0].Amount, 0.001)
	assert.Equal(t, "2026-01-03", txns[0].Date)

	assert.Equal(t, model.TypeExpense, txns[1].Type)
	assert.Equal(t, model.CategoryRent, txns[1].Category)
	assert.InDelta(t, 900, txns[1].Amount, 0.001)

	assert.Equal(t, model.TypeExpense, txns[2].Type)
	assert.Equal(t, model.CategoryGroceries, txns[2].Category)
	assert.InDelta(t, 120.5, txns[2].Amount, 0.001)
}

func TestParseGenericThreeColumnSignConvention(t *testing.T) {
	text := strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-10,Freelance Payment,500",
		"2026-01-11,Coffee Shop,-4.75",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 2)

	assert.Equal(t, model.TypeIncome, txns[0].Type)
	assert.InDelta(t, 500, txns[0].Amount, 0.001)

	assert.Equal(t, model.TypeExpense, txns[1].Type)
	assert.InDelta(t, 4.75, txns[1].Amount, 0.001)
}

func TestParseAmountsAreNeverNegative(t *testing.T) {
	text := strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-10,Refund,500",
		"2026-01-11,Coffee Shop,-4.75",
		"2026-01-12,Online Banking Transfer to Savings,-250.00",
	}, "\n")

	for _, txn := range parseAll(t, text) {
		assert.GreaterOrEqual(t, txn.Amount, 0.0, "direction belongs in Type, not Amount")
		require.NoError(t, txn.Validate())
	}
}

func TestParseCardStatement(t *testing.T) {
	text := strings.Join([]string{
		"Transaction Date,Post Date,Description,Category,Type,Amount",
		"01/04/2026,01/05/2026,CHIPOTLE 1234,Food & Drink,Sale,-11.25",
		"01/06/2026,01/07/2026,Payment Thank You-Mobile,,Payment,525.00",
		"01/08/2026,01/09/2026,AMAZON RET Refund,Shopping,Return,23.10",
		"01/09/2026,01/10/2026,NETFLIX.COM,,Sale,-15.49",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 4)

	charge := txns[0]
	assert.Equal(t, model.TypeCreditCard, charge.Type)
	assert.Equal(t, "Food & Drink", charge.Category, "source-provided category wins")
	assert.Equal(t, "2026-01-04", charge.Date)
	assert.Equal(t, string(DialectCard), charge.Source)

	payment := txns[1]
	assert.Equal(t, model.TypePayment, payment.Type)
	assert.InDelta(t, 525, payment.Amount, 0.001)

	refund := txns[2]
	assert.Equal(t, model.TypeIncome, refund.Type)

	sub := txns[3]
	assert.Equal(t, model.TypeCreditCard, sub.Type)
	assert.Equal(t, model.CategorySubscriptions, sub.Category, "blank source category falls back to the guesser")
}

func TestParseCheckingDialect(t *testing.T) {
	text := strings.Join([]string{
		"Account ID,Transaction ID,Date,Description,Amount",
		"9001,t-1,1/3/2026,PAYROLL DEPOSIT,\"$2,200.00\"",
		"9001,t-2,1/5/2026,KROGER #441,($86.12)",
		"9001,t-3,1/6/2026,SHARE TRANSFER TO SAVINGS,($300.00)",
		"9001,t-4,1/7/2026,VOID,$0.00",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 3, "zero-amount sentinel row is dropped")

	assert.Equal(t, model.TypeIncome, txns[0].Type)
	assert.Equal(t, "2026-01-03", txns[0].Date)

	assert.Equal(t, model.TypeExpense, txns[1].Type)
	assert.Equal(t, model.CategoryGroceries, txns[1].Category)
	assert.InDelta(t, 86.12, txns[1].Amount, 0.001)

	assert.Equal(t, model.TypeTransfer, txns[2].Type)
}

func TestParseAlternateBankDialect(t *testing.T) {
	text := strings.Join([]string{
		"Posting Date,Transaction Type,Description,Extended Description,Amount",
		"01/15/2026,Debit,POS,SHELL OIL 5577,-42.00",
		"01/16/2026,Credit,ACH,EMPLOYER PAYROLL,1800.00",
		"01/17/2026,Debit,XFER,MEMBER TO MEMBER TRANSFER,-100.00",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 3)

	assert.Equal(t, model.TypeExpense, txns[0].Type)
	assert.Equal(t, "SHELL OIL 5577", txns[0].Description, "extended description preferred")
	assert.Equal(t, model.CategoryGas, txns[0].Category)
	assert.Equal(t, "2026-01-15", txns[0].Date)

	assert.Equal(t, model.TypeIncome, txns[1].Type)
	assert.Equal(t, model.TypeTransfer, txns[2].Type)
}

func TestParseAlternateBankWithoutDescriptionColumn(t *testing.T) {
	text := strings.Join([]string{
		"Posting Date,Transaction Type,Amount",
		"01/05/2026,Debit,-120.55",
		"01/06/2026,Credit,1800.00",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 2)

	assert.Equal(t, model.TypeExpense, txns[0].Type)
	assert.Empty(t, txns[0].Description, "missing description column yields empty descriptions")
	assert.Equal(t, "2026-01-05", txns[0].Date)
	assert.Equal(t, model.CategoryUncategorized, txns[0].Category)

	assert.Equal(t, model.TypeIncome, txns[1].Type)
	assert.InDelta(t, 1800, txns[1].Amount, 0.001)
}

func TestParseHeaderlessFallback(t *testing.T) {
	text := strings.Join([]string{
		"Income,Paycheck,2200,2026-01-03",
		"2026-01-05,Coffee Shop,-4.75",
		"ACME STORE,20251130:ref884,45.00",
		"not,a,row",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 3)

	assert.Equal(t, model.TypeIncome, txns[0].Type)
	assert.Equal(t, string(DialectHeaderless), txns[0].Source)

	assert.Equal(t, model.TypeExpense, txns[1].Type)

	assert.Equal(t, "2025-11-30", txns[2].Date, "date extracted from the compact code")
	assert.Equal(t, "ACME STORE", txns[2].Description)
}

func TestParseSkipsBadRows(t *testing.T) {
	text := strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-10,Valid,10.00",
		"2026-01-11,Zero amount,0",
		"2026-01-12,Unparseable,abc",
		"short,row",
		"",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 1)
	assert.Equal(t, "Valid", txns[0].Description)
}

func TestParseParensOnlyNegativeInCheckingDialect(t *testing.T) {
	text := strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-10,Paren amount,(50.00)",
		"2026-01-11,Valid,25.00",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 1)
	assert.Equal(t, "Valid", txns[0].Description)
}

func TestParseNoValidRows(t *testing.T) {
	assert.Empty(t, parseAll(t, "gibberish without structure\nmore,of\n"))
	assert.Empty(t, parseAll(t, ""))
}

func TestParseUnparseableDatePreserved(t *testing.T) {
	text := strings.Join([]string{
		"Type,Description,Amount,Date",
		"Expense,Lunch,9.50,Jan 5 2026",
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 1)
	assert.Equal(t, "Jan 5 2026", txns[0].Date, "unrecognized dates pass through verbatim")

	_, ok := txns[0].MonthKey()
	assert.False(t, ok)
}

func TestParseQuotedFieldWithComma(t *testing.T) {
	text := strings.Join([]string{
		"Date,Description,Amount",
		`2026-01-05,"Smith, John - Invoice",150.00`,
	}, "\n")

	txns := parseAll(t, text)
	require.Len(t, txns, 1)
	assert.Equal(t, "Smith, John - Invoice", txns[0].Description)
}

func TestParserIDUniqueness(t *testing.T) {
	// The working set already contains the ids the counter would mint.
	p := NewParser(0, []string{"1", "2"})
	txns := p.Parse(strings.Join([]string{
		"Date,Description,Amount",
		"2026-01-10,First,10",
		"2026-01-11,Second,20",
	}, "\n"))
	require.Len(t, txns, 2)

	assert.NotEqual(t, txns[0].ID, txns[1].ID)
	assert.NotEqual(t, "1", txns[0].ID)
	assert.NotEqual(t, "2", txns[1].ID)
}

func TestParserThreadsCounterAcrossFiles(t *testing.T) {
	p := NewParser(0, nil)
	first := p.Parse("Date,Description,Amount\n2026-01-10,One,10")
	second := p.Parse("Date,Description,Amount\n2026-01-11,Two,20")
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.Equal(t, 3, p.NextID())
}
