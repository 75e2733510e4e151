package model

import (
	"fmt"
	"regexp"
	"time"
)

// TxnType classifies the direction and nature of a transaction.
// Direction is carried exclusively here; Amount is always a magnitude.
type TxnType string

const (
	// TypeIncome is money entering the working set.
	TypeIncome TxnType = "income"
	// TypeExpense is ordinary spending from a bank account.
	TypeExpense TxnType = "expense"
	// TypePayment is a payment toward a credit card balance.
	TypePayment TxnType = "payment"
	// TypeTransfer is money moved between the user's own accounts.
	TypeTransfer TxnType = "transfer"
	// TypeCreditCard is a charge on a card, distinct from a payment toward it.
	TypeCreditCard TxnType = "credit_card"
)

// Valid reports whether t is one of the closed set of transaction types.
func (t TxnType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypePayment, TypeTransfer, TypeCreditCard:
		return true
	}
	return false
}

// Transaction is the canonical record produced by the import pipeline,
// independent of which bank export dialect it came from.
type Transaction struct {
	CreatedAt   time.Time
	ID          string
	Date        string // YYYY-MM-DD when derivable; raw source string otherwise
	Description string
	Category    string
	Source      string // dialect that produced the record
	BatchID     string
	Type        TxnType
	Amount      float64 // non-negative magnitude
}

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// MonthKey returns the YYYY-MM grouping key for the transaction date.
// Dates that never normalized to ISO form report ok=false and are
// excluded from date-keyed aggregation rather than crashing it.
func (t *Transaction) MonthKey() (string, bool) {
	if !isoDatePrefix.MatchString(t.Date) {
		return "", false
	}
	return t.Date[:7], true
}

// Validate checks the invariants every emitted record must satisfy.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction has empty id")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("transaction %s has invalid type %q", t.ID, t.Type)
	}
	if t.Amount < 0 {
		return fmt.Errorf("transaction %s has negative amount %.2f", t.ID, t.Amount)
	}
	return nil
}
