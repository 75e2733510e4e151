package statement

import (
	"strings"

	"github.com/centsible/centsible/internal/model"
)

// transferPhrases mark money moving between the user's own accounts.
// Institutions spell this a dozen ways; "epay" is the inter-account bill
// pay marker some credit unions use.
var transferPhrases = []string{
	"transfer",
	"xfer",
	"share transfer",
	"online banking transfer",
	"member to member",
	"epay",
}

// IsTransfer reports whether a description names an inter-account move.
func IsTransfer(desc string) bool {
	lower := strings.ToLower(desc)
	for _, p := range transferPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// classifyCard assigns a type for card-statement rows. Keyword overrides
// take precedence over the sign default: transfers first, then statement
// payments, then refunds/credits, and everything left is a charge.
//
// A "payment thank you" credit is classified as payment, not transfer.
// A statement payment nets against the card balance rather than counting
// as new spending, and reports surface payments as their own bucket.
func classifyCard(desc, rawType string, amount float64) model.TxnType {
	descLower := strings.ToLower(desc)
	typeLower := strings.ToLower(rawType)

	if IsTransfer(desc) || strings.Contains(descLower, "balance transfer") {
		return model.TypeTransfer
	}
	if strings.Contains(descLower, "payment thank you") ||
		strings.Contains(descLower, "payment") ||
		typeLower == "payment" {
		return model.TypePayment
	}
	if strings.Contains(descLower, "refund") || strings.Contains(descLower, "credit") ||
		strings.Contains(typeLower, "refund") || strings.Contains(typeLower, "credit") ||
		amount > 0 {
		return model.TypeIncome
	}
	return model.TypeCreditCard
}

// classifyBySign assigns a type for checking and generic rows, where the
// sign of the amount encodes direction. An explicit "credit" transaction
// type column, when present, also marks income regardless of sign.
func classifyBySign(desc, rawType string, amount float64) model.TxnType {
	if IsTransfer(desc) {
		return model.TypeTransfer
	}
	if strings.ToLower(rawType) == "credit" || amount > 0 {
		return model.TypeIncome
	}
	return model.TypeExpense
}

// parseExplicitType maps a generic type cell to a transaction type.
func parseExplicitType(raw string) (model.TxnType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income":
		return model.TypeIncome, true
	case "expense":
		return model.TypeExpense, true
	case "payment":
		return model.TypePayment, true
	case "transfer":
		return model.TypeTransfer, true
	}
	return "", false
}
