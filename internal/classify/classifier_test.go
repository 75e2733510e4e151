package classify

import (
	"testing"

	"github.com/centsible/centsible/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGuess(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"grocery chain", "KROGER #441 ANYTOWN", model.CategoryGroceries},
		{"fast food", "CHIPOTLE 1234", model.CategoryDining},
		{"gas brand", "SHELL OIL 5577", model.CategoryGas},
		{"streaming", "Netflix.com", model.CategorySubscriptions},
		{"card payment", "Payment Thank You-Mobile", model.CategoryCreditCardPayment},
		{"student loan", "NELNET STUDENT LN", model.CategoryLoans},
		{"utilities", "XFINITY INTERNET SVC", model.CategoryUtilities},
		{"travel", "DELTA AIR 0062341", model.CategoryTravel},
		{"pets", "CHEWY.COM", model.CategoryPets},
		{"retail", "AMZN Mktp US", model.CategoryShopping},
		{"insurance", "GEICO AUTO PREMIUM", model.CategoryInsurance},
		{"rent", "HIGHLAND APTS RENT JAN", model.CategoryRent},
		{"no match", "Paycheck", model.CategoryUncategorized},
		{"empty", "", model.CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guess(tt.desc))
		})
	}
}

// A rent line that also mentions insurance must stay Rent; the ordering
// of the rule table is the contract.
func TestGuessRentBeatsInsurance(t *testing.T) {
	assert.Equal(t, model.CategoryRent, Guess("OAKWOOD APTS RENT + RENTERS INSURANCE"))
	assert.Equal(t, model.CategoryRent, Guess("LEASE PMT INCL INSURANCE"))
}

func TestGuessWithSource(t *testing.T) {
	assert.Equal(t, "Food & Drink", GuessWithSource("CHIPOTLE 1234", "Food & Drink"),
		"explicit source category wins")
	assert.Equal(t, model.CategoryDining, GuessWithSource("CHIPOTLE 1234", ""),
		"blank source falls back to the guesser")
	assert.Equal(t, model.CategoryDining, GuessWithSource("CHIPOTLE 1234", "Uncategorized"),
		"literal uncategorized falls back to the guesser")
	assert.Equal(t, model.CategoryDining, GuessWithSource("CHIPOTLE 1234", "  "),
		"whitespace-only source falls back")
}
