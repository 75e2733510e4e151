// Package classify guesses a spending category from free-text merchant
// descriptions using a single ordered keyword rule table.
package classify

import (
	"strings"

	"github.com/centsible/centsible/internal/model"
)

// rule maps description substrings to one category.
type rule struct {
	category string
	keywords []string
}

// rules are evaluated top to bottom; the first hit wins, so ordering is
// load-bearing. Rent is checked first: property-management lines often
// bundle words like "insurance" that would otherwise steal the match.
// Insurance is checked last for the same reason.
var rules = []rule{
	{model.CategoryRent, []string{"rent", "lease", "apts", "apartment", "property mgmt", "property management"}},
	{model.CategoryCreditCardPayment, []string{"credit crd", "payment thank you", "cc payment", "card autopay"}},
	{model.CategoryLoans, []string{"student ln", "student loan", "nelnet", "navient", "sallie mae", "loan pymt", "loan payment"}},
	{model.CategoryUtilities, []string{"electric", "power co", "water utility", "comcast", "xfinity", "spectrum", "centurylink", "internet svc", "utility"}},
	{model.CategoryGroceries, []string{"kroger", "safeway", "aldi", "trader joe", "whole foods", "publix", "wegmans", "food lion", "grocery", "groceries", "heb grocery"}},
	{model.CategoryDining, []string{"mcdonald", "chipotle", "starbucks", "chick-fil-a", "taco bell", "wendy's", "panera", "domino", "pizza", "restaurant", "doordash", "grubhub", "coffee"}},
	{model.CategoryGas, []string{"shell oil", "exxon", "chevron", "marathon petro", "speedway", "circle k", "quiktrip", "conoco", "fuel"}},
	{model.CategorySubscriptions, []string{"netflix", "spotify", "hulu", "disney plus", "youtube premium", "apple.com/bill", "audible", "prime video"}},
	{model.CategoryTravel, []string{"airline", "delta air", "united air", "southwest air", "airbnb", "marriott", "hilton", "expedia", "amtrak", "airways"}},
	{model.CategoryPets, []string{"petsmart", "petco", "chewy", "veterinary", "vet clinic", "animal hospital"}},
	{model.CategoryShopping, []string{"amazon", "amzn", "walmart", "target", "costco", "best buy", "etsy", "ebay"}},
	{model.CategoryInsurance, []string{"insurance", "geico", "state farm", "allstate", "progressive"}},
}

// Guess returns the first matching category for the description, or
// Uncategorized when no rule matches. Matching is case-insensitive
// substring containment against the raw description.
func Guess(description string) string {
	lower := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return model.CategoryUncategorized
}

// GuessWithSource prefers a category supplied by the export itself, falling
// back to the keyword guess when the cell is blank or literally
// "uncategorized".
func GuessWithSource(description, sourceCategory string) string {
	src := strings.TrimSpace(sourceCategory)
	if src != "" && !strings.EqualFold(src, "uncategorized") {
		return src
	}
	return Guess(description)
}
