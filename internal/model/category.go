// Package model defines the canonical record shapes shared across the
// import pipeline, storage, and reporting.
package model

// Spending categories form a fixed vocabulary. The category guesser only
// ever emits one of these; user edits are free-form but the defaults live
// here so reports group consistently.
const (
	CategoryRent              = "Rent"
	CategoryCreditCardPayment = "Credit Card Payment"
	CategoryLoans             = "Loans"
	CategoryUtilities         = "Utilities"
	CategoryGroceries         = "Groceries"
	CategoryDining            = "Dining"
	CategoryGas               = "Gas"
	CategorySubscriptions     = "Subscriptions"
	CategoryTravel            = "Travel"
	CategoryPets              = "Pets"
	CategoryShopping          = "Shopping"
	CategoryInsurance         = "Insurance"
	CategoryUncategorized     = "Uncategorized"
)

// Categories returns the fixed vocabulary in display order.
func Categories() []string {
	return []string{
		CategoryRent,
		CategoryCreditCardPayment,
		CategoryLoans,
		CategoryUtilities,
		CategoryGroceries,
		CategoryDining,
		CategoryGas,
		CategorySubscriptions,
		CategoryTravel,
		CategoryPets,
		CategoryShopping,
		CategoryInsurance,
		CategoryUncategorized,
	}
}
