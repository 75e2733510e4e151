// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/centsible/centsible/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	Month    string // YYYY-MM, empty for all
	Type     model.TxnType
	Category string
	BatchID  string
	Limit    int
}

// TransactionEdit carries user edits to a stored record. Edits replace
// fields directly; they never re-run the parsing pipeline.
type TransactionEdit struct {
	Date        *string
	Description *string
	Category    *string
	Type        *model.TxnType
	Amount      *float64
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionIDs(ctx context.Context) ([]string, error)
	CountTransactions(ctx context.Context) (int, error)
	UpdateTransaction(ctx context.Context, id string, edit TransactionEdit) error
	DeleteTransaction(ctx context.Context, id string) error
	DeleteTransactionsByBatch(ctx context.Context, batchID string) (int64, error)
	ClearTransactions(ctx context.Context) error

	// Import batch operations
	SaveImportBatch(ctx context.Context, batch *model.ImportBatch) error
	GetImportBatch(ctx context.Context, id string) (*model.ImportBatch, error)
	ListImportBatches(ctx context.Context) ([]model.ImportBatch, error)
	DeleteImportBatch(ctx context.Context, id string) error

	// Goal operations
	SaveGoal(ctx context.Context, goal *model.Goal) error
	GetGoals(ctx context.Context) ([]model.Goal, error)
	GetGoalByID(ctx context.Context, id int64) (*model.Goal, error)
	ContributeToGoal(ctx context.Context, goalID int64, amount float64, batchID string) error
	ReverseGoalContributions(ctx context.Context, batchID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
