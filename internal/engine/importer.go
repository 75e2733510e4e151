// Package engine orchestrates statement imports: parsing files, stamping
// batch metadata, persisting records, and routing income toward savings
// goals with automatic contribution rules.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/centsible/centsible/internal/classify"
	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/ofx"
	"github.com/centsible/centsible/internal/service"
	"github.com/centsible/centsible/internal/statement"
)

// Format selects the parser used for an import.
type Format string

// Supported statement formats.
const (
	FormatCSV Format = "csv"
	FormatOFX Format = "ofx"
)

// FileInput is one statement file handed to the importer. Text carries
// the full file contents; the metadata fields are recorded on the batch
// so an import can be audited and undone later.
type FileInput struct {
	LastModified time.Time
	Name         string
	Text         string
	Size         int64
}

// FileResult reports what one file contributed to a batch.
type FileResult struct {
	Name  string
	Count int
}

// Options control a single import run.
type Options struct {
	// OnFile, when set, is called after each file finishes parsing.
	OnFile func(FileResult)
	Format Format
	// DryRun parses and reports but persists nothing.
	DryRun bool
}

// Result summarizes a completed import.
type Result struct {
	BatchID       string
	Files         []FileResult
	Contributions []GoalContribution
	Total         int
	DryRun        bool
}

// GoalContribution records an automatic allocation made during import.
type GoalContribution struct {
	GoalLabel string
	GoalID    int64
	Amount    float64
}

// Importer runs statement imports against a storage backend.
type Importer struct {
	storage service.Storage
}

// New creates an importer backed by the given storage.
func New(storage service.Storage) *Importer {
	return &Importer{storage: storage}
}

// ImportFiles parses every file in order under one batch id and persists
// the resulting transactions, the batch record, and any automatic goal
// contributions. Ids are drawn from a single counter seeded past the
// existing working set, so records from different files in the batch
// never collide with each other or with stored history.
func (i *Importer) ImportFiles(ctx context.Context, files []FileInput, opts Options) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to import: %w", common.ErrNoValidRows)
	}

	count, err := i.storage.CountTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing transactions: %w", err)
	}
	existing, err := i.storage.GetTransactionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing ids: %w", err)
	}

	parser := statement.NewParser(count, existing)
	batchID := uuid.NewString()

	var txns []model.Transaction
	result := &Result{BatchID: batchID, DryRun: opts.DryRun}

	for _, file := range files {
		parsed, parseErr := i.parseFile(ctx, parser, file, opts.Format)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file.Name, parseErr)
		}

		slog.Info("Parsed statement file",
			"file", file.Name,
			"format", string(i.effectiveFormat(file.Name, opts.Format)),
			"transactions", len(parsed))

		fr := FileResult{Name: file.Name, Count: len(parsed)}
		result.Files = append(result.Files, fr)
		txns = append(txns, parsed...)
		if opts.OnFile != nil {
			opts.OnFile(fr)
		}
	}

	if len(txns) == 0 {
		return nil, common.ErrNoValidRows
	}

	for idx := range txns {
		txns[idx].BatchID = batchID
	}
	result.Total = len(txns)

	if opts.DryRun {
		return result, nil
	}

	if err := i.storage.SaveTransactions(ctx, txns); err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	batch := &model.ImportBatch{
		ID:         batchID,
		ImportedAt: time.Now().UTC(),
		Count:      len(txns),
	}
	for _, file := range files {
		batch.Files = append(batch.Files, model.ImportFile{
			Name:         file.Name,
			Size:         file.Size,
			LastModified: file.LastModified,
		})
	}
	if err := i.storage.SaveImportBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save import batch: %w", err)
	}

	contributions, err := i.applyAutoContributions(ctx, batchID, txns)
	if err != nil {
		return nil, err
	}
	result.Contributions = contributions

	slog.Info("Import complete",
		"batch_id", batchID,
		"files", len(files),
		"transactions", len(txns),
		"goal_contributions", len(contributions))

	return result, nil
}

// Undo reverses one import batch: goal contributions are rolled back,
// the batch's transactions are deleted, and the batch record removed.
// Undoing an unknown batch returns common.ErrNotFound.
func (i *Importer) Undo(ctx context.Context, batchID string) (int64, error) {
	if _, err := i.storage.GetImportBatch(ctx, batchID); err != nil {
		return 0, err
	}

	if err := i.storage.ReverseGoalContributions(ctx, batchID); err != nil {
		return 0, fmt.Errorf("failed to reverse goal contributions: %w", err)
	}

	deleted, err := i.storage.DeleteTransactionsByBatch(ctx, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch transactions: %w", err)
	}

	if err := i.storage.DeleteImportBatch(ctx, batchID); err != nil {
		return deleted, fmt.Errorf("failed to delete import batch: %w", err)
	}

	slog.Info("Undid import batch", "batch_id", batchID, "transactions", deleted)
	return deleted, nil
}

func (i *Importer) parseFile(ctx context.Context, parser *statement.Parser, file FileInput, format Format) ([]model.Transaction, error) {
	switch i.effectiveFormat(file.Name, format) {
	case FormatOFX:
		entries, err := ofx.NewParser().ParseFile(ctx, strings.NewReader(file.Text))
		if err != nil {
			return nil, err
		}
		txns := make([]model.Transaction, 0, len(entries))
		for _, e := range entries {
			txns = append(txns, parser.Assemble(e.Date, e.Description, e.Amount, e.Type, classify.Guess(e.Description), "ofx"))
		}
		return txns, nil
	default:
		return parser.Parse(file.Text), nil
	}
}

// effectiveFormat resolves the parser for a file: an explicit format
// wins, otherwise the extension decides and CSV is the fallback.
func (i *Importer) effectiveFormat(name string, format Format) Format {
	if format != "" {
		return format
	}
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".ofx") || strings.HasSuffix(lower, ".qfx") {
		return FormatOFX
	}
	return FormatCSV
}

// applyAutoContributions routes a slice of each matching income record
// to goals configured with a keyword and auto percentage. A goal matches
// when its keyword appears in an income description, case-insensitively.
func (i *Importer) applyAutoContributions(ctx context.Context, batchID string, txns []model.Transaction) ([]GoalContribution, error) {
	goals, err := i.storage.GetGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	var contributions []GoalContribution
	for _, goal := range goals {
		if goal.Keyword == "" || goal.AutoPercent <= 0 {
			continue
		}
		keyword := strings.ToLower(goal.Keyword)

		var total float64
		for _, txn := range txns {
			if txn.Type != model.TypeIncome {
				continue
			}
			if strings.Contains(strings.ToLower(txn.Description), keyword) {
				total += txn.Amount * goal.AutoPercent / 100
			}
		}
		if total <= 0 {
			continue
		}

		if err := i.storage.ContributeToGoal(ctx, goal.ID, total, batchID); err != nil {
			return nil, fmt.Errorf("failed to contribute to goal %q: %w", goal.Label, err)
		}
		contributions = append(contributions, GoalContribution{
			GoalID:    goal.ID,
			GoalLabel: goal.Label,
			Amount:    total,
		})
	}

	return contributions, nil
}
