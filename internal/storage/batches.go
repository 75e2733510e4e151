package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
)

// SaveImportBatch records the metadata for one import operation.
func (s *SQLiteStorage) SaveImportBatch(ctx context.Context, batch *model.ImportBatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if batch == nil {
		return fmt.Errorf("%w: batch", ErrNilParameter)
	}
	if err := validateString(batch.ID, "batch.ID"); err != nil {
		return err
	}

	files, err := json.Marshal(batch.Files)
	if err != nil {
		return fmt.Errorf("failed to marshal batch files: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO import_batches (id, imported_at, count, files)
		VALUES (?, ?, ?, ?)
	`, batch.ID, batch.ImportedAt, batch.Count, string(files)); err != nil {
		return fmt.Errorf("failed to insert import batch: %w", err)
	}
	return nil
}

func scanBatch(row interface{ Scan(...any) error }) (model.ImportBatch, error) {
	var batch model.ImportBatch
	var files string
	if err := row.Scan(&batch.ID, &batch.ImportedAt, &batch.Count, &files); err != nil {
		return model.ImportBatch{}, err
	}
	if err := json.Unmarshal([]byte(files), &batch.Files); err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to unmarshal batch files: %w", err)
	}
	return batch, nil
}

// GetImportBatch retrieves one batch's metadata.
func (s *SQLiteStorage) GetImportBatch(ctx context.Context, id string) (*model.ImportBatch, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, imported_at, count, files FROM import_batches WHERE id = ?
	`, id)
	batch, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import batch %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query import batch: %w", err)
	}
	return &batch, nil
}

// ListImportBatches returns all batches, newest first.
func (s *SQLiteStorage) ListImportBatches(ctx context.Context) ([]model.ImportBatch, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, imported_at, count, files FROM import_batches ORDER BY imported_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query import batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var batches []model.ImportBatch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// DeleteImportBatch removes the batch metadata record.
func (s *SQLiteStorage) DeleteImportBatch(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM import_batches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete import batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("import batch %s: %w", id, common.ErrNotFound)
	}
	return nil
}
