package model

import "time"

// ImportFile describes one source file within an import batch.
type ImportFile struct {
	LastModified time.Time
	Name         string
	Size         int64
}

// ImportBatch identifies one user-initiated import operation, possibly
// spanning multiple files, so the whole import can be reversed at once.
type ImportBatch struct {
	ImportedAt time.Time
	ID         string
	Files      []ImportFile
	Count      int
}
