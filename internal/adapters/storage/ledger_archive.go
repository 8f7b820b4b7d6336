// internal/adapters/storage/ledger_archive.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
)

// LedgerArchive writes pruned change-ledger rows to object storage as JSON
// segments so history stays recoverable after the hot table is trimmed.
type LedgerArchive struct {
	storage StorageClient
	logger  *slog.Logger
}

// NewLedgerArchive creates a ledger archive over the given storage client
func NewLedgerArchive(storage StorageClient, logger *slog.Logger) *LedgerArchive {
	return &LedgerArchive{
		storage: storage,
		logger:  logger.With(slog.String("component", "ledger_archive")),
	}
}

// ledgerSegment is the serialized archive format
type ledgerSegment struct {
	ArchivedAt  time.Time            `json:"archived_at"`
	FromVersion int64                `json:"from_version"`
	ToVersion   int64                `json:"to_version"`
	Entries     []domain.ChangeEntry `json:"entries"`
}

// WriteSegment uploads one segment of ledger rows and returns its object key.
// Entries must be ordered by version.
func (a *LedgerArchive) WriteSegment(ctx context.Context, entries []domain.ChangeEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	segment := ledgerSegment{
		ArchivedAt:  time.Now().UTC(),
		FromVersion: entries[0].Version,
		ToVersion:   entries[len(entries)-1].Version,
		Entries:     entries,
	}

	data, err := json.Marshal(segment)
	if err != nil {
		return "", fmt.Errorf("failed to encode ledger segment: %w", err)
	}

	key := fmt.Sprintf("ledger/%s/segment-%d-%d.json",
		segment.ArchivedAt.Format("2006/01/02"),
		segment.FromVersion, segment.ToVersion)

	if _, err := a.storage.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return "", fmt.Errorf("failed to upload ledger segment: %w", err)
	}

	a.logger.InfoContext(ctx, "ledger segment archived",
		slog.String("key", key),
		slog.Int("entries", len(entries)),
		slog.Int64("from_version", segment.FromVersion),
		slog.Int64("to_version", segment.ToVersion))

	return key, nil
}
