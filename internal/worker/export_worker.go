// Package worker pushes committed transactions to the spreadsheet. It
// consumes export messages from the broker and, on a timer, sweeps rows
// still marked pending so nothing is lost when a publish failed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"walletd/internal/amqp"
	"walletd/internal/core"
	"walletd/internal/sheets"
	"walletd/internal/storage"
)

// ExportStore is the slice of the repository the worker reads and marks.
type ExportStore interface {
	PendingExportIDs(ctx context.Context, limit int) ([]int64, error)
	ExportRowByID(ctx context.Context, id int64) (storage.ExportRow, error)
	MarkExported(ctx context.Context, id int64) error
}

type ExportWorker struct {
	store ExportStore
	sink  sheets.TransactionAppender
}

func NewExportWorker(store ExportStore, sink sheets.TransactionAppender) *ExportWorker {
	return &ExportWorker{store: store, sink: sink}
}

// HandleExportMessage exports the transaction a broker message refers to.
// A transaction deleted since the message was published is dropped.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	if err := w.export(ctx, msg.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction gone before export, dropping message",
				"transaction_id", msg.ID,
				"wallet_id", msg.WalletID)
			return nil
		}
		return err
	}
	return nil
}

// ProcessPending exports up to batchSize rows still marked pending and
// returns how many it handled.
func (w *ExportWorker) ProcessPending(ctx context.Context, batchSize int) (int, error) {
	ids, err := w.store.PendingExportIDs(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending exports: %w", err)
	}

	done := 0
	for _, id := range ids {
		if err := w.export(ctx, id); err != nil {
			return done, fmt.Errorf("export transaction %d: %w", id, err)
		}
		done++
	}
	if done > 0 {
		slog.InfoContext(ctx, "Export sweep finished", "exported", done)
	}
	return done, nil
}

// RunSweep runs ProcessPending every interval until ctx is done.
func (w *ExportWorker) RunSweep(ctx context.Context, interval time.Duration, batchSize int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx, batchSize); err != nil {
				// Keep sweeping; the broker path still delivers.
				slog.ErrorContext(ctx, "Export sweep failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) export(ctx context.Context, id int64) error {
	row, err := w.store.ExportRowByID(ctx, id)
	if err != nil {
		return err
	}

	ref, err := w.sink.Append(ctx, sheets.Row{
		TransactionID: row.TransactionID,
		WalletID:      row.WalletID,
		Date:          row.Date,
		Value:         row.Value,
		Description:   row.Description,
		PaymentType:   row.PaymentType,
		Category:      row.Category,
		CategoryType:  row.CategoryType,
	})
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	if err := w.store.MarkExported(ctx, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"transaction_id", id,
		"row_ref", ref)
	return nil
}
