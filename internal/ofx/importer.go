package ofx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spendwise/internal/model"
)

// ExpenseWriter is the part of the expense service the importer needs.
type ExpenseWriter interface {
	CreateExpense(ctx context.Context, userID string, input model.ExpenseInput) (*model.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter model.ExpenseFilter) ([]model.Expense, error)
}

// ImportResult counts what happened to each statement entry.
type ImportResult struct {
	Imported   int
	Duplicates int
	Credits    int
	Failed     int
	ByCategory map[string]int
}

// Importer records statement debits as expenses. Categories are assigned by
// the expense service, exactly as for manually entered expenses.
type Importer struct {
	writer ExpenseWriter
	logger *slog.Logger
	// OnEntry is called after every entry, e.g. to advance a progress bar.
	OnEntry func()
}

// NewImporter creates an importer writing through writer.
func NewImporter(writer ExpenseWriter, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{writer: writer, logger: logger.With("component", "ofx")}
}

// Import creates an expense for every debit in entries. Entries already
// recorded (same date, amount and note) are skipped. A failed entry is
// logged and counted; the import continues with the next one.
func (im *Importer) Import(ctx context.Context, userID string, entries []Entry) (*ImportResult, error) {
	result := &ImportResult{ByCategory: make(map[string]int)}
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		im.importOne(ctx, userID, entry, seen, result)
		if im.OnEntry != nil {
			im.OnEntry()
		}
	}

	im.logger.Info("OFX import finished",
		"user_id", userID,
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"credits", result.Credits,
		"failed", result.Failed)
	return result, nil
}

func (im *Importer) importOne(ctx context.Context, userID string, entry Entry, seen map[string]bool, result *ImportResult) {
	if !entry.Debit {
		result.Credits++
		return
	}

	hash := entry.Hash()
	if seen[hash] {
		result.Duplicates++
		return
	}
	seen[hash] = true

	exists, err := im.alreadyRecorded(ctx, userID, entry)
	if err != nil {
		im.logger.Warn("Failed to check for duplicate", "fitid", entry.ID, "error", err)
		result.Failed++
		return
	}
	if exists {
		result.Duplicates++
		return
	}

	exp, err := im.writer.CreateExpense(ctx, userID, model.ExpenseInput{
		Amount: entry.Amount,
		Note:   entry.Note,
		Date:   entry.Date,
	})
	if err != nil {
		im.logger.Warn("Failed to import entry", "fitid", entry.ID, "note", entry.Note, "error", err)
		result.Failed++
		return
	}

	result.Imported++
	result.ByCategory[exp.CategoryName]++
}

func (im *Importer) alreadyRecorded(ctx context.Context, userID string, entry Entry) (bool, error) {
	note, err := model.NormalizeNote(entry.Note)
	if err != nil {
		return false, nil
	}

	existing, err := im.writer.ListExpenses(ctx, userID, model.ExpenseFilter{
		StartDate: &entry.Date,
		EndDate:   &entry.Date,
		Search:    note,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list expenses: %w", err)
	}

	for _, exp := range existing {
		if exp.Amount.Equal(entry.Amount) && exp.Note == note {
			return true, nil
		}
	}
	return false, nil
}
