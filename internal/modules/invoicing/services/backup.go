package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// HistoryHeaders are the columns of the flattened invoice history export
var HistoryHeaders = []string{
	"Invoice Number", "Date", "Client Name", "Client GSTIN", "Items",
	"Subtotal", "Total Amount", "Status", "Notes",
}

// ExportBackup snapshots the whole state into one document
func (s *Store) ExportBackup() models.Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settings
	return models.Backup{
		CompanySettings: &settings,
		Clients:         append([]models.Client{}, s.clients...),
		Products:        append([]models.Product{}, s.products...),
		Invoices:        cloneInvoices(s.invoices),
		ExportDate:      s.now().UTC(),
		Version:         models.BackupVersion,
	}
}

// ImportBackup restores a backup document. Clients, products and settings
// present in the document overwrite the current ones; settings fields the
// document omits keep their current values. Every invoice is upserted.
func (s *Store) ImportBackup(ctx context.Context, data []byte) (models.ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result models.ImportResult

	current := s.settings
	backup := models.Backup{CompanySettings: &current}
	if err := json.Unmarshal(data, &backup); err != nil {
		return result, ierr.WithError(err).
			WithHint("The selected file is not a valid backup.").
			Mark(ierr.ErrValidation)
	}

	if backup.Clients != nil {
		for i := range backup.Clients {
			if backup.Clients[i].ID == "" {
				backup.Clients[i].ID = s.newID()
			}
		}
		s.clients = backup.Clients
		result.Clients = len(backup.Clients)
	}
	if backup.Products != nil {
		for i := range backup.Products {
			if backup.Products[i].ID == "" {
				backup.Products[i].ID = s.newID()
			}
		}
		s.products = backup.Products
		result.Products = len(backup.Products)
	}
	if backup.CompanySettings != nil {
		s.settings = *backup.CompanySettings
	}

	for _, inv := range backup.Invoices {
		if inv.ID == "" {
			result.Failed++
			continue
		}
		if !inv.Status.Valid() {
			inv.Status = models.StatusSaved
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			utils.LogError("failed to import invoice", err, map[string]interface{}{"invoice_id": inv.ID})
			result.Failed++
			continue
		}
		s.upsertLocked(inv)
		result.Invoices++
	}

	utils.LogInfo("backup imported", map[string]interface{}{
		"clients":  result.Clients,
		"products": result.Products,
		"invoices": result.Invoices,
		"failed":   result.Failed,
	})

	if err := s.persistGlobalLocked(ctx); err != nil {
		return result, err
	}
	if result.Failed > 0 {
		return result, ierr.NewErrorf("%d invoices could not be imported", result.Failed).
			WithHintf("%d invoices could not be imported.", result.Failed).
			Mark(ierr.ErrPersistence)
	}
	return result, nil
}

// HistoryTable flattens every invoice into one row per invoice. Totals use
// the current discount and tax flags.
func (s *Store) HistoryTable() export.TableData {
	s.mu.Lock()
	invoices := cloneInvoices(s.invoices)
	settings := s.settings
	s.mu.Unlock()

	rows := lo.Map(invoices, func(inv models.Invoice, _ int) []interface{} {
		t := ComputeTotals(inv, settings)
		return []interface{}{
			inv.ID,
			inv.Date,
			inv.Client.Name,
			inv.Client.GSTIN,
			itemsSummary(inv.Items),
			fixed2(t.Subtotal),
			fixed2(t.Total),
			string(inv.Status),
			strings.ReplaceAll(strings.ReplaceAll(inv.Notes, "\r\n", " "), "\n", " "),
		}
	})

	return export.TableData{Headers: HistoryHeaders, Rows: rows}
}

func itemsSummary(items []models.LineItem) string {
	parts := lo.Map(items, func(it models.LineItem, _ int) string {
		return fmt.Sprintf("%s (%s x %s)", it.Description,
			strconv.FormatFloat(it.Quantity.Float(), 'f', -1, 64),
			strconv.FormatFloat(it.Price.Float(), 'f', -1, 64))
	})
	return strings.Join(parts, "; ")
}

// fixed2 renders money columns with exactly two decimals
func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// BackupFileName is the file name of a backup taken at t
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("invoicer-backup-%s.json", t.Format("2006-01-02"))
}

// WriteBackup writes the current state into dir and returns the file path.
// A second backup on the same day replaces the first.
func (s *Store) WriteBackup(dir string) (string, error) {
	backup := s.ExportBackup()
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to prepare the backup.").
			Mark(ierr.ErrPersistence)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ierr.WithError(err).
			WithHintf("Cannot create backup folder %s.", dir).
			Mark(ierr.ErrPersistence)
	}

	path := filepath.Join(dir, BackupFileName(s.now()))
	if err := storage.WriteFileAtomic(path, data); err != nil {
		utils.LogError("failed to write backup", err, map[string]interface{}{"path": path})
		return "", ierr.WithError(err).
			WithHint("Failed to write the backup file.").
			Mark(ierr.ErrPersistence)
	}

	utils.LogInfo("backup written", map[string]interface{}{
		"path":     path,
		"invoices": len(backup.Invoices),
	})
	return path, nil
}
