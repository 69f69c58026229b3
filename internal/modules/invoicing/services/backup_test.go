package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

func seedStore(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.UpdateCompanySettings(ctx, "name", "Pixel Studio"))
	require.NoError(t, s.UpdateCompanySettings(ctx, "enableDiscount", true))
	_, err := s.AddClient(ctx, models.Client{Name: `Acme, "The" Company`, GSTIN: "27AAA"})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, models.Product{Description: "Consulting", Price: 100, Category: "Services"})
	require.NoError(t, err)

	_, err = s.StartInvoice(ctx, InvoiceDraft{
		Client: models.Client{Name: `Acme, "The" Company`, GSTIN: "27AAA"},
		Items: []models.LineItem{
			{Description: "Consulting", Quantity: 2, Price: 100},
			{Description: "Travel", Quantity: 1, Price: 50},
		},
		Notes: "Line one\nLine two",
	})
	require.NoError(t, err)
	_, err = s.UpdateSettings(ctx, "discountRate", 10)
	require.NoError(t, err)
	require.True(t, s.SaveInvoiceFinal(ctx).OK)

	_, err = s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveDraft(ctx).OK)
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestStore(t)
	seedStore(t, src)

	backup := src.ExportBackup()
	assert.Equal(t, models.BackupVersion, backup.Version)
	data, err := json.Marshal(backup)
	require.NoError(t, err)

	dst, _ := newTestStore(t)
	result, err := dst.ImportBackup(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, models.ImportResult{Clients: 1, Products: 1, Invoices: 2}, result)

	assert.Equal(t, src.Clients(), dst.Clients())
	assert.Equal(t, src.Products(), dst.Products())
	assert.Equal(t, src.CompanySettings(), dst.CompanySettings())
	assert.ElementsMatch(t, src.Invoices(), dst.Invoices())
}

func TestImportMergesPartialSettings(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.UpdateCompanySettings(ctx, "name", "Old Name"))
	_, err := s.AddClient(ctx, models.Client{Name: "Keep Me"})
	require.NoError(t, err)

	result, err := s.ImportBackup(ctx, []byte(`{
		"companySettings": {"email": "hi@example.test"},
		"invoices": [{"id": "INV-X", "status": "bogus"}, {"status": "saved"}]
	}`))
	assert.True(t, ierr.IsPersistence(err))
	assert.Equal(t, 1, result.Invoices)
	assert.Equal(t, 1, result.Failed)

	settings := s.CompanySettings()
	assert.Equal(t, "Old Name", settings.Name)
	assert.Equal(t, "hi@example.test", settings.Email)
	assert.Len(t, s.Clients(), 1)
	assert.Equal(t, models.StatusSaved, s.History()[0].Status)
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ImportBackup(context.Background(), []byte(`not json`))
	assert.True(t, ierr.IsValidation(err))
}

func TestHistoryTable(t *testing.T) {
	s, _ := newTestStore(t)
	seedStore(t, s)

	table := s.HistoryTable()
	assert.Equal(t, HistoryHeaders, table.Headers)
	require.Len(t, table.Rows, 2)

	// newest first: the draft, then the saved invoice
	row := table.Rows[1]
	assert.Equal(t, "INV-20240105-001", row[0])
	assert.Equal(t, `Acme, "The" Company`, row[2])
	assert.Equal(t, "27AAA", row[3])
	assert.Equal(t, "Consulting (2 x 100); Travel (1 x 50)", row[4])
	assert.Equal(t, "250.00", row[5])
	// discount 10% then tax 10%: 250 * 0.9 * 1.1
	assert.Equal(t, "247.50", row[6])
	assert.Equal(t, "saved", row[7])
	assert.Equal(t, "Line one Line two", row[8])
}

func TestWriteBackup(t *testing.T) {
	s, _ := newTestStore(t)
	seedStore(t, s)
	dir := filepath.Join(t.TempDir(), "backups")

	path, err := s.WriteBackup(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoicer-backup-2024-01-05.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	restored, _ := newTestStore(t)
	result, err := restored.ImportBackup(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Invoices)
	assert.Equal(t, "Pixel Studio", restored.CompanySettings().Name)

	// same day overwrites
	_, err = s.WriteBackup(dir)
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
