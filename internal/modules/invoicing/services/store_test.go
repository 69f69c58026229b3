package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/repositories"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

func TestCreateNewInvoice(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	inv, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-20240105-001", inv.ID)
	assert.Equal(t, "2024-01-05", inv.Date)
	assert.Equal(t, models.StatusNew, inv.Status)
	assert.Len(t, inv.Items, 1)
	assert.Equal(t, models.Number(1), inv.Items[0].Quantity)
	assert.Equal(t, models.Number(10), inv.TaxRate)
	assert.Equal(t, "INR", inv.Currency)
	assert.Equal(t, models.DefaultNotes, inv.Notes)

	next, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-20240105-002", next.ID)
	assert.Equal(t, 3, s.CompanySettings().NextInvoiceNumber)
}

func TestInvoiceCounterIsPersisted(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	require.NoError(t, s.UpdateCompanySettings(ctx, "invoicePrefix", "ACME"))
	_, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)

	reloaded := NewStore(
		repositories.NewInvoiceRepo(backend),
		repositories.NewGlobalRepo(backend),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, reloaded.Load(ctx))

	id, err := reloaded.AllocateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACME-20240105-002", id)
}

func TestActiveInvoiceIsCreatedLazily(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	assert.Equal(t, 1, s.CompanySettings().NextInvoiceNumber)

	inv, err := s.ActiveInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV-20240105-001", inv.ID)

	again, err := s.ActiveInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, again.ID)
	assert.Equal(t, 2, s.CompanySettings().NextInvoiceNumber)
}

func TestSaveIsIdempotentUpsert(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)

	res := s.SaveDraft(ctx)
	require.True(t, res.OK, res.Message)
	res = s.SaveDraft(ctx)
	require.True(t, res.OK, res.Message)

	assert.Len(t, s.Invoices(), 1)
	assert.Len(t, s.Drafts(), 1)
	assert.Empty(t, s.History())

	res = s.SaveInvoiceFinal(ctx)
	require.True(t, res.OK)
	assert.Equal(t, models.StatusSaved, res.Invoice.Status)
	assert.Len(t, s.Invoices(), 1)
	assert.Empty(t, s.Drafts())
	assert.Len(t, s.History(), 1)
}

func TestSavePrependsNewInvoices(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveInvoiceFinal(ctx).OK)

	_, err = s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveInvoiceFinal(ctx).OK)

	list := s.Invoices()
	require.Len(t, list, 2)
	assert.Equal(t, "INV-20240105-002", list[0].ID)
	assert.Equal(t, "INV-20240105-001", list[1].ID)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	_, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)

	backend.failPut = true
	res := s.SaveInvoiceFinal(ctx)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "disk full")

	active, err := s.ActiveInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, active.Status)
	assert.Empty(t, s.Invoices())
}

func TestDeleteActiveInvoiceCreatesFreshOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	inv, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveDraft(ctx).OK)

	require.NoError(t, s.DeleteInvoice(ctx, inv.ID))
	assert.Empty(t, s.Invoices())

	active, err := s.ActiveInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, active.Status)
	assert.NotEqual(t, inv.ID, active.ID)
}

func TestDeleteOtherInvoiceKeepsActive(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveDraft(ctx).OK)
	second, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteInvoice(ctx, first.ID))

	active, err := s.ActiveInvoice(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestDeleteFailureKeepsInvoice(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	inv, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	require.True(t, s.SaveDraft(ctx).OK)

	backend.failDelete = true
	err = s.DeleteInvoice(ctx, inv.ID)
	assert.True(t, ierr.IsPersistence(err))
	assert.Len(t, s.Invoices(), 1)
}

func TestLoadInvoiceDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	_, err = s.UpdateItem(mustActive(t, s).Items[0].ID, "description", "Design")
	require.NoError(t, err)
	require.True(t, s.SaveDraft(ctx).OK)

	stored := s.Invoices()[0]
	s.LoadInvoice(stored)
	_, err = s.UpdateItem(stored.Items[0].ID, "description", "Changed")
	require.NoError(t, err)

	assert.Equal(t, "Design", s.Invoices()[0].Items[0].Description)
}

func TestLoadInvoiceWithoutIDStaysActive(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.LoadInvoice(models.Invoice{
		Notes: "mine",
		Items: []models.LineItem{{ID: "item-a", Description: "Design", Quantity: 1, Price: 5}},
	})
	_, err := s.AddItem(ctx, models.AddItemRequest{Description: "Travel", Quantity: 1, Price: 50})
	require.NoError(t, err)

	active := mustActive(t, s)
	assert.Empty(t, active.ID)
	assert.Equal(t, "mine", active.Notes)
	assert.Len(t, active.Items, 2)
	assert.Equal(t, 1, s.CompanySettings().NextInvoiceNumber)
}

func TestItemOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CreateNewInvoice(ctx)
	require.NoError(t, err)

	a, err := s.AddItem(ctx, models.AddItemRequest{Description: "Hosting", Price: 20})
	require.NoError(t, err)
	assert.Equal(t, models.Number(1), a.Quantity)

	b, err := s.AddItem(ctx, models.AddItemRequest{Description: "Domain", Quantity: 2, Price: 10})
	require.NoError(t, err)

	updated, err := s.UpdateItem(a.ID, "quantity", "3")
	require.NoError(t, err)
	assert.Equal(t, models.Number(3), updated.Quantity)
	assert.Equal(t, "Hosting", updated.Description)
	assert.Equal(t, models.Number(20), updated.Price)

	inv := mustActive(t, s)
	require.Len(t, inv.Items, 3)
	assert.Equal(t, a.ID, inv.Items[1].ID)
	assert.Equal(t, b.ID, inv.Items[2].ID)

	_, err = s.UpdateItem(a.ID, "color", "red")
	assert.True(t, ierr.IsValidation(err))
	_, err = s.UpdateItem(a.ID, "price", "abc")
	assert.True(t, ierr.IsValidation(err))
	_, err = s.UpdateItem("missing", "price", 1)
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, s.RemoveItem(a.ID))
	inv = mustActive(t, s)
	assert.Len(t, inv.Items, 2)
	assert.Equal(t, b.ID, inv.Items[1].ID)
	assert.True(t, ierr.IsNotFound(s.RemoveItem(a.ID)))
}

func TestSelectClientIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	c, err := s.AddClient(ctx, models.Client{Name: "Acme", Email: "billing@acme.test"})
	require.NoError(t, err)

	_, err = s.SelectClientByID(ctx, c.ID)
	require.NoError(t, err)

	_, err = s.EditClient(ctx, c.ID, models.Client{Name: "Acme Corp", Email: "new@acme.test"})
	require.NoError(t, err)

	inv := mustActive(t, s)
	assert.Equal(t, "Acme", inv.Client.Name)
	assert.Equal(t, "billing@acme.test", inv.Client.Email)
}

func TestUpdateClientAndSettings(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	c, err := s.UpdateClient(ctx, "gstin", "27abcde1234f1z5")
	require.NoError(t, err)
	assert.Equal(t, "27ABCDE1234F1Z5", c.GSTIN)

	_, err = s.UpdateClient(ctx, "age", "3")
	assert.True(t, ierr.IsValidation(err))

	inv, err := s.UpdateSettings(ctx, "discountRate", 5)
	require.NoError(t, err)
	assert.Equal(t, models.Number(5), inv.DiscountRate)

	inv, err = s.UpdateSettings(ctx, "currency", "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", inv.Currency)

	_, err = s.UpdateSettings(ctx, "id", "../etc")
	assert.True(t, ierr.IsValidation(err))

	inv, err = s.UpdateSettings(ctx, "id", "CUSTOM-1")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-1", inv.ID)
}

func TestSaveClientFromInvoice(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	added, err := s.SaveClientFromInvoice(ctx)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.UpdateClient(ctx, "name", "Globex")
	require.NoError(t, err)

	added, err = s.SaveClientFromInvoice(ctx)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.SaveClientFromInvoice(ctx)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, s.Clients(), 1)
}

func TestCatalogCRUD(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.AddClient(ctx, models.Client{Name: "  "})
	assert.True(t, ierr.IsValidation(err))

	c, err := s.AddClient(ctx, models.Client{Name: "Initech"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	found, ok := s.FindClientByName("INITECH")
	require.True(t, ok)
	assert.Equal(t, c.ID, found.ID)

	require.NoError(t, s.DeleteClient(ctx, c.ID))
	assert.Empty(t, s.Clients())
	assert.True(t, ierr.IsNotFound(s.DeleteClient(ctx, c.ID)))

	p, err := s.AddProduct(ctx, models.Product{Description: "Consulting", Price: 100, Category: "Services"})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, models.Product{Description: "Audit", Price: 300, Category: "Services"})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, models.Product{Name: "Laptop", Price: 900, Category: "Hardware"})
	require.NoError(t, err)
	_, err = s.AddProduct(ctx, models.Product{Price: 1})
	assert.True(t, ierr.IsValidation(err))

	assert.Equal(t, []string{"Hardware", "Services"}, s.ProductCategories())

	edited, err := s.EditProduct(ctx, p.ID, models.Product{Description: "Consulting", Price: 120})
	require.NoError(t, err)
	assert.Equal(t, models.Number(120), edited.Price)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	assert.Len(t, s.Products(), 2)
}

func TestGlobalWriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	backend.failGlobal = true
	c, err := s.AddClient(ctx, models.Client{Name: "Umbrella"})
	assert.True(t, ierr.IsPersistence(err))
	assert.Equal(t, "Umbrella", c.Name)
	assert.Len(t, s.Clients(), 1)
}

func TestProductItemCarriesCategory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p, err := s.AddProduct(ctx, models.Product{Description: "Consulting", Price: 100, Category: "Services"})
	require.NoError(t, err)

	item, err := s.AddProductItem(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Consulting", item.Description)
	assert.Equal(t, "Services", item.Category)
	assert.Equal(t, 200.0, item.Amount())
}

func TestInvoicesForClient(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, name := range []string{"Acme", "acme ", "Globex"} {
		_, err := s.StartInvoice(ctx, InvoiceDraft{Client: models.Client{Name: name}})
		require.NoError(t, err)
		require.True(t, s.SaveInvoiceFinal(ctx).OK)
	}

	assert.Len(t, s.InvoicesForClient("ACME"), 2)
	assert.Len(t, s.InvoicesForClient("globex"), 1)
	assert.Empty(t, s.InvoicesForClient(""))
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	ctx := context.Background()
	backend := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	require.NoError(t, backend.PutGlobal(ctx, []byte(`{
		"clients": [{"name": "Legacy"}],
		"products": [{"description": "Old thing", "price": "15"}]
	}`)))

	s := NewStore(repositories.NewInvoiceRepo(backend), repositories.NewGlobalRepo(backend),
		WithIDGenerator(sequentialIDs()))
	require.NoError(t, s.Load(ctx))

	assert.Equal(t, "id-1", s.Clients()[0].ID)
	assert.Equal(t, "id-2", s.Products()[0].ID)
	assert.Equal(t, models.Number(15), s.Products()[0].Price)
}

func mustActive(t *testing.T, s *Store) models.Invoice {
	t.Helper()
	inv, err := s.ActiveInvoice(context.Background())
	require.NoError(t, err)
	return inv
}
