package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

func seedCatalog(t *testing.T, store *services.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := store.AddClient(ctx, models.Client{Name: "Acme Corp", Email: "billing@acme.test"})
	require.NoError(t, err)
	_, err = store.AddProduct(ctx, models.Product{
		Name:        "Design",
		Description: "Logo design",
		Price:       1500,
		Category:    "Creative",
	})
	require.NoError(t, err)
}

func TestAsk_CreateInvoice(t *testing.T) {
	p := &fakeProvider{reply: `{
		"action": "create_invoice",
		"params": {
			"clientName": "acme corp",
			"items": [
				{"description": "Design", "quantity": "2"},
				{"description": "Hosting", "price": 30},
				{}
			]
		},
		"response": "Creating invoice..."
	}`}
	d, store := newTestDispatcher(t, p)
	seedCatalog(t, store)
	ctx := context.Background()

	out, err := d.Ask(ctx, "Invoice Acme for two designs and hosting")
	require.NoError(t, err)

	assert.Equal(t, ActionCreateInvoice, out.Action)
	assert.Equal(t, "I've created a draft invoice for Acme Corp. Please review it in the editor.", out.Response)
	require.NotNil(t, out.Navigation)
	assert.Equal(t, ScreenEditor, out.Navigation.Screen)

	active, err := store.ActiveInvoice(ctx)
	require.NoError(t, err)
	require.NotNil(t, out.Invoice)
	assert.Equal(t, active.ID, out.Invoice.ID)
	assert.Equal(t, models.StatusNew, active.Status)
	assert.Equal(t, "billing@acme.test", active.Client.Email)
	assert.Equal(t, models.DefaultNotes, active.Notes)

	require.Len(t, active.Items, 3)
	assert.Equal(t, "Design", active.Items[0].Description)
	assert.EqualValues(t, 2, active.Items[0].Quantity)
	assert.EqualValues(t, 1500, active.Items[0].Price)
	assert.Equal(t, "Creative", active.Items[0].Category)

	assert.Equal(t, "Hosting", active.Items[1].Description)
	assert.EqualValues(t, 1, active.Items[1].Quantity)
	assert.EqualValues(t, 30, active.Items[1].Price)

	assert.Equal(t, "Item", active.Items[2].Description)
	assert.EqualValues(t, 0, active.Items[2].Price)

	assert.Contains(t, p.system, "Current Date: 2024-01-05")
	assert.Contains(t, p.system, `"name":"Acme Corp"`)
	assert.Equal(t, "USER COMMAND: Invoice Acme for two designs and hosting", p.user)
}

func TestApply_CreateInvoiceExplicitPriceWins(t *testing.T) {
	d, store := newTestDispatcher(t, &fakeProvider{})
	seedCatalog(t, store)
	price := models.Number(1200)

	out, err := d.Apply(context.Background(), Reply{Action: CreateInvoice{
		ClientName: "Zed",
		Items:      []InvoiceItem{{Name: "logo design", Quantity: 1, Price: &price}},
		Notes:      "Discounted",
	}})
	require.NoError(t, err)

	require.NotNil(t, out.Invoice)
	assert.Equal(t, "Zed", out.Invoice.Client.Name)
	assert.Empty(t, out.Invoice.Client.Email)
	assert.Equal(t, "Discounted", out.Invoice.Notes)
	require.Len(t, out.Invoice.Items, 1)
	assert.EqualValues(t, 1200, out.Invoice.Items[0].Price)
	assert.Equal(t, "Creative", out.Invoice.Items[0].Category)
}

func TestApply_CreateInvoiceWithoutClient(t *testing.T) {
	d, _ := newTestDispatcher(t, &fakeProvider{})

	out, err := d.Apply(context.Background(), Reply{Action: CreateInvoice{}})
	require.NoError(t, err)
	require.NotNil(t, out.Invoice)
	assert.Equal(t, "New Client", out.Invoice.Client.Name)
	// no items requested keeps the blank row
	assert.Len(t, out.Invoice.Items, 1)
}

func TestApply_CreateClient(t *testing.T) {
	tests := []struct {
		name     string
		action   CreateClient
		created  bool
		response string
	}{
		{
			name:     "name only asks for details",
			action:   CreateClient{Name: "Bob"},
			response: "I can create the client Bob, but I don't have their email, phone, or address. Would you like to add these details?",
		},
		{
			name:     "missing name",
			action:   CreateClient{Email: "x@y.test"},
			response: "I couldn't add the client because the name was missing.",
		},
		{
			name:     "with phone",
			action:   CreateClient{Name: "Bob", Phone: "555-0100"},
			created:  true,
			response: "Added new client: Bob",
		},
		{
			name:     "skip details",
			action:   CreateClient{Name: "Bob", SkipDetails: true},
			created:  true,
			response: "Added new client: Bob",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, store := newTestDispatcher(t, &fakeProvider{})

			out, err := d.Apply(context.Background(), Reply{Action: tt.action, Response: "ok"})
			require.NoError(t, err)
			assert.Equal(t, tt.response, out.Response)

			if tt.created {
				require.Len(t, store.Clients(), 1)
				assert.Equal(t, "Bob", store.Clients()[0].Name)
				require.NotNil(t, out.Navigation)
				assert.Equal(t, ScreenClients, out.Navigation.Screen)
				require.NotNil(t, out.Client)
				assert.NotEmpty(t, out.Client.ID)
			} else {
				assert.Empty(t, store.Clients())
				assert.Nil(t, out.Navigation)
			}
		})
	}
}

func TestApply_CreateProduct(t *testing.T) {
	d, store := newTestDispatcher(t, &fakeProvider{})
	ctx := context.Background()

	out, err := d.Apply(ctx, Reply{Action: CreateProduct{Name: "Audit"}})
	require.NoError(t, err)
	assert.Equal(t, "I couldn't add the product. Name and price are required.", out.Response)
	assert.Empty(t, store.Products())

	zero := models.Number(0)
	out, err = d.Apply(ctx, Reply{Action: CreateProduct{Name: "Audit", Price: &zero}})
	require.NoError(t, err)
	assert.Equal(t, "I couldn't add the product. Name and price are required.", out.Response)
	assert.Empty(t, store.Products())

	price := models.Number(1500)
	out, err = d.Apply(ctx, Reply{Action: CreateProduct{Name: "Audit", Price: &price}})
	require.NoError(t, err)
	assert.Equal(t, "Added new product: Audit (₹1,500.00)", out.Response)
	require.NotNil(t, out.Navigation)
	assert.Equal(t, ScreenProducts, out.Navigation.Screen)

	products := store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "Audit", products[0].Name)
	assert.Equal(t, "Audit", products[0].Description)
	assert.EqualValues(t, 1500, products[0].Price)
}

func TestApply_Navigate(t *testing.T) {
	jan := &DateRange{Start: "2024-01-01", End: "2024-01-31"}

	tests := []struct {
		name     string
		action   Navigate
		want     *Navigation
		response string
	}{
		{
			name:     "reports with range",
			action:   Navigate{FormattedScreenName: "reports", DateRange: jan},
			want:     &Navigation{Screen: ScreenReports, DateRange: jan},
			response: "Showing reports for 2024-01-01 to 2024-01-31...",
		},
		{
			name:     "range without screen",
			action:   Navigate{DateRange: jan},
			want:     &Navigation{Screen: ScreenReports, DateRange: jan},
			response: "Showing reports for 2024-01-01 to 2024-01-31...",
		},
		{
			name:     "calendar",
			action:   Navigate{FormattedScreenName: "Calendar"},
			want:     &Navigation{Screen: ScreenReports, View: ViewCalendar},
			response: "Opening calendar view...",
		},
		{
			name:     "explicit screen keeps range",
			action:   Navigate{FormattedScreenName: "dashboard", DateRange: jan},
			want:     &Navigation{Screen: ScreenDashboard, DateRange: jan},
			response: "Navigating to dashboard...",
		},
		{
			name:     "plain screen",
			action:   Navigate{FormattedScreenName: "clients"},
			want:     &Navigation{Screen: ScreenClients},
			response: "Navigating to clients...",
		},
		{
			name:     "unknown screen",
			action:   Navigate{FormattedScreenName: "billing"},
			response: `I can't navigate to "billing". Try "dashboard", "editor", "clients", etc.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDispatcher(t, &fakeProvider{})
			out, err := d.Apply(context.Background(), Reply{Action: tt.action})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Navigation)
			assert.Equal(t, tt.response, out.Response)
		})
	}
}

func TestApply_FinancialSummaryAndMessage(t *testing.T) {
	d, store := newTestDispatcher(t, &fakeProvider{})
	ctx := context.Background()

	out, err := d.Apply(ctx, Reply{Action: FinancialSummary{TimePeriod: "month"}, Response: "You earned ₹200.00 this month."})
	require.NoError(t, err)
	assert.Equal(t, "You earned ₹200.00 this month.", out.Response)
	require.NotNil(t, out.Navigation)
	assert.Equal(t, ScreenReports, out.Navigation.Screen)

	reply, err := ParseReply(`{"action":"drop_tables","params":{},"response":"I can't do that."}`)
	require.NoError(t, err)
	out, err = d.Apply(ctx, reply)
	require.NoError(t, err)
	assert.Equal(t, ActionMessage, out.Action)
	assert.Equal(t, "I can't do that.", out.Response)
	assert.Nil(t, out.Navigation)
	assert.Empty(t, store.Clients())
	assert.Empty(t, store.Invoices())

	out, err = d.Apply(ctx, Reply{Action: Message{}})
	require.NoError(t, err)
	assert.Equal(t, "Done.", out.Response)
}

func TestAsk_ValidatesCredentialsFirst(t *testing.T) {
	p := &fakeProvider{reply: `{"action":"message"}`}
	store := newTestStore(t)
	d := NewDispatcher(store, func(apiKey, model string) (llm.LLMProvider, error) { return p, nil })
	ctx := context.Background()

	_, err := d.Ask(ctx, "hello")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.Equal(t, "API Key is missing. Please configure it in Settings.", ierr.UserMessage(err))

	require.NoError(t, store.UpdateCompanySettings(ctx, "apiKey", "k"))
	require.NoError(t, store.UpdateCompanySettings(ctx, "aiModel", ""))
	_, err = d.Ask(ctx, "hello")
	require.Error(t, err)
	assert.Equal(t, "Model is not selected. Please configure it in Settings.", ierr.UserMessage(err))

	assert.Zero(t, p.Calls())
}

func TestAsk_ProviderFailureLeavesStoreUntouched(t *testing.T) {
	p := &fakeProvider{err: errors.New("quota exceeded")}
	d, store := newTestDispatcher(t, p)

	_, err := d.Ask(context.Background(), "invoice Acme")
	require.Error(t, err)
	assert.True(t, ierr.IsAssistant(err))
	assert.Equal(t, "quota exceeded", ierr.UserMessage(err))

	p.err = nil
	p.reply = "Sure, creating it now!"
	_, err = d.Ask(context.Background(), "invoice Acme")
	require.Error(t, err)
	assert.True(t, ierr.IsAssistant(err))

	assert.Empty(t, store.Invoices())
	assert.Empty(t, store.Clients())
}

func TestDefaultProviderFactory(t *testing.T) {
	factory := DefaultProviderFactory(llm.ProviderGemini)

	p, err := factory("key", "claude-3-5-sonnet")
	require.NoError(t, err)
	assert.Equal(t, "Anthropic Claude", p.GetProviderName())

	p, err = factory("key", "custom-model")
	require.NoError(t, err)
	assert.Equal(t, "Google Gemini", p.GetProviderName())

	_, err = factory("", "gemini-2.0-flash")
	require.Error(t, err)
}
