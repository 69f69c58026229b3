package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// Screens the presentation layer can navigate to
const (
	ScreenDashboard = "dashboard"
	ScreenEditor    = "editor"
	ScreenClients   = "clients"
	ScreenProducts  = "products"
	ScreenSettings  = "settings"
	ScreenReports   = "reports"
	ScreenCalendar  = "calendar"

	ViewCalendar = "calendar"
)

var validScreens = []string{
	ScreenDashboard, ScreenEditor, ScreenClients, ScreenProducts,
	ScreenSettings, ScreenReports, ScreenCalendar,
}

const defaultResponse = "Done."

// Navigation tells the presentation layer where to go after an action
type Navigation struct {
	Screen    string     `json:"screen"`
	View      string     `json:"view,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// Outcome is the result of dispatching one reply
type Outcome struct {
	Action     ActionType      `json:"action"`
	Response   string          `json:"response"`
	Navigation *Navigation     `json:"navigation,omitempty"`
	Invoice    *models.Invoice `json:"invoice,omitempty"`
	Client     *models.Client  `json:"client,omitempty"`
	Product    *models.Product `json:"product,omitempty"`
}

// ProviderFactory builds a text-generation backend for the configured credentials
type ProviderFactory func(apiKey, model string) (llm.LLMProvider, error)

// DefaultProviderFactory infers the backend from the model name and asks for
// JSON replies at a low temperature.
func DefaultProviderFactory(fallback llm.ProviderType) ProviderFactory {
	return func(apiKey, model string) (llm.LLMProvider, error) {
		return llm.NewService(&llm.ProviderConfig{
			Type:        llm.InferProviderType(model, fallback),
			APIKey:      apiKey,
			Model:       model,
			Temperature: 0.2,
			JSONMode:    true,
		})
	}
}

// ValidateConfig fails before any external call when credentials are missing
func ValidateConfig(apiKey, model string) error {
	if strings.TrimSpace(apiKey) == "" {
		return ierr.NewError("assistant api key missing").
			WithHint("API Key is missing. Please configure it in Settings.").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return ierr.NewError("assistant model missing").
			WithHint("Model is not selected. Please configure it in Settings.").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Dispatcher turns an utterance into a domain mutation or navigation
type Dispatcher struct {
	store     *services.Store
	providers ProviderFactory
}

func NewDispatcher(store *services.Store, providers ProviderFactory) *Dispatcher {
	return &Dispatcher{store: store, providers: providers}
}

// Ask sends the utterance with a fresh snapshot and applies the reply
func (d *Dispatcher) Ask(ctx context.Context, utterance string) (Outcome, error) {
	settings := d.store.CompanySettings()
	if err := ValidateConfig(settings.APIKey, settings.AIModel); err != nil {
		return Outcome{}, err
	}

	provider, err := d.providers(settings.APIKey, settings.AIModel)
	if err != nil {
		return Outcome{}, ierr.WithError(err).
			WithHint(err.Error()).
			Mark(ierr.ErrAssistant)
	}

	snap := BuildSnapshot(d.store)
	body, err := provider.GenerateResponse(ctx, SystemPrompt(snap), "USER COMMAND: "+utterance)
	if err != nil {
		utils.LogError("assistant request failed", err, map[string]interface{}{
			"provider": provider.GetProviderName(),
			"model":    settings.AIModel,
		})
		return Outcome{}, ierr.WithError(err).
			WithHint(err.Error()).
			Mark(ierr.ErrAssistant)
	}

	reply, err := ParseReply(body)
	if err != nil {
		utils.LogWarn("rejected assistant reply", map[string]interface{}{
			"provider": provider.GetProviderName(),
			"body":     body,
			"error":    err.Error(),
		})
		return Outcome{}, err
	}
	return d.Apply(ctx, reply)
}

// Apply performs the effect of a parsed reply on the store
func (d *Dispatcher) Apply(ctx context.Context, reply Reply) (Outcome, error) {
	if reply.Action == nil {
		reply.Action = Message{}
	}
	out := Outcome{
		Action:   reply.Action.Type(),
		Response: lo.Ternary(strings.TrimSpace(reply.Response) != "", reply.Response, defaultResponse),
	}

	var err error
	switch a := reply.Action.(type) {
	case CreateInvoice:
		err = d.createInvoice(ctx, a, &out)
	case CreateClient:
		err = d.createClient(ctx, a, &out)
	case CreateProduct:
		err = d.createProduct(ctx, a, &out)
	case Navigate:
		navigate(a, &out)
	case FinancialSummary:
		out.Navigation = &Navigation{Screen: ScreenReports}
	case Message:
		if reply.Requested != "" && reply.Requested != string(ActionMessage) {
			utils.LogWarn("unknown assistant action", map[string]interface{}{
				"action": reply.Requested,
			})
		}
	}
	if err != nil {
		return Outcome{}, err
	}

	utils.LogInfo("assistant action dispatched", map[string]interface{}{
		"action": string(out.Action),
	})
	return out, nil
}

func (d *Dispatcher) createInvoice(ctx context.Context, a CreateInvoice, out *Outcome) error {
	client, ok := d.store.FindClientByName(a.ClientName)
	if !ok {
		name := strings.TrimSpace(a.ClientName)
		client = models.Client{Name: lo.Ternary(name != "", name, "New Client")}
	}

	items := lo.Map(a.Items, func(it InvoiceItem, _ int) models.LineItem {
		return d.resolveItem(it)
	})

	inv, err := d.store.StartInvoice(ctx, services.InvoiceDraft{
		Client: client,
		Items:  items,
		Notes:  a.Notes,
	})
	if err != nil {
		if !ierr.IsPersistence(err) {
			return err
		}
		// the draft exists in memory; only the invoice counter was not saved
		utils.LogWarn("invoice counter not persisted", map[string]interface{}{
			"invoice_id": inv.ID,
		})
	}

	out.Invoice = &inv
	out.Navigation = &Navigation{Screen: ScreenEditor}
	out.Response = fmt.Sprintf("I've created a draft invoice for %s. Please review it in the editor.", client.Name)
	return nil
}

// resolveItem fills price and category from a saved product. An explicit
// non-zero price from the model wins over the catalog price.
func (d *Dispatcher) resolveItem(it InvoiceItem) models.LineItem {
	desc := strings.TrimSpace(it.Description)
	if desc == "" {
		desc = strings.TrimSpace(it.Name)
	}

	product, found := d.store.FindProductByName(desc)
	if desc == "" {
		desc = "Item"
	}

	qty := it.Quantity
	if qty == 0 {
		qty = 1
	}

	item := models.LineItem{Description: desc, Quantity: qty}
	switch {
	case it.Price != nil && *it.Price != 0:
		item.Price = *it.Price
	case found:
		item.Price = product.Price
	}
	if found {
		item.Category = product.Category
	}
	return item
}

func (d *Dispatcher) createClient(ctx context.Context, a CreateClient, out *Outcome) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		out.Response = "I couldn't add the client because the name was missing."
		return nil
	}

	client := models.Client{
		Name:    name,
		Email:   strings.TrimSpace(a.Email),
		Phone:   strings.TrimSpace(a.Phone),
		Address: strings.TrimSpace(a.Address),
		GSTIN:   strings.ToUpper(strings.TrimSpace(a.GSTIN)),
	}
	if !client.HasContact() && !a.SkipDetails {
		out.Response = fmt.Sprintf("I can create the client %s, but I don't have their email, phone, or address. Would you like to add these details?", name)
		return nil
	}

	saved, err := d.store.AddClient(ctx, client)
	if err != nil && !ierr.IsPersistence(err) {
		return err
	}

	out.Client = &saved
	out.Navigation = &Navigation{Screen: ScreenClients}
	out.Response = "Added new client: " + name
	return nil
}

func (d *Dispatcher) createProduct(ctx context.Context, a CreateProduct, out *Outcome) error {
	name := strings.TrimSpace(a.Name)
	if name == "" || a.Price == nil || *a.Price == 0 {
		out.Response = "I couldn't add the product. Name and price are required."
		return nil
	}

	product := models.Product{
		Name:        name,
		Description: lo.Ternary(strings.TrimSpace(a.Description) != "", strings.TrimSpace(a.Description), name),
		Price:       *a.Price,
		Category:    strings.TrimSpace(a.Category),
	}
	saved, err := d.store.AddProduct(ctx, product)
	if err != nil && !ierr.IsPersistence(err) {
		return err
	}

	out.Product = &saved
	out.Navigation = &Navigation{Screen: ScreenProducts}
	out.Response = fmt.Sprintf("Added new product: %s (%s)", name, d.store.FormatCurrency(a.Price.Float()))
	return nil
}

func navigate(a Navigate, out *Outcome) {
	screen := strings.ToLower(strings.TrimSpace(a.FormattedScreenName))

	if a.DateRange != nil && (screen == "" || screen == ScreenReports) {
		out.Navigation = &Navigation{Screen: ScreenReports, DateRange: a.DateRange}
		out.Response = fmt.Sprintf("Showing reports for %s to %s...", a.DateRange.Start, a.DateRange.End)
		return
	}

	switch {
	case screen == ScreenCalendar:
		out.Navigation = &Navigation{Screen: ScreenReports, View: ViewCalendar, DateRange: a.DateRange}
		out.Response = "Opening calendar view..."
	case lo.Contains(validScreens, screen):
		out.Navigation = &Navigation{Screen: screen, DateRange: a.DateRange}
		out.Response = fmt.Sprintf("Navigating to %s...", screen)
	default:
		out.Response = fmt.Sprintf("I can't navigate to %q. Try \"dashboard\", \"editor\", \"clients\", etc.", screen)
	}
}
