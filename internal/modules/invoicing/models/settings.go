package models

// CompanySettings is the single global settings record
type CompanySettings struct {
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`

	ShowInPreview  bool `json:"showInPreview"`
	EnableGST      bool `json:"enableGST"`
	EnableTax      bool `json:"enableTax"`
	EnableDiscount bool `json:"enableDiscount"`
	EnableAI       bool `json:"enableAI"`

	InvoicePrefix     string `json:"invoicePrefix,omitempty"`
	NextInvoiceNumber int    `json:"nextInvoiceNumber,omitempty"`

	APIKey  string `json:"apiKey"`
	AIModel string `json:"aiModel"`
}

const (
	DefaultInvoicePrefix = "INV"
	DefaultAIModel       = "gemini-2.0-flash"
	DefaultCurrency      = "INR"
	DefaultNotes         = "Thank you for your business!"
	DefaultTaxRate       = 10
)

// DefaultCompanySettings returns the settings used before anything is saved
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		ShowInPreview:     true,
		EnableTax:         true,
		EnableDiscount:    false,
		EnableAI:          false,
		InvoicePrefix:     DefaultInvoicePrefix,
		NextInvoiceNumber: 1,
		AIModel:           DefaultAIModel,
	}
}

// GlobalData is the persisted global document
type GlobalData struct {
	Clients         []Client         `json:"clients"`
	Products        []Product        `json:"products"`
	CompanySettings *CompanySettings `json:"companySettings,omitempty"`
}
