package assistant

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

// ActionType names a structured command returned by the model
type ActionType string

const (
	ActionCreateInvoice    ActionType = "create_invoice"
	ActionCreateClient     ActionType = "create_client"
	ActionCreateProduct    ActionType = "create_product"
	ActionNavigate         ActionType = "navigate"
	ActionFinancialSummary ActionType = "get_financial_summary"
	ActionMessage          ActionType = "message"
)

// Action is one of the closed set of assistant commands
type Action interface {
	Type() ActionType
}

type InvoiceItem struct {
	Description string         `json:"description"`
	Name        string         `json:"name"`
	Quantity    models.Number  `json:"quantity"`
	Price       *models.Number `json:"price"`
}

type CreateInvoice struct {
	ClientName string        `json:"clientName"`
	Items      []InvoiceItem `json:"items"`
	Notes      string        `json:"notes"`
}

type CreateClient struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`

	// SkipDetails is set when the user asked to create the client without contact details
	SkipDetails bool `json:"skipDetails"`
}

type CreateProduct struct {
	Name        string         `json:"name"`
	Price       *models.Number `json:"price"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Navigate struct {
	FormattedScreenName string     `json:"formattedScreenName"`
	DateRange           *DateRange `json:"dateRange"`
}

type FinancialSummary struct {
	TimePeriod string `json:"timePeriod"`
}

// Message carries no parameters; only the reply text is shown
type Message struct{}

func (CreateInvoice) Type() ActionType    { return ActionCreateInvoice }
func (CreateClient) Type() ActionType     { return ActionCreateClient }
func (CreateProduct) Type() ActionType    { return ActionCreateProduct }
func (Navigate) Type() ActionType         { return ActionNavigate }
func (FinancialSummary) Type() ActionType { return ActionFinancialSummary }
func (Message) Type() ActionType          { return ActionMessage }

// Reply is a parsed model response
type Reply struct {
	Action   Action
	Response string
	// Requested is the raw action name, kept for logging unknown actions
	Requested string
}

type rawReply struct {
	Action   string          `json:"action"`
	Params   json.RawMessage `json:"params"`
	Response string          `json:"response"`
}

// ParseReply decodes the model's entire reply body. Anything that is not a
// single JSON object is rejected; unknown action names become a Message.
func ParseReply(body string) (Reply, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(body)))
	var raw rawReply
	if err := dec.Decode(&raw); err != nil {
		return Reply{}, malformed(err)
	}
	if dec.More() {
		return Reply{}, malformed(nil)
	}

	reply := Reply{
		Response:  raw.Response,
		Requested: raw.Action,
	}

	params := raw.Params
	if len(bytes.TrimSpace(params)) == 0 || bytes.Equal(bytes.TrimSpace(params), []byte("null")) {
		params = json.RawMessage("{}")
	}

	var err error
	switch ActionType(strings.TrimSpace(raw.Action)) {
	case ActionCreateInvoice:
		reply.Action, err = decodeParams[CreateInvoice](params)
	case ActionCreateClient:
		reply.Action, err = decodeParams[CreateClient](params)
	case ActionCreateProduct:
		reply.Action, err = decodeParams[CreateProduct](params)
	case ActionNavigate:
		reply.Action, err = decodeParams[Navigate](params)
	case ActionFinancialSummary:
		reply.Action, err = decodeParams[FinancialSummary](params)
	default:
		reply.Action = Message{}
	}
	if err != nil {
		return Reply{}, ierr.WithError(err).
			WithHintf("The assistant sent invalid parameters for %s.", raw.Action).
			Mark(ierr.ErrAssistant)
	}
	return reply, nil
}

func decodeParams[T Action](params json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(params, &v)
	return v, err
}

func malformed(err error) error {
	if err == nil {
		return ierr.NewError("trailing data after assistant reply").
			WithHint("AI response was not valid JSON.").
			Mark(ierr.ErrAssistant)
	}
	return ierr.WithError(err).
		WithHint("AI response was not valid JSON.").
		Mark(ierr.ErrAssistant)
}
