package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

func TestParseReply_CreateInvoice(t *testing.T) {
	reply, err := ParseReply(`{
		"action": "create_invoice",
		"params": {
			"clientName": "Acme",
			"items": [{"description": "Design", "quantity": "2"}, {"name": "Hosting", "quantity": 1, "price": 30}],
			"notes": "Net 30"
		},
		"response": "Creating invoice for Acme..."
	}`)
	require.NoError(t, err)

	a, ok := reply.Action.(CreateInvoice)
	require.True(t, ok)
	assert.Equal(t, "Acme", a.ClientName)
	assert.Equal(t, "Net 30", a.Notes)
	require.Len(t, a.Items, 2)
	assert.EqualValues(t, 2, a.Items[0].Quantity)
	assert.Nil(t, a.Items[0].Price)
	require.NotNil(t, a.Items[1].Price)
	assert.EqualValues(t, 30, *a.Items[1].Price)
	assert.Equal(t, "Creating invoice for Acme...", reply.Response)
}

func TestParseReply_Variants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ActionType
	}{
		{"client", `{"action":"create_client","params":{"name":"Bob"}}`, ActionCreateClient},
		{"product", `{"action":"create_product","params":{"name":"Logo","price":"99"}}`, ActionCreateProduct},
		{"navigate", `{"action":"navigate","params":{"formattedScreenName":"clients"}}`, ActionNavigate},
		{"summary", `{"action":"get_financial_summary","params":{"timePeriod":"month"}}`, ActionFinancialSummary},
		{"message", `{"action":"message","response":"hi"}`, ActionMessage},
		{"unknown action", `{"action":"delete_everything","params":{"all":true},"response":"no"}`, ActionMessage},
		{"missing action", `{"response":"hello"}`, ActionMessage},
		{"null params", `{"action":"navigate","params":null}`, ActionNavigate},
		{"surrounding whitespace", "\n  {\"action\":\"message\"}  \n", ActionMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseReply(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Action.Type())
		})
	}
}

func TestParseReply_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"prose", "Sure! Here is the invoice."},
		{"prose wrapper", "Here you go: {\"action\":\"message\"}"},
		{"markdown fence", "```json\n{\"action\":\"message\"}\n```"},
		{"trailing object", `{"action":"message"}{"action":"navigate"}`},
		{"array", `[{"action":"message"}]`},
		{"bad params", `{"action":"create_invoice","params":{"items":"three"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply(tt.body)
			require.Error(t, err)
			assert.True(t, ierr.IsAssistant(err))
		})
	}
}

func TestParseReply_MalformedMessage(t *testing.T) {
	_, err := ParseReply("not json")
	require.Error(t, err)
	assert.Equal(t, "AI response was not valid JSON.", ierr.UserMessage(err))
}
