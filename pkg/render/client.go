package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// InjectionContract tells the browser agent where to look, where to insert
// and which outgoing call to intercept. Selectors default to the host
// checkout's stable hooks but remain overridable per deployment.
type InjectionContract struct {
	// FormSelector locates the client-rendered checkout form; its presence
	// is the detection condition.
	FormSelector string `json:"formSelector"`

	// AnchorSelector is the preferred insertion anchor (after the billing
	// fields). When absent from the page, fields append to the form instead.
	AnchorSelector string `json:"anchorSelector"`

	// ContainerClass marks an injected field set; finding it makes a second
	// injection attempt a no-op.
	ContainerClass string `json:"containerClass"`

	// SubmitPathSubstring identifies the checkout-submission request: any
	// outgoing call whose URL contains it gets the field values merged in.
	SubmitPathSubstring string `json:"submitPathSubstring"`

	// RetryDelaysMS is the bounded detection schedule. One attempt runs
	// immediately; each entry delays one further attempt.
	RetryDelaysMS []int `json:"retryDelaysMs"`
}

// DefaultContract returns the injection contract for the stock client
// checkout markup.
func DefaultContract() InjectionContract {
	return InjectionContract{
		FormSelector:        ".checkout-form",
		AnchorSelector:      ".checkout-billing-fields",
		ContainerClass:      ContainerClass,
		SubmitPathSubstring: "/checkout",
		RetryDelaysMS:       []int{500, 1500, 3000},
	}
}

// RetryDelays converts the schedule to durations.
func (c InjectionContract) RetryDelays() []time.Duration {
	out := make([]time.Duration, len(c.RetryDelaysMS))
	for i, ms := range c.RetryDelaysMS {
		out[i] = time.Duration(ms) * time.Millisecond
	}
	return out
}

// ClientPayload is the serialized render instruction handed to the agent: the
// enabled definitions plus the injection contract.
type ClientPayload struct {
	Fields   []model.FieldDefinition `json:"fields"`
	Contract InjectionContract       `json:"contract"`
}

// NewClientPayload pairs the enabled field set with the default contract.
func NewClientPayload(fields []model.FieldDefinition) ClientPayload {
	return ClientPayload{Fields: fields, Contract: DefaultContract()}
}

// ContainerHTML builds the injectable container holding every field's markup.
// The agent inserts the result verbatim at the contract anchor.
func (p ClientPayload) ContainerHTML() string {
	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(html.EscapeString(p.Contract.ContainerClass))
	b.WriteString("\">\n")
	for _, field := range p.Fields {
		b.WriteString(FieldMarkup(field, ""))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// BootstrapScript serializes the payload into a page-scoped global, the hand-
// off point between server render and the browser agent. globalName must be a
// bare identifier.
func (p ClientPayload) BootstrapScript(globalName string) (string, error) {
	if !validIdentifier(globalName) {
		return "", fmt.Errorf("render: invalid global name %q", globalName)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("render: marshal client payload: %w", err)
	}
	// </script> inside a JSON string would terminate the tag early.
	safe := strings.ReplaceAll(string(payload), "</", "<\\/")
	return "<script>window." + globalName + " = " + safe + ";</script>", nil
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
