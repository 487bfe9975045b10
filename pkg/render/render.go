// Package render turns the enabled field definitions into per-surface render
// instructions. The classic target emits server-rendered form controls; the
// client target serializes the same definitions plus a DOM-injection contract
// for the browser agent. Both consume the registry's EnabledForRender output
// and share one markup builder, so the two checkout surfaces can never drift
// apart.
package render

import (
	"html"
	"strings"

	"github.com/goliatone/go-checkoutfields/pkg/fieldtype"
	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// Wrapper and container class names are part of the injection contract: the
// agent uses ContainerClass to detect an already-injected field set.
const (
	ContainerClass = "checkout-extra-fields"
	WrapperClass   = "checkout-extra-field"
)

// FieldMarkup builds the wrapper, label and pre-filled control for one
// definition. All dynamic text is escaped here; callers concatenate results
// verbatim.
func FieldMarkup(def model.FieldDefinition, value string) string {
	control := fieldtype.For(def.Type).Control(def, value)

	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="`)
	b.WriteString(WrapperClass)
	b.WriteString(`" data-field-id="`)
	b.WriteString(html.EscapeString(def.ID))
	b.WriteString(`" data-field-position="`)
	b.WriteString(html.EscapeString(string(def.Position)))
	b.WriteString("\">\n")

	b.WriteString(`    <label for="`)
	b.WriteString(html.EscapeString(def.ID))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(def.Label))
	if def.Required {
		b.WriteString(` *`)
	}
	b.WriteString("</label>\n")

	b.WriteString("    ")
	b.WriteString(control)
	b.WriteString("\n</div>\n")
	return b.String()
}

// Classic renders the full field set for the server-rendered checkout form.
// state carries any in-progress submission values keyed by field id, so a
// rejected submission re-renders with what the shopper already typed.
func Classic(fields []model.FieldDefinition, state map[string]string) string {
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(ContainerClass)
	b.WriteString("\">\n")
	for _, field := range fields {
		b.WriteString(FieldMarkup(field, state[field.ID]))
	}
	b.WriteString("</div>\n")
	return b.String()
}
