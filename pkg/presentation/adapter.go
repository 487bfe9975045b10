// Package presentation projects stored order field values for display in
// admin detail views, order emails and customer-facing account pages. The
// projection is read only; formatting helpers are pure functions over it, and
// every rendering preserves the same field order and label:value content.
package presentation

import (
	"context"
	"html"
	"strings"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// ValueSource is the slice of the order field store the adapter consumes.
type ValueSource interface {
	Get(ctx context.Context, orderID string) ([]model.ValueRecord, error)
}

// Field is one display row.
type Field struct {
	Label string          `json:"label"`
	Value string          `json:"value"`
	Type  model.FieldType `json:"type"`
}

// Adapter is the read-only projection over the order field store.
type Adapter struct {
	values ValueSource
}

// New constructs the adapter.
func New(values ValueSource) *Adapter {
	return &Adapter{values: values}
}

// Get returns the display rows for an order, in store display order.
func (a *Adapter) Get(ctx context.Context, orderID string) ([]Field, error) {
	records, err := a.values.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	fields := make([]Field, len(records))
	for i, rec := range records {
		fields[i] = Field{Label: rec.Label, Value: rec.Value, Type: rec.Type}
	}
	return fields, nil
}

// Heading is the section title shared by every rendering.
const Heading = "Custom Information"

// HTMLTable renders the rows as a bordered two-column table for HTML emails
// and account pages. The host document supplies all surrounding layout.
func HTMLTable(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<h2>" + Heading + "</h2>\n")
	b.WriteString("<table class=\"checkout-extra-fields-table\">\n<tbody>\n")
	for _, field := range fields {
		b.WriteString("<tr><th>")
		b.WriteString(html.EscapeString(field.Label))
		b.WriteString("</th><td>")
		b.WriteString(AnchorValue(field))
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

// HTMLList renders the rows as heading plus label:value paragraphs, the
// compact variant used inside order-meta email sections.
func HTMLList(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<h3>" + Heading + "</h3>\n")
	for _, field := range fields {
		b.WriteString("<p><strong>")
		b.WriteString(html.EscapeString(field.Label))
		b.WriteString(":</strong> ")
		b.WriteString(html.EscapeString(field.Value))
		b.WriteString("</p>\n")
	}
	return b.String()
}

// PlainText renders the rows for plain-text emails, banner included. Field
// order and label:value content match the HTML renderings exactly.
func PlainText(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	banner := strings.Repeat("=", 50)
	var b strings.Builder
	b.WriteString(banner + "\n")
	b.WriteString(strings.ToUpper(Heading) + "\n")
	b.WriteString(banner + "\n")
	for _, field := range fields {
		b.WriteString(field.Label)
		b.WriteString(": ")
		b.WriteString(field.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// AnchorValue formats a single value for HTML output, linking email, tel and
// url values; everything else is escaped text.
func AnchorValue(field Field) string {
	escaped := html.EscapeString(field.Value)
	switch field.Type {
	case model.FieldTypeEmail:
		return `<a href="mailto:` + escaped + `">` + escaped + `</a>`
	case model.FieldTypeTel:
		return `<a href="tel:` + escaped + `">` + escaped + `</a>`
	case model.FieldTypeURL:
		return `<a href="` + escaped + `" target="_blank" rel="noopener">` + escaped + `</a>`
	default:
		return escaped
	}
}
