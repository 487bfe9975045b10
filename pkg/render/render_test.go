package render

import (
	"strings"
	"testing"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

func TestClassicRendersContainerAndFields(t *testing.T) {
	fields := []model.FieldDefinition{
		{
			ID:       "dietary",
			Label:    "Dietary Requirements",
			Type:     model.FieldTypeText,
			Required: true,
			Position: model.PositionAfterBilling,
		},
		{
			ID:       "gift_note",
			Label:    "Gift Note",
			Type:     model.FieldTypeTextarea,
			Position: model.PositionBeforePayment,
		},
	}

	markup := Classic(fields, map[string]string{"dietary": "vegan"})

	if !strings.Contains(markup, `<div class="`+ContainerClass+`">`) {
		t.Fatalf("missing container in %q", markup)
	}
	if !strings.Contains(markup, `data-field-id="dietary"`) {
		t.Errorf("missing dietary wrapper in %q", markup)
	}
	if !strings.Contains(markup, `data-field-position="before_payment"`) {
		t.Errorf("missing position attribute in %q", markup)
	}
	if !strings.Contains(markup, `Dietary Requirements *</label>`) {
		t.Errorf("missing required marker in %q", markup)
	}
	if !strings.Contains(markup, `value="vegan"`) {
		t.Errorf("submission state not pre-filled in %q", markup)
	}
}

func TestClassicEmptyFieldSet(t *testing.T) {
	if got := Classic(nil, nil); got != "" {
		t.Fatalf("expected empty markup, got %q", got)
	}
}

func TestFieldMarkupEscapesLabel(t *testing.T) {
	markup := FieldMarkup(model.FieldDefinition{
		ID:    "note",
		Label: `<img src=x>`,
		Type:  model.FieldTypeText,
	}, "")

	if strings.Contains(markup, "<img") {
		t.Fatalf("unescaped label in %q", markup)
	}
	if !strings.Contains(markup, "&lt;img src=x&gt;") {
		t.Fatalf("label not rendered escaped in %q", markup)
	}
}
