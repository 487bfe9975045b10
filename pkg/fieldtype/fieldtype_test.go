package fieldtype

import (
	"strings"
	"testing"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

func TestEmailValidation(t *testing.T) {
	d, ok := Lookup(model.FieldTypeEmail)
	if !ok {
		t.Fatal("email descriptor not registered")
	}

	if err := d.Validate("Contact Email", "shopper@example.com"); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}

	err := d.Validate("Contact Email", "not-an-email")
	if err == nil {
		t.Fatal("expected malformed address to be rejected")
	}
	if got, want := err.Error(), "Contact Email must be a valid email address"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

func TestNumberValidation(t *testing.T) {
	d, ok := Lookup(model.FieldTypeNumber)
	if !ok {
		t.Fatal("number descriptor not registered")
	}

	if err := d.Validate("Party Size", " 12.5 "); err != nil {
		t.Fatalf("numeric value rejected: %v", err)
	}
	if err := d.Validate("Party Size", "12.5abc"); err == nil {
		t.Fatal("expected trailing garbage to be rejected")
	}
}

func TestNumberSanitizeNormalises(t *testing.T) {
	d := For(model.FieldTypeNumber)

	cases := map[string]string{
		" 12.5 ":  "12.5",
		"42":      "42",
		"042.50":  "42.5",
		"invalid": "",
	}
	for in, want := range cases {
		if got := d.Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestURLValidation(t *testing.T) {
	d := For(model.FieldTypeURL)

	if err := d.Validate("Website", "https://example.com/path"); err != nil {
		t.Fatalf("valid URL rejected: %v", err)
	}
	if err := d.Validate("Website", "example.com"); err == nil {
		t.Fatal("expected schemeless URL to be rejected")
	}
}

func TestTextareaSanitizePreservesLines(t *testing.T) {
	d := For(model.FieldTypeTextarea)

	got := d.Sanitize("line one <b>bold</b>\r\nline two\nline three")
	want := "line one bold\nline two\nline three"
	if got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
}

func TestSanitizeTextCollapsesToOneLine(t *testing.T) {
	got := SanitizeText("  <b>hello</b> \n  world  ")
	if got != "hello world" {
		t.Fatalf("SanitizeText = %q, want %q", got, "hello world")
	}
}

func TestSanitizeID(t *testing.T) {
	cases := map[string]string{
		"Dietary Requirements": "dietary_requirements",
		"  Gift-Note ":         "gift-note",
		"weird!@#chars":        "weirdchars",
		"UPPER_case":           "upper_case",
	}
	for in, want := range cases {
		if got := SanitizeID(in); got != want {
			t.Errorf("SanitizeID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectControlMarkup(t *testing.T) {
	def := model.FieldDefinition{
		ID:      "dietary",
		Type:    model.FieldTypeSelect,
		Options: []string{"Vegan", "Vegetarian"},
	}

	markup := For(model.FieldTypeSelect).Control(def, "Vegetarian")

	if !strings.Contains(markup, `<option value="">Select...</option>`) {
		t.Errorf("missing placeholder option in %q", markup)
	}
	if !strings.Contains(markup, `<option value="Vegetarian" selected>Vegetarian</option>`) {
		t.Errorf("submitted option not selected in %q", markup)
	}
	if !strings.Contains(markup, `<option value="Vegan">Vegan</option>`) {
		t.Errorf("unselected option malformed in %q", markup)
	}
}

func TestInputControlEscapesValues(t *testing.T) {
	def := model.FieldDefinition{
		ID:          "gift_note",
		Type:        model.FieldTypeText,
		Placeholder: `Say "hi"`,
		Required:    true,
	}

	markup := For(model.FieldTypeText).Control(def, `<script>`)

	if strings.Contains(markup, "<script>") {
		t.Fatalf("unescaped value in %q", markup)
	}
	if !strings.Contains(markup, `placeholder="Say &#34;hi&#34;"`) {
		t.Errorf("placeholder not escaped in %q", markup)
	}
	if !strings.Contains(markup, " required") {
		t.Errorf("required attribute missing in %q", markup)
	}
}

func TestLabelsFollowRegistrationOrder(t *testing.T) {
	labels := Labels()

	want := model.FieldTypes()
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i, tl := range labels {
		if tl.Type != want[i] {
			t.Errorf("labels[%d].Type = %q, want %q", i, tl.Type, want[i])
		}
		if tl.Label == "" {
			t.Errorf("labels[%d] has an empty display label", i)
		}
	}
	if labels[0].Label != "Text Input" {
		t.Fatalf("labels[0].Label = %q, want %q", labels[0].Label, "Text Input")
	}
}

func TestForFallsBackToText(t *testing.T) {
	d := For(model.FieldType("bogus"))
	if d.Type != model.FieldTypeText {
		t.Fatalf("fallback type = %q, want text", d.Type)
	}
}
