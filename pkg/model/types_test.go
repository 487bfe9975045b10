package model

import "testing"

func TestStorageKeyRoundTrip(t *testing.T) {
	key := StorageKey("dietary_requirements")
	if key != "_dietary_requirements" {
		t.Fatalf("key = %q", key)
	}
	if got := FieldIDFromKey(key); got != "dietary_requirements" {
		t.Fatalf("field id = %q", got)
	}
	if got := HumanizeKey(key); got != "dietary requirements" {
		t.Fatalf("humanized = %q", got)
	}
}

func TestLegacyFieldDefaults(t *testing.T) {
	field := LegacyField("  ")
	if field.ID != LegacyFieldID {
		t.Fatalf("id = %q", field.ID)
	}
	if field.Label != DefaultLegacyLabel {
		t.Fatalf("label = %q", field.Label)
	}
	if field.Placeholder != "Enter Extra Information" {
		t.Fatalf("placeholder = %q", field.Placeholder)
	}

	field = LegacyField("Delivery notes")
	if field.Placeholder != "Enter Delivery notes" {
		t.Fatalf("placeholder = %q", field.Placeholder)
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := FieldDefinition{
		ID: "dietary", Type: FieldTypeSelect, Options: []string{"Vegan"},
	}
	clone := original.Clone()
	clone.Options[0] = "changed"
	if original.Options[0] != "Vegan" {
		t.Fatal("clone shares options slice")
	}
}
