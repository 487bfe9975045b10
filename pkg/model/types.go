package model

import "strings"

// FieldType is the enum of input kinds an administrator can configure.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeURL      FieldType = "url"
)

// FieldTypes lists every valid type in display order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeEmail,
		FieldTypeTel,
		FieldTypeNumber,
		FieldTypeURL,
	}
}

// Valid reports whether the type is a member of the enum.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect,
		FieldTypeEmail, FieldTypeTel, FieldTypeNumber, FieldTypeURL:
		return true
	}
	return false
}

// Position controls where a field is anchored on the checkout surfaces.
type Position string

const (
	PositionAfterBilling  Position = "after_billing"
	PositionAfterShipping Position = "after_shipping"
	PositionBeforePayment Position = "before_payment"
)

// DefaultPosition is applied when a definition omits its position.
const DefaultPosition = PositionAfterBilling

// Positions lists every valid position in display order.
func Positions() []Position {
	return []Position{PositionAfterBilling, PositionAfterShipping, PositionBeforePayment}
}

// Valid reports whether the position is a member of the enum.
func (p Position) Valid() bool {
	switch p {
	case PositionAfterBilling, PositionAfterShipping, PositionBeforePayment:
		return true
	}
	return false
}

// FieldDefinition is the admin-configured schema for one checkout input. The
// ID doubles as the submission key and, underscore-prefixed, as the storage
// key for persisted values; it must stay stable once any order references it.
type FieldDefinition struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Enabled     bool      `json:"enabled"`
	Placeholder string    `json:"placeholder,omitempty"`
	Position    Position  `json:"position,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// Clone returns a deep copy so stored definitions never alias caller slices.
func (d FieldDefinition) Clone() FieldDefinition {
	out := d
	if len(d.Options) > 0 {
		out.Options = append([]string(nil), d.Options...)
	}
	return out
}

// LegacyFieldID is the fixed identifier of the deprecated single-field mode.
const LegacyFieldID = "extra_field"

// DefaultLegacyLabel is used when the deprecated label setting was never set.
const DefaultLegacyLabel = "Extra Information"

// LegacyField derives the implicit singleton definition from the deprecated
// scalar label setting. It only ever surfaces when no configured definition
// is enabled.
func LegacyField(label string) FieldDefinition {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultLegacyLabel
	}
	return FieldDefinition{
		ID:          LegacyFieldID,
		Label:       label,
		Type:        FieldTypeText,
		Required:    false,
		Enabled:     true,
		Placeholder: "Enter " + label,
		Position:    DefaultPosition,
	}
}

// StorageKey is the key a field's submitted value is persisted under.
func StorageKey(fieldID string) string {
	return "_" + fieldID
}

// FieldIDFromKey reverses StorageKey.
func FieldIDFromKey(key string) string {
	return strings.TrimPrefix(key, "_")
}

// HumanizeKey turns a storage key into a display name for audit notes.
func HumanizeKey(key string) string {
	return strings.ReplaceAll(FieldIDFromKey(key), "_", " ")
}

// ValueRecord is one submitted value persisted against an order. Label and
// Type are captured at submission time so later schema edits never corrupt
// what historical orders display; Definition snapshots the full config for
// reference.
type ValueRecord struct {
	FieldID    string           `json:"id"`
	Key        string           `json:"key"`
	Value      string           `json:"value"`
	Label      string           `json:"label"`
	Type       FieldType        `json:"type"`
	Definition *FieldDefinition `json:"config,omitempty"`
}
