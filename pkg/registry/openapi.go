package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-checkoutfields/pkg/model"
)

// ImportFromOpenAPI maps a named object schema from an OpenAPI document onto
// field definitions and saves them through the regular replace-all path, so
// every schema rule still applies. Property order inside an OpenAPI object is
// undefined; imported fields are ordered by property name to keep repeat
// imports stable.
//
// Type mapping: string→text (format email/uri/tel narrowing the type, an
// x-multiline extension selecting textarea), enum→select with the enum values
// as options, number/integer→number. Properties listed in the schema's
// required set import as required; everything imports enabled.
func (s *Service) ImportFromOpenAPI(ctx context.Context, document []byte, schemaName string) ([]model.FieldDefinition, error) {
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("registry: load openapi document: %w", err)
	}

	if spec.Components == nil || spec.Components.Schemas == nil {
		return nil, fmt.Errorf("registry: openapi document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return nil, fmt.Errorf("registry: schema %q not found in openapi document", schemaName)
	}
	schema := ref.Value
	if !typeIs(schema.Type, "object") || len(schema.Properties) == 0 {
		return nil, fmt.Errorf("registry: schema %q is not an object with properties", schemaName)
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.FieldDefinition, 0, len(names))
	for _, name := range names {
		property := schema.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		def := definitionFromProperty(name, property.Value)
		if _, isRequired := required[name]; isRequired {
			def.Required = true
		}
		fields = append(fields, def)
	}

	return s.Save(ctx, fields)
}

func definitionFromProperty(name string, property *openapi3.Schema) model.FieldDefinition {
	def := model.FieldDefinition{
		ID:       name,
		Label:    labelFromName(name),
		Type:     model.FieldTypeText,
		Enabled:  true,
		Position: model.DefaultPosition,
	}
	if property.Title != "" {
		def.Label = property.Title
	}
	if property.Description != "" {
		def.Placeholder = property.Description
	}

	if len(property.Enum) > 0 {
		def.Type = model.FieldTypeSelect
		for _, value := range property.Enum {
			def.Options = append(def.Options, fmt.Sprint(value))
		}
		return def
	}

	switch {
	case typeIs(property.Type, "number"), typeIs(property.Type, "integer"):
		def.Type = model.FieldTypeNumber
	case typeIs(property.Type, "string"):
		switch strings.ToLower(property.Format) {
		case "email":
			def.Type = model.FieldTypeEmail
		case "uri", "url":
			def.Type = model.FieldTypeURL
		case "tel", "phone":
			def.Type = model.FieldTypeTel
		}
		if def.Type == model.FieldTypeText && multilineExtension(property) {
			def.Type = model.FieldTypeTextarea
		}
	}
	return def
}

func multilineExtension(property *openapi3.Schema) bool {
	raw, ok := property.Extensions["x-multiline"]
	if !ok {
		return false
	}
	flag, ok := raw.(bool)
	return ok && flag
}

func typeIs(types *openapi3.Types, want string) bool {
	return types != nil && types.Is(want)
}

func labelFromName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
