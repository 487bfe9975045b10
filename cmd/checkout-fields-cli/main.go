// Command checkout-fields-cli manages the checkout field schema against a
// running server. "add" walks through an interactive prompt; "list" and
// "delete" are plain one-shot calls.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-checkoutfields/internal/gateway"
	"github.com/goliatone/go-checkoutfields/pkg/fieldtype"
	"github.com/goliatone/go-checkoutfields/pkg/model"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "checkout-fields-server base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("usage: checkout-fields-cli [-server URL] list | add | delete <field-id>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := &apiClient{base: strings.TrimRight(*server, "/")}

	var err error
	switch args[0] {
	case "list":
		err = runList(ctx, client)
	case "add":
		err = runAdd(ctx, client)
	case "delete":
		if len(args) < 2 {
			log.Fatal("usage: checkout-fields-cli delete <field-id>")
		}
		err = runDelete(ctx, client, args[1])
	default:
		log.Fatalf("unknown command %q", args[0])
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runList(ctx context.Context, client *apiClient) error {
	fields, err := client.fields(ctx)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		fmt.Println("no fields configured")
		return nil
	}
	for _, field := range fields {
		state := "enabled"
		if !field.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-24s %-10s %-10s %s\n", field.ID, field.Type, state, field.Label)
	}
	return nil
}

func runAdd(ctx context.Context, client *apiClient) error {
	fields, err := client.fields(ctx)
	if err != nil {
		return err
	}

	field, err := promptField()
	if err != nil {
		return err
	}

	fields = append(fields, field)
	if err := client.saveFields(ctx, fields); err != nil {
		return err
	}
	fmt.Printf("field %q saved\n", field.ID)
	return nil
}

func runDelete(ctx context.Context, client *apiClient, fieldID string) error {
	if err := client.deleteField(ctx, fieldID); err != nil {
		return err
	}
	fmt.Printf("field %q deleted\n", fieldID)
	return nil
}

func promptField() (model.FieldDefinition, error) {
	var field model.FieldDefinition

	if err := survey.AskOne(&survey.Input{Message: "Field label:"}, &field.Label, survey.WithValidator(survey.Required)); err != nil {
		return field, err
	}
	if err := survey.AskOne(&survey.Input{
		Message: "Field ID:",
		Default: suggestID(field.Label),
	}, &field.ID, survey.WithValidator(survey.Required)); err != nil {
		return field, err
	}

	typeLabels := fieldtype.Labels()
	typeNames := make([]string, 0, len(typeLabels))
	for _, tl := range typeLabels {
		typeNames = append(typeNames, string(tl.Type))
	}
	var chosen string
	if err := survey.AskOne(&survey.Select{
		Message: "Field type:",
		Options: typeNames,
		Default: string(model.FieldTypeText),
		Description: func(_ string, index int) string {
			return typeLabels[index].Label
		},
	}, &chosen); err != nil {
		return field, err
	}
	field.Type = model.FieldType(chosen)

	if field.Type == model.FieldTypeSelect {
		var raw string
		if err := survey.AskOne(&survey.Multiline{
			Message: "Options (one per line):",
		}, &raw, survey.WithValidator(survey.Required)); err != nil {
			return field, err
		}
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				field.Options = append(field.Options, line)
			}
		}
	}

	if err := survey.AskOne(&survey.Input{Message: "Placeholder (optional):"}, &field.Placeholder); err != nil {
		return field, err
	}

	positions := make([]string, 0, len(model.Positions()))
	for _, p := range model.Positions() {
		positions = append(positions, string(p))
	}
	var position string
	if err := survey.AskOne(&survey.Select{
		Message: "Position:",
		Options: positions,
		Default: string(model.DefaultPosition),
	}, &position); err != nil {
		return field, err
	}
	field.Position = model.Position(position)

	if err := survey.AskOne(&survey.Confirm{Message: "Required?"}, &field.Required); err != nil {
		return field, err
	}
	if err := survey.AskOne(&survey.Confirm{Message: "Enabled?", Default: true}, &field.Enabled); err != nil {
		return field, err
	}
	return field, nil
}

func suggestID(label string) string {
	id := strings.ToLower(strings.TrimSpace(label))
	return strings.ReplaceAll(id, " ", "_")
}

type apiClient struct {
	base string
}

type fieldsResponse struct {
	Success bool                    `json:"success"`
	Fields  []model.FieldDefinition `json:"fields"`
	Error   string                  `json:"error"`
}

func (c *apiClient) fields(ctx context.Context) ([]model.FieldDefinition, error) {
	var out fieldsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/fields", nil, &out); err != nil {
		return nil, err
	}
	return out.Fields, nil
}

func (c *apiClient) saveFields(ctx context.Context, fields []model.FieldDefinition) error {
	body := map[string]any{"fields": fields}
	return c.do(ctx, http.MethodPost, "/api/v1/fields", body, nil)
}

func (c *apiClient) deleteField(ctx context.Context, fieldID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/fields/"+fieldID, nil, nil)
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Add("X-Checkout-Capability", string(gateway.CapabilityManageFields))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var envelope struct {
			Error      string   `json:"error"`
			Violations []string `json:"violations"`
		}
		if json.Unmarshal(payload, &envelope) == nil && envelope.Error != "" {
			if len(envelope.Violations) > 0 {
				return fmt.Errorf("%s: %s", envelope.Error, strings.Join(envelope.Violations, "; "))
			}
			return fmt.Errorf("%s", envelope.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out != nil {
		return json.Unmarshal(payload, out)
	}
	return nil
}
