package agent

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// WrapTransport installs the request interceptor around base. The install is
// guarded by a one-shot flag: the first call wires the wrapper, later calls
// return base untouched so the merge can never run twice on one submission.
// A nil base wraps http.DefaultTransport.
func (a *Agent) WrapTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.wrapperInstalled {
		a.logger.Warn("checkout fields: transport wrapper already installed")
		return base
	}
	a.wrapperInstalled = true
	return &interceptTransport{agent: a, base: base}
}

type interceptTransport struct {
	agent *Agent
	base  http.RoundTripper
}

// RoundTrip merges the injected inputs' live values into the outgoing
// checkout submission, touching only the configured field keys. Any parse or
// read problem logs and dispatches the request unmodified; interception must
// never block a submission.
func (t *interceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.agent.State() != StateIntercepting || !t.matches(req) {
		return t.base.RoundTrip(req)
	}

	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		t.agent.logger.Warn("checkout fields: read submission body", "error", err)
		return nil, err
	}

	merged, ok := t.merge(body)
	if !ok {
		merged = body
	}
	replaceBody(req, merged)
	return t.base.RoundTrip(req)
}

func (t *interceptTransport) matches(req *http.Request) bool {
	if req.Method != http.MethodPost || req.Body == nil {
		return false
	}
	needle := t.agent.payload.Contract.SubmitPathSubstring
	return needle != "" && strings.Contains(req.URL.String(), needle)
}

func (t *interceptTransport) merge(body []byte) ([]byte, bool) {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		t.agent.logger.Warn("checkout fields: submission body is not an object",
			"error", err)
		return nil, false
	}

	changed := false
	for _, field := range t.agent.payload.Fields {
		value := t.readValue(field.ID)
		if value == "" {
			continue
		}
		data[field.ID] = value
		changed = true
	}
	if !changed {
		return nil, false
	}

	merged, err := json.Marshal(data)
	if err != nil {
		t.agent.logger.Warn("checkout fields: re-encode submission", "error", err)
		return nil, false
	}
	return merged, true
}

// readValue pulls the live input value, recovering from page bridge panics.
func (t *interceptTransport) readValue(id string) (value string) {
	defer func() {
		if r := recover(); r != nil {
			t.agent.logger.Warn("checkout fields: read input value",
				"field", id, "error", r)
			value = ""
		}
	}()
	return t.agent.page.InputValue(id)
}

func replaceBody(req *http.Request, body []byte) {
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}
