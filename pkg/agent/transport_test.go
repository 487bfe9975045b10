package agent

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// captureTransport records the dispatched request body.
type captureTransport struct {
	req  *http.Request
	body []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.req = req
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		c.body = body
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func interceptingAgent(t *testing.T, page *fakePage) *Agent {
	t.Helper()
	page.present[".checkout-form"] = true
	page.anchorOK = true
	a := New(page, testPayload(), WithScheduler((&manualScheduler{}).schedule))
	a.Start()
	if got := a.State(); got != StateIntercepting {
		t.Fatalf("setup state = %v, want intercepting", got)
	}
	return a
}

func postJSON(t *testing.T, rt http.RoundTripper, url, body string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("round trip: %v", err)
	}
}

func TestInterceptMergesFieldValues(t *testing.T) {
	page := &fakePage{
		present: map[string]bool{},
		values:  map[string]string{"dietary": "vegan"},
	}
	a := interceptingAgent(t, page)
	base := &captureTransport{}
	rt := a.WrapTransport(base)

	postJSON(t, rt, "https://shop.example/api/checkout", `{"billing_name":"Sam"}`)

	var got map[string]any
	if err := json.Unmarshal(base.body, &got); err != nil {
		t.Fatalf("dispatched body is not JSON: %v", err)
	}
	want := map[string]any{"billing_name": "Sam", "dietary": "vegan"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged body mismatch (-want +got):\n%s", diff)
	}
	if base.req.ContentLength != int64(len(base.body)) {
		t.Fatalf("content length %d does not match body %d", base.req.ContentLength, len(base.body))
	}
}

func TestInterceptSkipsEmptyValues(t *testing.T) {
	page := &fakePage{
		present: map[string]bool{},
		values:  map[string]string{},
	}
	a := interceptingAgent(t, page)
	base := &captureTransport{}
	rt := a.WrapTransport(base)

	postJSON(t, rt, "https://shop.example/api/checkout", `{"billing_name":"Sam"}`)

	var got map[string]any
	if err := json.Unmarshal(base.body, &got); err != nil {
		t.Fatalf("dispatched body is not JSON: %v", err)
	}
	if _, ok := got["dietary"]; ok {
		t.Fatal("empty input value should not be merged")
	}
}

func TestInterceptIgnoresUnrelatedRequests(t *testing.T) {
	page := &fakePage{
		present: map[string]bool{},
		values:  map[string]string{"dietary": "vegan"},
	}
	a := interceptingAgent(t, page)
	base := &captureTransport{}
	rt := a.WrapTransport(base)

	postJSON(t, rt, "https://shop.example/api/cart", `{"qty":1}`)

	if string(base.body) != `{"qty":1}` {
		t.Fatalf("unrelated request body modified: %q", base.body)
	}
}

func TestInterceptPassesBadBodiesThrough(t *testing.T) {
	page := &fakePage{
		present: map[string]bool{},
		values:  map[string]string{"dietary": "vegan"},
	}
	a := interceptingAgent(t, page)
	base := &captureTransport{}
	rt := a.WrapTransport(base)

	postJSON(t, rt, "https://shop.example/api/checkout", `not json at all`)

	if string(base.body) != "not json at all" {
		t.Fatalf("unparseable body modified: %q", base.body)
	}
}

func TestInterceptInactiveBeforeInjection(t *testing.T) {
	page := &fakePage{present: map[string]bool{}, values: map[string]string{"dietary": "vegan"}}
	a := New(page, testPayload(), WithScheduler((&manualScheduler{}).schedule))
	base := &captureTransport{}
	rt := a.WrapTransport(base)

	postJSON(t, rt, "https://shop.example/api/checkout", `{"billing_name":"Sam"}`)

	if string(base.body) != `{"billing_name":"Sam"}` {
		t.Fatalf("merge ran before injection: %q", base.body)
	}
}

func TestWrapTransportInstallsOnce(t *testing.T) {
	page := &fakePage{present: map[string]bool{}}
	a := New(page, testPayload(), WithScheduler((&manualScheduler{}).schedule))
	base := &captureTransport{}

	first := a.WrapTransport(base)
	second := a.WrapTransport(base)

	if _, ok := first.(*interceptTransport); !ok {
		t.Fatalf("first wrap returned %T, want interceptTransport", first)
	}
	if second != http.RoundTripper(base) {
		t.Fatalf("second wrap returned %T, want the base transport", second)
	}
}
