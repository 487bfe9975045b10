package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-checkoutfields/pkg/model"
	"github.com/goliatone/go-checkoutfields/pkg/render"
)

// fakePage is a scripted DOM bridge.
type fakePage struct {
	present      map[string]bool
	anchorOK     bool
	appendOK     bool
	inserted     []string
	appended     []string
	values       map[string]string
	panicOnQuery bool
}

func (p *fakePage) Has(selector string) bool {
	if p.panicOnQuery {
		panic("detached document")
	}
	return p.present[selector]
}

func (p *fakePage) InsertAfter(selector, markup string) bool {
	if !p.anchorOK {
		return false
	}
	p.inserted = append(p.inserted, markup)
	return true
}

func (p *fakePage) AppendTo(selector, markup string) bool {
	if !p.appendOK {
		return false
	}
	p.appended = append(p.appended, markup)
	return true
}

func (p *fakePage) InputValue(id string) string {
	return p.values[id]
}

// manualScheduler records scheduled callbacks so tests fire them explicitly.
type manualScheduler struct {
	delays  []time.Duration
	pending []func()
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, fn)
}

// fire runs the next pending callback.
func (s *manualScheduler) fire(t *testing.T) {
	t.Helper()
	if len(s.pending) == 0 {
		t.Fatal("no pending retry to fire")
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	next()
}

func testPayload() render.ClientPayload {
	return render.NewClientPayload([]model.FieldDefinition{
		{ID: "dietary", Label: "Dietary", Type: model.FieldTypeText, Enabled: true},
	})
}

func TestStartInjectsOnFirstAttempt(t *testing.T) {
	page := &fakePage{
		present:  map[string]bool{".checkout-form": true},
		anchorOK: true,
	}
	sched := &manualScheduler{}
	a := New(page, testPayload(), WithScheduler(sched.schedule))

	a.Start()

	if got := a.State(); got != StateIntercepting {
		t.Fatalf("state = %v, want intercepting", got)
	}
	if len(page.inserted) != 1 {
		t.Fatalf("inserted %d markups, want 1", len(page.inserted))
	}
	if !strings.Contains(page.inserted[0], `data-field-id="dietary"`) {
		t.Fatalf("injected markup missing field: %q", page.inserted[0])
	}
	if len(sched.pending) != 0 {
		t.Fatalf("no retries should be pending after success")
	}
}

func TestStartFallsBackToAppendWhenAnchorMissing(t *testing.T) {
	page := &fakePage{
		present:  map[string]bool{".checkout-form": true},
		anchorOK: false,
		appendOK: true,
	}
	a := New(page, testPayload(), WithScheduler((&manualScheduler{}).schedule))

	a.Start()

	if got := a.State(); got != StateIntercepting {
		t.Fatalf("state = %v, want intercepting", got)
	}
	if len(page.appended) != 1 {
		t.Fatalf("appended %d markups, want 1", len(page.appended))
	}
}

func TestRetriesFollowScheduleThenAbort(t *testing.T) {
	page := &fakePage{present: map[string]bool{}}
	sched := &manualScheduler{}
	a := New(page, testPayload(), WithScheduler(sched.schedule))

	a.Start()
	if got := a.State(); got != StateDetecting {
		t.Fatalf("state after failed attempt = %v, want detecting", got)
	}

	sched.fire(t)
	sched.fire(t)
	sched.fire(t)

	if got := a.State(); got != StateAborted {
		t.Fatalf("state = %v, want aborted", got)
	}
	want := []time.Duration{
		500 * time.Millisecond,
		1500 * time.Millisecond,
		3000 * time.Millisecond,
	}
	if len(sched.delays) != len(want) {
		t.Fatalf("scheduled %d retries, want %d", len(sched.delays), len(want))
	}
	for i, d := range want {
		if sched.delays[i] != d {
			t.Errorf("retry %d delay = %v, want %v", i, sched.delays[i], d)
		}
	}
}

func TestRetrySucceedsWhenFormAppearsLate(t *testing.T) {
	page := &fakePage{present: map[string]bool{}, anchorOK: true}
	sched := &manualScheduler{}
	a := New(page, testPayload(), WithScheduler(sched.schedule))

	a.Start()

	page.present[".checkout-form"] = true
	sched.fire(t)

	if got := a.State(); got != StateIntercepting {
		t.Fatalf("state = %v, want intercepting", got)
	}
}

func TestExistingContainerSkipsInjection(t *testing.T) {
	page := &fakePage{present: map[string]bool{
		".checkout-form":          true,
		".checkout-extra-fields":  true,
		".checkout-billing-field": false,
	}}
	a := New(page, testPayload(), WithScheduler((&manualScheduler{}).schedule))

	a.Start()

	if got := a.State(); got != StateIntercepting {
		t.Fatalf("state = %v, want intercepting", got)
	}
	if len(page.inserted)+len(page.appended) != 0 {
		t.Fatal("markup injected despite existing container")
	}
}

func TestPageBridgePanicCountsAsFailedAttempt(t *testing.T) {
	page := &fakePage{panicOnQuery: true}
	sched := &manualScheduler{}
	a := New(page, testPayload(), WithScheduler(sched.schedule))

	a.Start()

	if got := a.State(); got != StateDetecting {
		t.Fatalf("state = %v, want detecting after recovered panic", got)
	}
	if len(sched.pending) != 1 {
		t.Fatalf("expected one scheduled retry, got %d", len(sched.pending))
	}
}

func TestStartIsIdempotent(t *testing.T) {
	page := &fakePage{
		present:  map[string]bool{".checkout-form": true},
		anchorOK: true,
	}
	a := New(page, testPayload(), WithScheduler((&manualScheduler{}).schedule))

	a.Start()
	a.Start()

	if len(page.inserted) != 1 {
		t.Fatalf("second Start injected again: %d markups", len(page.inserted))
	}
}
