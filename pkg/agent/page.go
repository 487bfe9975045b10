package agent

// Page is the agent's view of the client-rendered checkout document. The
// host bridge (headless browser driver, WASM shim, test fake) implements it;
// the agent never touches the DOM directly.
type Page interface {
	// Has reports whether any element matches the selector.
	Has(selector string) bool

	// InsertAfter places markup immediately after the first element matching
	// the selector, reporting whether an anchor was found.
	InsertAfter(selector, markup string) bool

	// AppendTo places markup at the end of the first element matching the
	// selector, reporting whether the element was found.
	AppendTo(selector, markup string) bool

	// InputValue returns the live value of the input with the given id, or
	// the empty string when the input is absent.
	InputValue(id string) string
}

// State tracks the agent through the page lifetime.
type State int

const (
	StateUninitialized State = iota
	StateDetecting
	StateInjected
	StateIntercepting
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDetecting:
		return "detecting"
	case StateInjected:
		return "injected"
	case StateIntercepting:
		return "intercepting"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
