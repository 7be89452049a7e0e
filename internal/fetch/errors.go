package fetch

import "fmt"

// Kind classifies why a fetch failed.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindStatus       Kind = "status"
	KindDecode       Kind = "decode"
	KindMissingField Kind = "missing-field"
)

// FetchError reports a failed verse fetch. It is never fatal to the process;
// the caller decides whether to fall back or give up.
type FetchError struct {
	Kind      Kind
	Reference string
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %q: unexpected status %d", e.Reference, e.Status)
	default:
		if e.Err == nil {
			return fmt.Sprintf("fetch %q: %s error", e.Reference, e.Kind)
		}
		return fmt.Sprintf("fetch %q: %s error: %v", e.Reference, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }
