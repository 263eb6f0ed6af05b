// Package ticket turns a loosely structured webhook payload into a
// NormalizedTicket. Payload shapes vary between ticketing triggers, so the
// id and body are located by walking an ordered list of extraction rules.
package ticket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidPayload is returned when the body is not a JSON object.
var ErrInvalidPayload = errors.New("invalid JSON payload")

// Event is the raw inbound payload as a generic key/value tree. Numbers are
// kept as json.Number so identifiers are never rounded through float64.
type Event map[string]any

// DecodeEvent reads a single JSON object from r.
func DecodeEvent(r io.Reader) (Event, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", ErrInvalidPayload, raw)
	}
	return Event(obj), nil
}

// Path addresses a node by successive object keys.
type Path []string

func (p Path) String() string { return strings.Join(p, ".") }

// Lookup walks p and returns the value found there. Non-object intermediate
// nodes end the walk with ok=false.
func (e Event) Lookup(p Path) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	var node any = map[string]any(e)
	for _, key := range p {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Keys returns the sorted top-level keys, used when diagnosing payloads
// without logging their values.
func (e Event) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TicketID is a ticket identifier that remembers whether it arrived as a JSON
// number or string, so acknowledgments echo it back in the same form.
type TicketID struct {
	value   string
	numeric bool
}

func StringID(s string) TicketID { return TicketID{value: s} }

func NumericID(n int64) TicketID { return TicketID{value: strconv.FormatInt(n, 10), numeric: true} }

func (id TicketID) String() string { return id.value }

func (id TicketID) IsZero() bool { return id.value == "" }

func (id TicketID) IsNumeric() bool { return id.numeric }

func (id TicketID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// idFromValue accepts non-blank strings and any JSON number. Numbers are
// kept verbatim and never parsed.
func idFromValue(v any) (TicketID, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return TicketID{}, false
		}
		return TicketID{value: s}, true
	case json.Number:
		if val.String() == "" {
			return TicketID{}, false
		}
		return TicketID{value: val.String(), numeric: true}, true
	case float64:
		return TicketID{value: strconv.FormatFloat(val, 'f', -1, 64), numeric: true}, true
	case int:
		return TicketID{value: strconv.Itoa(val), numeric: true}, true
	case int64:
		return TicketID{value: strconv.FormatInt(val, 10), numeric: true}, true
	default:
		return TicketID{}, false
	}
}

func textFromValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
