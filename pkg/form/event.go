package form

import (
	"fmt"

	"github.com/dmitrymomot/formkit/pkg/rules"
)

// EventKind names the interaction that produced an event.
type EventKind string

const (
	EventBlur   EventKind = "blur"
	EventChange EventKind = "change"
	EventSubmit EventKind = "submit"
)

// ParseEventKind accepts "blur", "change" and "submit".
func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case EventBlur, EventChange, EventSubmit:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}

// Event is either a field input event (blur or change, with Name and Value)
// or a submit request (Name and Value ignored).
type Event struct {
	Kind  EventKind
	Name  string
	Value any
}

func Blur(name string, value any) Event {
	return Event{Kind: EventBlur, Name: name, Value: value}
}

func Change(name string, value any) Event {
	return Event{Kind: EventChange, Name: name, Value: value}
}

func Submit() Event {
	return Event{Kind: EventSubmit}
}

func (k EventKind) target() rules.Target {
	return rules.Target(k)
}

func (k EventKind) isInput() bool {
	return k == EventBlur || k == EventChange
}
