package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownKind is returned when a string does not name one of the six event kinds.
var ErrUnknownKind = errors.New("unknown event kind")

// Kind identifies a user action on the time clock.
type Kind string

const (
	KindClockIn     Kind = "CLOCK_IN"
	KindBreakStart  Kind = "BREAK_START"
	KindBreakEnd    Kind = "BREAK_END"
	KindClockOut    Kind = "CLOCK_OUT"
	KindRemoteStart Kind = "REMOTE_START"
	KindRemoteEnd   Kind = "REMOTE_END"
)

// Role is the part a kind plays when pairing events into worked intervals.
type Role int

const (
	// RoleStart opens a worked interval.
	RoleStart Role = iota + 1
	// RoleStop closes a worked interval.
	RoleStop
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleStop:
		return "stop"
	default:
		return "unknown"
	}
}

type kindInfo struct {
	role  Role
	label string
	slug  string
}

// kindOrder is the display order used by Kinds.
var kindOrder = []Kind{
	KindClockIn,
	KindBreakStart,
	KindBreakEnd,
	KindClockOut,
	KindRemoteStart,
	KindRemoteEnd,
}

var kinds = map[Kind]kindInfo{
	KindClockIn:     {role: RoleStart, label: "Clock in", slug: "clock-in"},
	KindBreakStart:  {role: RoleStop, label: "Break start", slug: "break-start"},
	KindBreakEnd:    {role: RoleStart, label: "Break end", slug: "break-end"},
	KindClockOut:    {role: RoleStop, label: "Clock out", slug: "clock-out"},
	KindRemoteStart: {role: RoleStart, label: "Remote work start", slug: "remote-start"},
	KindRemoteEnd:   {role: RoleStop, label: "Remote work end", slug: "remote-end"},
}

// Kinds returns all valid kinds in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// Valid reports whether k is one of the six recognised kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Role returns the pairing role of k, or 0 for an invalid kind.
func (k Kind) Role() Role {
	return kinds[k].role
}

// Label returns the canonical human-readable label for k.
func (k Kind) Label() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return string(k)
}

// Slug returns the kebab-case command-line name for k, e.g. "clock-in".
func (k Kind) Slug() string {
	return kinds[k].slug
}

// ParseKind accepts a canonical name ("CLOCK_IN") or a slug ("clock-in"),
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	k := Kind(norm)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Event is a single immutable time-clock registration.
type Event struct {
	ID        string
	Timestamp time.Time
	Kind      Kind
}

// NewEvent creates an event of the given kind at now with a fresh identifier.
// The timestamp is truncated to the second.
func NewEvent(kind Kind, now time.Time) (Event, error) {
	if !kind.Valid() {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	return Event{
		ID:        uuid.New().String(),
		Timestamp: now.Truncate(time.Second),
		Kind:      kind,
	}, nil
}

// Label is always derived from the event kind.
func (e Event) Label() string {
	return e.Kind.Label()
}

type eventJSON struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Label     string    `json:"label"`
}

// MarshalJSON writes the derived label alongside the stored fields so that
// data files stay readable.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		Kind:      e.Kind,
		Label:     e.Label(),
	})
}

// UnmarshalJSON ignores any stored label and rejects unknown kinds.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Kind.Valid() {
		return fmt.Errorf("event %s: %w: %q", raw.ID, ErrUnknownKind, string(raw.Kind))
	}
	e.ID = raw.ID
	e.Timestamp = raw.Timestamp
	e.Kind = raw.Kind
	return nil
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}
