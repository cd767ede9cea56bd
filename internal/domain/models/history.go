package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EntryKind names a ledger transaction.
type EntryKind string

const (
	EntryBorrow  EntryKind = "BORROW"
	EntryReturn  EntryKind = "RETURN"
	EntryDamaged EntryKind = "DAMAGED"
)

var entryVerbs = map[EntryKind]string{
	EntryBorrow:  "BORROWED",
	EntryReturn:  "RETURNED",
	EntryDamaged: "DAMAGED",
}

// HistoryEntry is one line of a record's transaction log.
type HistoryEntry struct {
	Kind     EntryKind `json:"kind" mapstructure:"kind"`
	Quantity int       `json:"quantity" mapstructure:"quantity"`
	User     string    `json:"user" mapstructure:"user"`
	Date     string    `json:"date" mapstructure:"date"`
}

// String renders the entry the way it is shown to operators,
// e.g. "BORROWED 2 by alice on 2024-03-01".
func (h HistoryEntry) String() string {
	verb, ok := entryVerbs[h.Kind]
	if !ok {
		verb = string(h.Kind)
	}
	return fmt.Sprintf("%s %d by %s on %s", verb, h.Quantity, h.User, h.Date)
}

func (h HistoryEntry) validate() error {
	if _, ok := entryVerbs[h.Kind]; !ok {
		return fmt.Errorf("%w: unknown history kind %q", ErrValidation, h.Kind)
	}
	if h.Quantity <= 0 || strings.TrimSpace(h.User) == "" || strings.TrimSpace(h.Date) == "" {
		return fmt.Errorf("%w: incomplete history entry %q", ErrValidation, h.String())
	}
	return nil
}

var historyLine = regexp.MustCompile(`^(BORROWED|RETURNED|DAMAGED) (\d+) by (.+) on (\S+)$`)

// ParseHistoryEntry reads the rendered form produced by String. Data files
// written by older LabTrack versions store history this way.
func ParseHistoryEntry(line string) (HistoryEntry, error) {
	m := historyLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return HistoryEntry{}, fmt.Errorf("%w: unrecognized history line %q", ErrValidation, line)
	}

	qty, err := strconv.Atoi(m[2])
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("%w: history quantity %q", ErrValidation, m[2])
	}

	var kind EntryKind
	for k, verb := range entryVerbs {
		if verb == m[1] {
			kind = k
		}
	}

	return HistoryEntry{Kind: kind, Quantity: qty, User: m[3], Date: m[4]}, nil
}
