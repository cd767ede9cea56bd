package models

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ledger tracks who holds what and the ordered log of every transaction.
type ledger struct {
	borrowers map[string]int
	history   []HistoryEntry
}

func newLedger() ledger {
	return ledger{borrowers: make(map[string]int)}
}

// ValidateDate checks the YYYY-MM-DD shape and coarse ranges. Day 31 is
// accepted for every month; there is no calendar check.
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return fmt.Errorf("%w: date %q must use format YYYY-MM-DD", ErrValidation, date)
	}

	year, _ := strconv.Atoi(date[0:4])
	month, _ := strconv.Atoi(date[5:7])
	day, _ := strconv.Atoi(date[8:10])

	switch {
	case year < 1900 || year > 2100:
		return fmt.Errorf("%w: year %d out of range 1900-2100", ErrValidation, year)
	case month < 1 || month > 12:
		return fmt.Errorf("%w: month %d out of range 1-12", ErrValidation, month)
	case day < 1 || day > 31:
		return fmt.Errorf("%w: day %d out of range 1-31", ErrValidation, day)
	}
	return nil
}

func validateTransaction(user string, quantity int, date string) error {
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("%w: user cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(date) == "" {
		return fmt.Errorf("%w: date cannot be empty", ErrValidation)
	}
	if err := ValidateDate(date); err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	return nil
}

// Borrow lends quantity units to user.
func (e *Equipment) Borrow(user string, quantity int, date string) error {
	if err := validateTransaction(user, quantity, date); err != nil {
		return err
	}
	if quantity > e.available {
		return fmt.Errorf("%w: not enough available, only %d left", ErrValidation, e.available)
	}

	if err := e.ReduceAvailable(quantity); err != nil {
		return err
	}
	e.ledger.borrowers[user] += quantity
	e.ledger.append(EntryBorrow, quantity, user, date)
	return nil
}

// GiveBack returns quantity units from user's open balance to the available pool.
func (e *Equipment) GiveBack(user string, quantity int, date string) error {
	if err := e.checkSettlement(user, quantity, date); err != nil {
		return err
	}

	// available never exceeds total - lent, so the returned units always fit
	e.ledger.settle(user, quantity)
	e.available += quantity
	e.ledger.append(EntryReturn, quantity, user, date)
	return nil
}

// ReportDamaged moves quantity units from user's open balance into the
// damaged pool. Available is left untouched.
func (e *Equipment) ReportDamaged(user string, quantity int, date string) error {
	if err := e.checkSettlement(user, quantity, date); err != nil {
		return err
	}

	if err := e.AddDamaged(quantity); err != nil {
		return err
	}
	e.ledger.settle(user, quantity)
	e.ledger.append(EntryDamaged, quantity, user, date)
	return nil
}

func (e *Equipment) checkSettlement(user string, quantity int, date string) error {
	if err := validateTransaction(user, quantity, date); err != nil {
		return err
	}
	held, ok := e.ledger.borrowers[user]
	if !ok {
		return fmt.Errorf("%w: %s has no borrowed %s", ErrValidation, user, e.name)
	}
	if quantity > held {
		return fmt.Errorf("%w: %s holds only %d of %s", ErrValidation, user, held, e.name)
	}
	return nil
}

// BorrowedBy returns the open balance of user, zero when none.
func (e *Equipment) BorrowedBy(user string) int {
	return e.ledger.borrowers[user]
}

// Borrowers returns a copy of the open balances.
func (e *Equipment) Borrowers() map[string]int {
	out := make(map[string]int, len(e.ledger.borrowers))
	for user, qty := range e.ledger.borrowers {
		out[user] = qty
	}
	return out
}

// BorrowerNames returns borrower ids in sorted order for stable display.
func (e *Equipment) BorrowerNames() []string {
	names := make([]string, 0, len(e.ledger.borrowers))
	for user := range e.ledger.borrowers {
		names = append(names, user)
	}
	sort.Strings(names)
	return names
}

// History returns a copy of the transaction log in insertion order.
func (e *Equipment) History() []HistoryEntry {
	out := make([]HistoryEntry, len(e.ledger.history))
	copy(out, e.ledger.history)
	return out
}

func (l *ledger) settle(user string, quantity int) {
	l.borrowers[user] -= quantity
	if l.borrowers[user] == 0 {
		delete(l.borrowers, user)
	}
}

func (l *ledger) append(kind EntryKind, quantity int, user, date string) {
	l.history = append(l.history, HistoryEntry{Kind: kind, Quantity: quantity, User: user, Date: date})
}
