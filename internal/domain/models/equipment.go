package models

import (
	"fmt"
	"math"
	"strings"
)

// Equipment is one trackable lab item. Quantities only move through the
// methods below, so the record is never left half-mutated by a rejected call.
//
// Lent is the sum of the ledger's open balances and never exceeds
// total - available. Ledger transactions keep available + lent + damaged ==
// total. Damaged units stay in total but never become available again.
type Equipment struct {
	id        string
	name      string
	category  string
	total     int
	available int
	damaged   int
	ledger    ledger
}

// NewEquipment creates a record with every unit available.
func NewEquipment(id, name, category string, total int) (*Equipment, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	switch {
	case id == "":
		return nil, fmt.Errorf("%w: equipment id cannot be empty", ErrValidation)
	case name == "":
		return nil, fmt.Errorf("%w: equipment name cannot be empty", ErrValidation)
	case category == "":
		return nil, fmt.Errorf("%w: equipment category cannot be empty", ErrValidation)
	case total < 0:
		return nil, fmt.Errorf("%w: total quantity cannot be negative", ErrValidation)
	}

	return &Equipment{
		id:        id,
		name:      name,
		category:  category,
		total:     total,
		available: total,
		ledger:    newLedger(),
	}, nil
}

func (e *Equipment) ID() string       { return e.id }
func (e *Equipment) Name() string     { return e.name }
func (e *Equipment) Category() string { return e.category }
func (e *Equipment) Total() int       { return e.total }
func (e *Equipment) Available() int   { return e.available }
func (e *Equipment) Damaged() int     { return e.damaged }

// Lent returns the sum of open balances.
func (e *Equipment) Lent() int {
	lent := 0
	for _, qty := range e.ledger.borrowers {
		lent += qty
	}
	return lent
}

// Status is recomputed on every call.
func (e *Equipment) Status() Status {
	return DeriveStatus(e.available, e.total, e.damaged)
}

// IncreaseStock adds new units to both total and available.
func (e *Equipment) IncreaseStock(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if amount > math.MaxInt-e.total {
		return fmt.Errorf("%w: adding %d would overflow total quantity %d", ErrValidation, amount, e.total)
	}
	e.total += amount
	e.available += amount
	return nil
}

// ReduceAvailable takes units out of the available pool.
func (e *Equipment) ReduceAvailable(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if amount > e.available {
		return fmt.Errorf("%w: insufficient available quantity (requested %d, available %d)", ErrValidation, amount, e.available)
	}
	e.available -= amount
	return nil
}

// IncreaseAvailable puts units back into the available pool. Damaged units
// and units still held by borrowers cannot come back this way.
func (e *Equipment) IncreaseAvailable(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if ceiling := e.total - max(e.damaged, e.Lent()); e.available+amount > ceiling {
		return fmt.Errorf("%w: cannot increase available quantity beyond total", ErrValidation)
	}
	e.available += amount
	return nil
}

// AddDamaged moves units into the damaged pool.
func (e *Equipment) AddDamaged(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if e.damaged+amount > e.total {
		return fmt.Errorf("%w: cannot have more damaged items than total quantity", ErrValidation)
	}
	e.damaged += amount
	return nil
}

// EquipmentState is the flat view of a record used for persistence.
type EquipmentState struct {
	ID        string
	Name      string
	Category  string
	Total     int
	Available int
	Damaged   int
	Borrowers map[string]int
	History   []HistoryEntry
}

// State returns a deep copy of the record.
func (e *Equipment) State() EquipmentState {
	return EquipmentState{
		ID:        e.id,
		Name:      e.name,
		Category:  e.category,
		Total:     e.total,
		Available: e.available,
		Damaged:   e.damaged,
		Borrowers: e.Borrowers(),
		History:   e.History(),
	}
}

// RestoreEquipment rebuilds a record from persisted state, rejecting any
// state that breaks the quantity or ledger invariants.
func RestoreEquipment(state EquipmentState) (*Equipment, error) {
	e, err := NewEquipment(state.ID, state.Name, state.Category, state.Total)
	if err != nil {
		return nil, err
	}

	if state.Available < 0 || state.Available > state.Total {
		return nil, fmt.Errorf("%w: %s: available %d outside [0,%d]", ErrValidation, e.name, state.Available, state.Total)
	}
	if state.Damaged < 0 || state.Damaged > state.Total {
		return nil, fmt.Errorf("%w: %s: damaged %d outside [0,%d]", ErrValidation, e.name, state.Damaged, state.Total)
	}

	lent := 0
	for user, qty := range state.Borrowers {
		if strings.TrimSpace(user) == "" || qty <= 0 {
			return nil, fmt.Errorf("%w: %s: invalid borrower balance %q=%d", ErrValidation, e.name, user, qty)
		}
		// open balances are units taken out of the available pool
		if qty > state.Total-state.Available-lent {
			return nil, fmt.Errorf("%w: %s: open balances exceed total %d minus available %d",
				ErrValidation, e.name, state.Total, state.Available)
		}
		lent += qty
		e.ledger.borrowers[user] = qty
	}

	for _, entry := range state.History {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", e.name, err)
		}
	}

	e.available = state.Available
	e.damaged = state.Damaged
	e.ledger.history = append(e.ledger.history, state.History...)
	return e, nil
}
