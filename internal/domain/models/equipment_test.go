package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEquipment(t *testing.T, name, category string, total int) *Equipment {
	t.Helper()
	e, err := NewEquipment("id-"+name, name, category, total)
	require.NoError(t, err)
	return e
}

func assertBounds(t *testing.T, e *Equipment) {
	t.Helper()
	assert.GreaterOrEqual(t, e.Available(), 0)
	assert.LessOrEqual(t, e.Available(), e.Total())
	assert.GreaterOrEqual(t, e.Damaged(), 0)
	assert.LessOrEqual(t, e.Damaged(), e.Total())
}

func TestNewEquipment(t *testing.T) {
	e, err := NewEquipment("abc", "  Microscope ", "Optics", 5)
	require.NoError(t, err)
	assert.Equal(t, "Microscope", e.Name())
	assert.Equal(t, 5, e.Total())
	assert.Equal(t, 5, e.Available())
	assert.Equal(t, 0, e.Damaged())
	assert.Equal(t, StatusAvailable, e.Status())

	zero, err := NewEquipment("z", "Scale", "Weighing", 0)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, zero.Status())
}

func TestNewEquipment_Rejects(t *testing.T) {
	cases := map[string]struct {
		id, name, category string
		total              int
	}{
		"blank id":       {" ", "Microscope", "Optics", 1},
		"blank name":     {"a", "   ", "Optics", 1},
		"blank category": {"a", "Microscope", "", 1},
		"negative total": {"a", "Microscope", "Optics", -1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewEquipment(tc.id, tc.name, tc.category, tc.total)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestEquipment_QuantityMutations(t *testing.T) {
	e := mustEquipment(t, "Pipette", "Glassware", 3)

	require.NoError(t, e.IncreaseStock(2))
	assert.Equal(t, 5, e.Total())
	assert.Equal(t, 5, e.Available())

	require.NoError(t, e.ReduceAvailable(5))
	assert.Equal(t, StatusInUse, e.Status())
	assertBounds(t, e)

	assert.ErrorIs(t, e.ReduceAvailable(1), ErrValidation)
	require.NoError(t, e.IncreaseAvailable(2))
	assert.Equal(t, StatusPartiallyAvailable, e.Status())

	assert.ErrorIs(t, e.IncreaseAvailable(4), ErrValidation)
	assert.Equal(t, 2, e.Available())

	for _, bad := range []int{0, -3} {
		assert.ErrorIs(t, e.IncreaseStock(bad), ErrValidation)
		assert.ErrorIs(t, e.ReduceAvailable(bad), ErrValidation)
		assert.ErrorIs(t, e.IncreaseAvailable(bad), ErrValidation)
		assert.ErrorIs(t, e.AddDamaged(bad), ErrValidation)
	}
	assertBounds(t, e)
}

func TestEquipment_IncreaseStockRejectsOverflow(t *testing.T) {
	e := mustEquipment(t, "Microscope", "Optics", 5)
	require.NoError(t, e.Borrow("alice", 1, "2024-03-01"))
	before := e.State()

	assert.ErrorIs(t, e.IncreaseStock(math.MaxInt), ErrValidation)
	assert.Equal(t, before, e.State())
	assert.Equal(t, StatusPartiallyAvailable, e.Status())

	require.NoError(t, e.IncreaseStock(math.MaxInt-5))
	assert.Equal(t, math.MaxInt, e.Total())
	assert.ErrorIs(t, e.IncreaseStock(1), ErrValidation)
	assertBounds(t, e)
}

func TestEquipment_IncreaseAvailableKeepsOpenBalances(t *testing.T) {
	e := mustEquipment(t, "Burette", "Glassware", 4)
	require.NoError(t, e.Borrow("alice", 3, "2024-03-01"))

	// three units are with alice, so only one slot is free
	assert.ErrorIs(t, e.IncreaseAvailable(1), ErrValidation)
	require.NoError(t, e.ReduceAvailable(1))
	require.NoError(t, e.IncreaseAvailable(1))
	assert.Equal(t, 3, e.Lent())

	require.NoError(t, e.GiveBack("alice", 3, "2024-03-02"))
	assert.Equal(t, 4, e.Available())
	assert.Zero(t, e.Lent())
}

func TestRestoreEquipment_AcceptsDirectMutations(t *testing.T) {
	scope := mustEquipment(t, "Scope", "Optics", 5)
	require.NoError(t, scope.ReduceAvailable(2))
	lens := mustEquipment(t, "Lens", "Optics", 5)
	require.NoError(t, lens.AddDamaged(1))
	flask := mustEquipment(t, "Flask", "Glassware", 6)
	require.NoError(t, flask.Borrow("bob", 2, "2024-03-01"))
	require.NoError(t, flask.ReduceAvailable(1))
	require.NoError(t, flask.AddDamaged(1))

	for _, e := range []*Equipment{scope, lens, flask} {
		restored, err := RestoreEquipment(e.State())
		require.NoError(t, err, e.Name())
		assert.Equal(t, e.State(), restored.State())
		assert.Equal(t, e.Status(), restored.Status())
		assert.Equal(t, e.Lent(), restored.Lent())
	}
}

func TestEquipment_AddDamagedCappedByTotal(t *testing.T) {
	e := mustEquipment(t, "Beaker", "Glassware", 2)
	require.NoError(t, e.ReduceAvailable(2))
	require.NoError(t, e.AddDamaged(2))
	assert.ErrorIs(t, e.AddDamaged(1), ErrValidation)
	assert.Equal(t, 2, e.Damaged())
	assertBounds(t, e)
}

func TestEquipment_IncreaseAvailableExcludesDamaged(t *testing.T) {
	e := mustEquipment(t, "Flask", "Glassware", 4)
	require.NoError(t, e.Borrow("alice", 2, "2024-01-01"))
	require.NoError(t, e.ReportDamaged("alice", 1, "2024-01-02"))

	// one unit is still with alice; the damaged one can never come back
	assert.ErrorIs(t, e.IncreaseAvailable(2), ErrValidation)
	require.NoError(t, e.IncreaseAvailable(1))
	assert.Equal(t, 3, e.Available())
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		available, total, damaged int
		want                      Status
	}{
		{5, 5, 0, StatusAvailable},
		{0, 0, 0, StatusAvailable},
		{3, 5, 0, StatusPartiallyAvailable},
		{0, 5, 0, StatusInUse},
		{5, 5, 1, StatusDamaged},
		{0, 5, 5, StatusDamaged},
		{2, 5, 1, StatusDamaged},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStatus(tt.available, tt.total, tt.damaged), "%+v", tt)
	}
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]Status{
		"available":           StatusAvailable,
		"Partially Available": StatusPartiallyAvailable,
		"partially_available": StatusPartiallyAvailable,
		" in use ":            StatusInUse,
		"DAMAGED":             StatusDamaged,
	} {
		got, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseStatus("broken")
	assert.False(t, ok)
}

func TestRestoreEquipment(t *testing.T) {
	state := EquipmentState{
		ID: "x1", Name: "Microscope", Category: "Optics",
		Total: 5, Available: 2, Damaged: 1,
		Borrowers: map[string]int{"bob": 2},
		History: []HistoryEntry{
			{Kind: EntryBorrow, Quantity: 3, User: "bob", Date: "2024-03-02"},
			{Kind: EntryDamaged, Quantity: 1, User: "bob", Date: "2024-03-04"},
		},
	}
	e, err := RestoreEquipment(state)
	require.NoError(t, err)
	assert.Equal(t, state, e.State())
	assert.Equal(t, StatusDamaged, e.Status())

	broken := state
	broken.Available = 4
	_, err = RestoreEquipment(broken)
	assert.ErrorIs(t, err, ErrValidation)

	overflow := state
	overflow.Available = 0
	overflow.Borrowers = map[string]int{"bob": math.MaxInt, "amy": math.MaxInt}
	_, err = RestoreEquipment(overflow)
	assert.ErrorIs(t, err, ErrValidation)

	badEntry := state
	badEntry.History = []HistoryEntry{{Kind: "LOST", Quantity: 1, User: "bob", Date: "2024-03-02"}}
	_, err = RestoreEquipment(badEntry)
	assert.ErrorIs(t, err, ErrValidation)
}
