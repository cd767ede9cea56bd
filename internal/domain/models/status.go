package models

import "strings"

// Status is the derived availability label of an equipment record.
type Status string

const (
	StatusAvailable          Status = "AVAILABLE"
	StatusPartiallyAvailable Status = "PARTIALLY_AVAILABLE"
	StatusInUse              Status = "IN_USE"
	StatusDamaged            Status = "DAMAGED"
)

// DeriveStatus maps quantities to a status. Damage takes precedence over
// everything else.
func DeriveStatus(available, total, damaged int) Status {
	switch {
	case damaged > 0:
		return StatusDamaged
	case available == total:
		return StatusAvailable
	case available > 0:
		return StatusPartiallyAvailable
	default:
		return StatusInUse
	}
}

// ParseStatus accepts any casing and either underscores or spaces
// ("partially available") and returns the canonical status.
func ParseStatus(raw string) (Status, bool) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(raw), "_"))
	switch Status(normalized) {
	case StatusAvailable, StatusPartiallyAvailable, StatusInUse, StatusDamaged:
		return Status(normalized), true
	default:
		return "", false
	}
}
