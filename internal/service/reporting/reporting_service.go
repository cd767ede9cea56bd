package reporting

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/domain/models"
	"github.com/mamadbah2/labtrack/internal/service/inventory"
)

const separator = "- - - - - -"

// Service renders inventory views for the terminal and for export.
type Service struct {
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Details renders the full record, ledger included, for each item.
func (s *Service) Details(records []*models.Equipment) string {
	if len(records) == 0 {
		return "No equipment available."
	}

	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		writeDetails(&b, rec)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeDetails(b *strings.Builder, rec *models.Equipment) {
	fmt.Fprintln(b, separator)
	fmt.Fprintf(b, "ID       : %s\n", rec.ID())
	fmt.Fprintf(b, "Name     : %s\n", rec.Name())
	fmt.Fprintf(b, "Category : %s\n", rec.Category())
	fmt.Fprintf(b, "Total    : %d\n", rec.Total())
	fmt.Fprintf(b, "Available: %d\n", rec.Available())
	fmt.Fprintf(b, "Damaged  : %d\n", rec.Damaged())
	fmt.Fprintf(b, "Status   : %s\n", rec.Status())
	fmt.Fprintln(b, separator)

	fmt.Fprintln(b, "Borrowers:")
	names := rec.BorrowerNames()
	if len(names) == 0 {
		fmt.Fprintln(b, " - None")
	}
	for _, user := range names {
		fmt.Fprintf(b, " - %s: %d\n", user, rec.BorrowedBy(user))
	}

	fmt.Fprintln(b, "History:")
	history := rec.History()
	if len(history) == 0 {
		fmt.Fprintln(b, " - No history")
	}
	for _, entry := range history {
		fmt.Fprintf(b, " - %s\n", entry)
	}
}

// Available renders the student-facing list of borrowable items.
func (s *Service) Available(records []*models.Equipment) string {
	if len(records) == 0 {
		return "No equipment available."
	}

	var b strings.Builder
	b.WriteString("===== Available Equipment =====\n")
	for _, rec := range records {
		fmt.Fprintln(&b, separator)
		fmt.Fprintf(&b, "Name      : %s\n", rec.Name())
		fmt.Fprintf(&b, "Category  : %s\n", rec.Category())
		fmt.Fprintf(&b, "Available : %d\n", rec.Available())
		fmt.Fprintf(&b, "Status    : %s\n", rec.Status())
	}
	b.WriteString(separator)
	return b.String()
}

// Holdings renders what a user currently has out.
func (s *Service) Holdings(holdings []inventory.Holding) string {
	if len(holdings) == 0 {
		return "You have no borrowed equipment."
	}

	var b strings.Builder
	b.WriteString("===== My Borrowed Equipment =====\n")
	for _, h := range holdings {
		fmt.Fprintln(&b, separator)
		fmt.Fprintf(&b, "Equipment : %s\n", h.Equipment.Name())
		fmt.Fprintf(&b, "Category  : %s\n", h.Equipment.Category())
		fmt.Fprintf(&b, "Borrowed  : %d\n", h.Quantity)
	}
	b.WriteString(separator)
	return b.String()
}

// Summary is a one-line overview of the inventory totals.
func (s *Service) Summary(records []*models.Equipment) string {
	var total, available, lent, damaged int
	for _, rec := range records {
		total += rec.Total()
		available += rec.Available()
		lent += rec.Lent()
		damaged += rec.Damaged()
	}
	return fmt.Sprintf("%d items, %d units: %d available, %d lent, %d damaged.",
		len(records), total, available, lent, damaged)
}
