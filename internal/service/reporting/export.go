package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/labtrack/internal/domain/models"
)

const (
	inventorySheet = "Inventory"
	historySheet   = "History"
)

var (
	inventoryHeader = []interface{}{"ID", "Name", "Category", "Total", "Available", "Damaged", "Lent", "Status"}
	historyHeader   = []interface{}{"Equipment", "Kind", "Quantity", "User", "Date"}
)

// ExportWorkbook writes an xlsx workbook with one Inventory row per item and
// one History row per ledger entry.
func (s *Service) ExportWorkbook(records []*models.Equipment, path string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Debug("close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(historySheet); err != nil {
		return fmt.Errorf("create history sheet: %w", err)
	}

	if err := setRow(f, inventorySheet, 1, inventoryHeader); err != nil {
		return err
	}
	if err := setRow(f, historySheet, 1, historyHeader); err != nil {
		return err
	}

	historyRow := 2
	for i, rec := range records {
		row := []interface{}{rec.ID(), rec.Name(), rec.Category(), rec.Total(), rec.Available(),
			rec.Damaged(), rec.Lent(), string(rec.Status())}
		if err := setRow(f, inventorySheet, i+2, row); err != nil {
			return err
		}

		for _, entry := range rec.History() {
			row := []interface{}{rec.Name(), string(entry.Kind), entry.Quantity, entry.User, entry.Date}
			if err := setRow(f, historySheet, historyRow, row); err != nil {
				return err
			}
			historyRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}

	s.logger.Info("inventory exported", zap.String("path", path), zap.Int("records", len(records)))
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
