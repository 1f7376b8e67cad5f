package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"renewalpulse/internal/models"
)

// WriteXLSX renders the hydrated view as a spreadsheet, with the converted
// home-currency columns the plain CSV export leaves out.
func WriteXLSX(w io.Writer, views []*models.SubscriptionView, homeCurrency string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Subscriptions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []interface{}{
		"Name", "Category", "Amount", "Currency",
		fmt.Sprintf("Amount (%s)", homeCurrency),
		fmt.Sprintf("Monthly (%s)", homeCurrency),
		fmt.Sprintf("Yearly (%s)", homeCurrency),
		"Cycle", "Expires", "Days left", "Flow", "Lead days", "Enabled", "Renew URL", "Notes",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCol, bold)
	}

	for i, v := range views {
		row := []interface{}{
			v.Name,
			v.Category,
			decimalCell(&v.Amount),
			v.Currency,
			decimalCell(v.AmountHome),
			decimalCell(v.MonthlyEquivHome),
			decimalCell(v.YearlyEquivHome),
			string(v.Cycle),
			v.ExpiresAt.String(),
			v.RemainingDays,
			string(v.Flow),
			v.LeadDays,
			v.Enabled,
			v.RenewURL,
			v.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func decimalCell(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
