package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"renewalpulse/internal/models"
)

// csvHeader is the canonical column order; import accepts the same columns
// in any order plus aliased spellings.
var csvHeader = []string{
	"name", "category", "amount", "currency", "cycle",
	"expires_at", "renew_url", "flow", "lead_days", "enabled", "notes",
}

// WriteCSV streams all records as UTF-8 CSV, one row per record in store
// order. The output round-trips through ReadCSV unchanged.
func WriteCSV(w io.Writer, subs []*models.Subscription) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, sub := range subs {
		row := []string{
			sub.Name,
			sub.Category,
			sub.Amount.String(),
			sub.Currency,
			string(sub.Cycle),
			sub.ExpiresAt.String(),
			sub.RenewURL,
			string(sub.Flow),
			strconv.Itoa(sub.LeadDays),
			strconv.FormatBool(sub.Enabled),
			sub.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
