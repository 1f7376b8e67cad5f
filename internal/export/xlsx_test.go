package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"renewalpulse/internal/models"
)

func TestWriteXLSX_RendersConvertedColumns(t *testing.T) {
	home := decimal.NewFromInt(70)
	monthly := decimal.NewFromInt(70)
	view := &models.SubscriptionView{
		Subscription:     *exportSub("netflix"),
		AmountHome:       &home,
		MonthlyEquivHome: &monthly,
		RateKnown:        true,
		RemainingDays:    9,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []*models.SubscriptionView{view}, "CNY"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Subscriptions")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Amount (CNY)", rows[0][4])

	assert.Equal(t, "netflix", rows[1][0])
	assert.Equal(t, "9.99", rows[1][2])
	assert.Equal(t, "70.00", rows[1][4])
	assert.Equal(t, "70.00", rows[1][5])
	assert.Equal(t, "month", rows[1][7])
	assert.Equal(t, "2025-06-10", rows[1][8])
}

func TestWriteXLSX_UnknownRateLeavesHomeCellsEmpty(t *testing.T) {
	view := &models.SubscriptionView{Subscription: *exportSub("mystery")}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []*models.SubscriptionView{view}, "CNY"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Subscriptions", "E2")
	require.NoError(t, err)
	assert.Empty(t, value)
}
