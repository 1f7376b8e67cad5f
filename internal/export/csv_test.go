package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewalpulse/internal/models"
)

func exportSub(name string) *models.Subscription {
	return &models.Subscription{
		ID:        uuid.New(),
		Name:      name,
		Category:  "video",
		Amount:    decimal.NewFromFloat(9.99),
		Currency:  "USD",
		Cycle:     models.CycleMonth,
		ExpiresAt: models.NewDate(2025, time.June, 10),
		RenewURL:  "https://example.com/renew",
		Flow:      models.FlowExpense,
		LeadDays:  7,
		Enabled:   true,
		Notes:     "family plan",
	}
}

func TestWriteCSV_RoundTripsThroughReadCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*models.Subscription{exportSub("netflix")}))

	rows, rowErrors, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)

	in := rows[0].Input
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "netflix", in.Name)
	assert.Equal(t, "video", in.Category)
	assert.True(t, in.Amount.Equal(decimal.NewFromFloat(9.99)))
	assert.Equal(t, "USD", in.Currency)
	assert.Equal(t, "month", in.Cycle)
	assert.Equal(t, "2025-06-10", in.ExpiresAt)
	assert.Equal(t, "expense", in.Flow)
	require.NotNil(t, in.LeadDays)
	assert.Equal(t, 7, *in.LeadDays)
	require.NotNil(t, in.Enabled)
	assert.True(t, *in.Enabled)
	assert.Equal(t, "family plan", in.Notes)
}

func TestWriteCSV_QuotesEmbeddedCommas(t *testing.T) {
	sub := exportSub("netflix")
	sub.Notes = "shared, premium tier"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*models.Subscription{sub}))

	rows, _, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "shared, premium tier", rows[0].Input.Notes)
}
