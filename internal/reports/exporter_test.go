package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportFixture() GuestListReport {
	responded := time.Date(2026, 9, 20, 18, 5, 0, 0, time.UTC)
	return GuestListReport{
		EventID:    42,
		EventTitle: "Housewarming",
		EventDate:  time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Location:   "42 Elm St",
		Rows: []GuestListRow{
			{
				GuestName:   "Alice Liddell",
				Email:       "alice@example.com",
				Status:      "accepted",
				Guests:      2,
				Note:        "bringing cake",
				InvitedAt:   time.Date(2026, 9, 18, 9, 0, 0, 0, time.UTC),
				RespondedAt: &responded,
			},
			{
				Email:     "bob@example.com",
				Status:    "pending",
				InvitedAt: time.Date(2026, 9, 18, 9, 1, 0, 0, time.UTC),
			},
		},
	}
}

func TestExportCSV(t *testing.T) {
	data, filename, contentType, err := Export(FormatCSV, reportFixture())
	require.NoError(t, err)

	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(filename, "guest_list_42_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, guestListHeaders, records[0])
	assert.Equal(t, "alice@example.com", records[1][1])
	assert.Equal(t, "2", records[1][3])
	// Unanswered invitations leave the responded column blank
	assert.Equal(t, "pending", records[2][2])
	assert.Empty(t, records[2][6])
}

func TestExportExcel(t *testing.T) {
	data, filename, contentType, err := Export(FormatExcel, reportFixture())
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Guest List")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alice Liddell", rows[1][0])
	assert.Equal(t, "bob@example.com", rows[2][1])
}

func TestExportPDF(t *testing.T) {
	data, filename, contentType, err := Export(FormatPDF, reportFixture())
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportUnknownFormat(t *testing.T) {
	_, _, _, err := Export("xml", reportFixture())
	assert.Error(t, err)
}
