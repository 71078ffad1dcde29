package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	var noDate *time.Time

	data, err := Workbook(Sheet{
		Name: "Bookings",
		Columns: []Column{
			{Header: "ID", Width: 8},
			{Header: "Type"},
			{Header: "Status", Width: 12},
			{Header: "Move In"},
			{Header: "Created"},
		},
		Rows: [][]any{
			{int64(1), "hostel", "approved", noDate, created},
			{int64(2), "pg", "pending", &created, nil},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Bookings"}, f.GetSheetList())

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Type", "Status", "Move In", "Created"}, rows[0])
	assert.Equal(t, []string{"1", "hostel", "approved", "", "2025-03-14 09:30"}, rows[1])
	assert.Equal(t, []string{"2", "pg", "pending", "2025-03-14"}, rows[2])
}

func TestWorkbook_RequiresName(t *testing.T) {
	_, err := Workbook(Sheet{})
	assert.Error(t, err)
}
