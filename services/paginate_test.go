package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eei-api/models"
)

func makeRows(n int) []models.InteractionRow {
	rows := make([]models.InteractionRow, n)
	for i := range rows {
		rows[i] = models.InteractionRow{EEIID: uint(i + 1)}
	}
	return rows
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		limit       int
		offset      int
		wantLen     int
		wantFirst   uint
		wantHasMore bool
	}{
		{"empty list", 0, 10, 0, 0, 0, false},
		{"single row", 1, 10, 0, 1, 1, false},
		{"exactly one page", 10, 10, 0, 10, 1, false},
		{"one more than a page", 11, 10, 0, 10, 1, true},
		{"second page short", 11, 10, 10, 1, 11, false},
		{"offset beyond list", 5, 10, 20, 0, 0, false},
		{"offset at end", 5, 10, 5, 0, 0, false},
		{"middle page", 30, 10, 10, 10, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := makeRows(tt.total)
			page, p := Paginate(rows, tt.limit, tt.offset)

			assert.Len(t, page, tt.wantLen)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.wantHasMore, p.HasMore)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, page[0].EEIID)
			}
		})
	}
}

func floatp(v float64) *float64 { return &v }

func TestFilterRowsConfidenceNullSafety(t *testing.T) {
	rows := []models.InteractionRow{
		{EEIID: 1, Confidence: nil},
		{EEIID: 2, Confidence: floatp(0.4)},
		{EEIID: 3, Confidence: floatp(0.9)},
	}

	filtered := FilterRows(rows, "", floatp(0.5), nil)

	// The null row is retained; only the sub-threshold row drops.
	require.Len(t, filtered, 2)
	assert.Equal(t, uint(1), filtered[0].EEIID)
	assert.Equal(t, uint(3), filtered[1].EEIID)
}

func TestFilterRowsJaccardNullSafety(t *testing.T) {
	rows := []models.InteractionRow{
		{EEIID: 1, JaccardPercent: floatp(50)},
		{EEIID: 2, JaccardPercent: nil},
		{EEIID: 3, JaccardPercent: floatp(10)},
	}

	filtered := FilterRows(rows, "", nil, floatp(25))

	require.Len(t, filtered, 2)
	assert.Equal(t, uint(1), filtered[0].EEIID)
	assert.Equal(t, uint(2), filtered[1].EEIID)
}

func TestFilterRowsMethodEquality(t *testing.T) {
	rows := []models.InteractionRow{
		{EEIID: 1, MethodName: "PISA"},
		{EEIID: 2, MethodName: "EPPIC"},
		{EEIID: 3, MethodName: "PISA"},
	}

	filtered := FilterRows(rows, "PISA", nil, nil)

	require.Len(t, filtered, 2)
	assert.Equal(t, uint(1), filtered[0].EEIID)
	assert.Equal(t, uint(3), filtered[1].EEIID)
}

func TestFilterRowsNoFiltersReturnsInput(t *testing.T) {
	rows := makeRows(3)
	filtered := FilterRows(rows, "", nil, nil)
	assert.Equal(t, rows, filtered)
}

func TestFilterRowsPreservesOrder(t *testing.T) {
	rows := []models.InteractionRow{
		{EEIID: 9, Confidence: floatp(0.9)},
		{EEIID: 3, Confidence: floatp(0.7)},
		{EEIID: 7, Confidence: nil},
		{EEIID: 1, Confidence: floatp(0.8)},
	}

	filtered := FilterRows(rows, "", floatp(0.5), nil)

	require.Len(t, filtered, 4)
	assert.Equal(t, []uint{9, 3, 7, 1}, []uint{
		filtered[0].EEIID, filtered[1].EEIID, filtered[2].EEIID, filtered[3].EEIID,
	})
}
