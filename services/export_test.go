package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eei-api/models"
)

func TestExportColumns(t *testing.T) {
	exp := ExportColumns(ExportTypeExperimental)
	assert.Equal(t, []string{
		"eei_id", "exon1", "exon2", "protein1", "protein2",
		"method_name", "pdb_id", "jaccard_percent", "aa1", "aa2",
	}, exp)
	assert.NotContains(t, exp, "confidence")
	assert.NotContains(t, exp, "mouse_exon1_coordinates")

	pred := ExportColumns(ExportTypePredicted)
	assert.Contains(t, pred, "confidence")
	assert.Contains(t, pred, "identity1")
	assert.Contains(t, pred, "identity2")
	assert.Contains(t, pred, "mouse_exon1_coordinates")
	assert.Contains(t, pred, "mouse_exon2_coordinates")

	all := ExportColumns(ExportTypeAll)
	assert.Equal(t, pred, all)
}

func TestPredictedMethodName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"PISA", "predicted_PISA"},
		{"EPPIC", "predicted_EPPIC"},
		{"CONT", "predicted_CONT"},
		{"predicted_PISA", "predicted_PISA"},
		{"NOVEL", "predicted_NOVEL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PredictedMethodName(tt.in), "base %q", tt.in)
	}
}

func TestExperimentalMethodName(t *testing.T) {
	assert.Equal(t, "PISA", ExperimentalMethodName("PISA"))
	assert.Equal(t, "PISA", ExperimentalMethodName("predicted_PISA"))
	assert.Equal(t, "", ExperimentalMethodName(""))
}

func TestParseExportLimit(t *testing.T) {
	limit, err := ParseExportLimit("", 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, limit)

	limit, err = ParseExportLimit("25", 1000)
	require.NoError(t, err)
	assert.Equal(t, 25, limit)

	// "all" disables the cap entirely, case-insensitively.
	for _, raw := range []string{"all", "ALL", "All"} {
		limit, err = ParseExportLimit(raw, 1000)
		require.NoError(t, err)
		assert.Equal(t, 0, limit)
	}

	for _, raw := range []string{"-5", "0", "ten"} {
		_, err = ParseExportLimit(raw, 1000)
		require.Error(t, err, "raw %q", raw)
		assert.Equal(t, KindValidation, Classify(err).Kind)
	}
}

func exportFixture() ([]models.InteractionRow, []models.InteractionRow) {
	experimental := []models.InteractionRow{
		{EEIID: 1, Exon1: "ENSE1", Exon2: "ENSE2", Protein1: "P1", Protein2: "P2",
			MethodName: "PISA", MethodType: models.MethodTypeExperimental,
			PDBID: strp("1ABC"), JaccardPercent: floatp(42.5), AA1: strp("K10"), AA2: strp("R20")},
		{EEIID: 2, Exon1: "ENSE3", Exon2: "ENSE4", Protein1: "P3", Protein2: "P4",
			MethodName: "EPPIC", MethodType: models.MethodTypeExperimental},
		{EEIID: 3, Exon1: "ENSE5", Exon2: "ENSE6", Protein1: "P5", Protein2: "P6",
			MethodName: "PISA", MethodType: models.MethodTypeExperimental},
	}
	predicted := []models.InteractionRow{
		{EEIID: 4, Exon1: "ENSE7", Exon2: "ENSE8", Protein1: "P7", Protein2: "P8",
			MethodName: "predicted_PISA", MethodType: models.MethodTypePredicted,
			Confidence: floatp(0.91), Identity1: floatp(88.2), Identity2: floatp(75.0),
			MouseExon1Coordinates: strp("chr11:100-200"), MouseExon2Coordinates: strp("chr11:300-400")},
		{EEIID: 5, Exon1: "ENSE9", Exon2: "ENSE10", Protein1: "P9", Protein2: "P10",
			MethodName: "predicted_EPPIC", MethodType: models.MethodTypePredicted,
			Confidence: floatp(0.55)},
	}
	return experimental, predicted
}

// An All batch is the exact concatenation of both fetches; 3 experimental
// and 2 predicted rows come out as 5 rows, no duplication, no loss.
func TestAllBatchConcatenation(t *testing.T) {
	experimental, predicted := exportFixture()
	batch := ExportBatch{
		Rows:              append(append([]models.InteractionRow{}, experimental...), predicted...),
		ExperimentalCount: len(experimental),
		PredictedCount:    len(predicted),
	}

	assert.Equal(t, 5, len(batch.Rows))
	assert.Equal(t, batch.ExperimentalCount+batch.PredictedCount, len(batch.Rows))

	seen := map[uint]struct{}{}
	for _, row := range batch.Rows {
		_, dup := seen[row.EEIID]
		assert.False(t, dup, "duplicate eei_id %d", row.EEIID)
		seen[row.EEIID] = struct{}{}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, batch.Rows, ExportTypeAll, FormatCSV))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 6) // header + 5 rows
}

func TestWriteDelimitedCSV(t *testing.T) {
	experimental, _ := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, experimental, ExportTypeExperimental, FormatCSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "eei_id,exon1,exon2,protein1,protein2,method_name,pdb_id,jaccard_percent,aa1,aa2", lines[0])
	assert.Equal(t, "1,ENSE1,ENSE2,P1,P2,PISA,1ABC,42.5,K10,R20", lines[1])
	// Absent fields render as empty cells, not "null" or "0".
	assert.Equal(t, "2,ENSE3,ENSE4,P3,P4,EPPIC,,,,", lines[2])
}

func TestWriteDelimitedTSV(t *testing.T) {
	_, predicted := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteDelimited(&buf, predicted, ExportTypePredicted, FormatTSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "eei_id\texon1\t"))
	assert.Contains(t, lines[0], "\tconfidence\tidentity1\tidentity2\tmouse_exon1_coordinates\tmouse_exon2_coordinates")
	assert.Contains(t, lines[1], "\t0.91\t88.2\t75\tchr11:100-200\tchr11:300-400")
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t,
		"eei_interactions_All_2026-03-14T09-26-53Z.csv",
		ExportFilename(ExportTypeAll, FormatCSV, now))
	assert.Equal(t,
		"eei_interactions_predicted_2026-03-14T09-26-53Z.tsv",
		ExportFilename(ExportTypePredicted, FormatTSV, now))
	assert.Equal(t,
		"eei_interactions_experimental_2026-03-14T09-26-53Z.json",
		ExportFilename(ExportTypeExperimental, FormatJSON, now))
}
