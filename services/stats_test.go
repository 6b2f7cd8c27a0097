package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eei-api/models"
)

func strp(v string) *string { return &v }

func TestComputeNetworkStatsEmptyBatch(t *testing.T) {
	stats := ComputeNetworkStats(nil)

	assert.Equal(t, 0, stats.TotalInteractions)
	assert.Equal(t, 0, stats.UniqueGenes)
	assert.Equal(t, 0, stats.UniqueProteins)
	assert.Equal(t, 0, stats.UniqueExons)
	assert.Equal(t, 0, stats.ExperimentalInteractions)
	assert.Equal(t, 0, stats.PredictedInteractions)
	assert.Empty(t, stats.Methods)

	// No data: min/max are absent, not Inf/NaN, and avg defaults to 0.
	assert.Nil(t, stats.ConfidenceRange.Min)
	assert.Nil(t, stats.ConfidenceRange.Max)
	assert.Zero(t, stats.ConfidenceRange.Avg)
	assert.Nil(t, stats.JaccardRange.Min)
	assert.Nil(t, stats.JaccardRange.Max)
	assert.Zero(t, stats.JaccardRange.Avg)
}

func TestComputeNetworkStats(t *testing.T) {
	rows := []models.InteractionRow{
		{
			EEIID: 1,
			Exon1: "ENSE1", Exon2: "ENSE2",
			Protein1: "P1", Protein2: "P2",
			Gene1: strp("TP53"), Gene2: strp("MDM2"),
			MethodName: "PISA", MethodType: models.MethodTypeExperimental,
			JaccardPercent: floatp(40),
		},
		{
			EEIID: 2,
			Exon1: "ENSE2", Exon2: "ENSE3",
			Protein1: "P2", Protein2: "P3",
			Gene1: strp("MDM2"), Gene2: nil, // unannotated side is excluded from the set
			MethodName: "predicted_PISA", MethodType: models.MethodTypePredicted,
			Confidence: floatp(0.8),
		},
		{
			EEIID: 3,
			Exon1: "ENSE1", Exon2: "ENSE4",
			Protein1: "P1", Protein2: "P4",
			Gene1: strp("TP53"), Gene2: strp("EGFR"),
			MethodName: "PISA", MethodType: models.MethodTypeExperimental,
			JaccardPercent: floatp(80),
		},
		{
			EEIID: 4,
			Exon1: "ENSE5", Exon2: "ENSE6",
			Protein1: "P5", Protein2: "P6",
			MethodName: "predicted_EPPIC", MethodType: models.MethodTypePredicted,
			Confidence: floatp(0.4),
		},
	}

	stats := ComputeNetworkStats(rows)

	assert.Equal(t, 4, stats.TotalInteractions)
	assert.Equal(t, 3, stats.UniqueGenes)    // TP53, MDM2, EGFR
	assert.Equal(t, 6, stats.UniqueProteins) // P1..P6
	assert.Equal(t, 6, stats.UniqueExons)    // ENSE1..ENSE6
	assert.Equal(t, 2, stats.ExperimentalInteractions)
	assert.Equal(t, 2, stats.PredictedInteractions)
	assert.ElementsMatch(t, []string{"PISA", "predicted_PISA", "predicted_EPPIC"}, stats.Methods)

	require.NotNil(t, stats.ConfidenceRange.Min)
	require.NotNil(t, stats.ConfidenceRange.Max)
	assert.InDelta(t, 0.4, *stats.ConfidenceRange.Min, 1e-9)
	assert.InDelta(t, 0.8, *stats.ConfidenceRange.Max, 1e-9)
	assert.InDelta(t, 0.6, stats.ConfidenceRange.Avg, 1e-9)

	require.NotNil(t, stats.JaccardRange.Min)
	require.NotNil(t, stats.JaccardRange.Max)
	assert.InDelta(t, 40, *stats.JaccardRange.Min, 1e-9)
	assert.InDelta(t, 80, *stats.JaccardRange.Max, 1e-9)
	assert.InDelta(t, 60, stats.JaccardRange.Avg, 1e-9)
}

func TestComputeNetworkStatsRangeSkipsNulls(t *testing.T) {
	// Batch where no row carries a confidence at all.
	rows := []models.InteractionRow{
		{EEIID: 1, Exon1: "A", Exon2: "B", Protein1: "P1", Protein2: "P2",
			MethodName: "PISA", MethodType: models.MethodTypeExperimental,
			JaccardPercent: floatp(12.5)},
	}

	stats := ComputeNetworkStats(rows)

	assert.Nil(t, stats.ConfidenceRange.Min)
	assert.Nil(t, stats.ConfidenceRange.Max)
	assert.Zero(t, stats.ConfidenceRange.Avg)
	require.NotNil(t, stats.JaccardRange.Min)
	assert.Equal(t, 12.5, *stats.JaccardRange.Min)
	assert.Equal(t, 12.5, *stats.JaccardRange.Max)
	assert.Equal(t, 12.5, stats.JaccardRange.Avg)
}

func TestRangeOfSingleValue(t *testing.T) {
	r := rangeOf([]float64{0.25})
	require.NotNil(t, r.Min)
	require.NotNil(t, r.Max)
	assert.Equal(t, 0.25, *r.Min)
	assert.Equal(t, 0.25, *r.Max)
	assert.Equal(t, 0.25, r.Avg)
}
