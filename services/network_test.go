package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubgraphQueryRejectsEmptyAnchors(t *testing.T) {
	_, err := BuildSubgraphQuery(SubgraphFilter{MaxInteractions: 100})

	require.Error(t, err)
	apiErr := Classify(err)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Len(t, apiErr.Fields, 3)
}

func TestBuildSubgraphQuerySingleGeneAnchor(t *testing.T) {
	spec, err := BuildSubgraphQuery(SubgraphFilter{
		Genes:           []string{"TP53"},
		MaxInteractions: 500,
	})
	require.NoError(t, err)

	require.Len(t, spec.Where, 1)
	assert.Equal(t, "(g1.gene_symbol IN ? OR g2.gene_symbol IN ?)", spec.Where[0].Expr)
	assert.Equal(t, []interface{}{[]string{"TP53"}, []string{"TP53"}}, spec.Where[0].Args)
	assert.Equal(t, 500, spec.Limit)
	assert.Equal(t, subgraphOrder, spec.OrderBy)
}

// Identifier lists OR within a category and across pair sides; distinct
// categories AND together.
func TestBuildSubgraphQueryCategoryComposition(t *testing.T) {
	minConf := 0.5
	minJac := 25.0
	spec, err := BuildSubgraphQuery(SubgraphFilter{
		Genes:           []string{"TP53", "MDM2"},
		Proteins:        []string{"P12345"},
		Exons:           []string{"ENSE00001"},
		Method:          "PISA",
		MinConfidence:   &minConf,
		MinJaccard:      &minJac,
		MaxInteractions: 200,
	})
	require.NoError(t, err)

	// One predicate per category, joined by AND at execution time.
	require.Len(t, spec.Where, 6)

	exprs := make([]string, len(spec.Where))
	for i, p := range spec.Where {
		exprs[i] = p.Expr
	}
	assert.Equal(t, []string{
		"(g1.gene_symbol IN ? OR g2.gene_symbol IN ?)",
		"(p1.uniprot_id IN ? OR p2.uniprot_id IN ?)",
		"(e1.ensembl_exon_id IN ? OR e2.ensembl_exon_id IN ?)",
		"m.name = ?",
		"(om.confidence IS NULL OR om.confidence >= ?)",
		"(i.jaccard_percent IS NULL OR i.jaccard_percent >= ?)",
	}, exprs)

	assert.Equal(t, []interface{}{[]string{"TP53", "MDM2"}, []string{"TP53", "MDM2"}}, spec.Where[0].Args)
	assert.Equal(t, []interface{}{"PISA"}, spec.Where[3].Args)
	assert.Equal(t, []interface{}{0.5}, spec.Where[4].Args)
	assert.Equal(t, []interface{}{25.0}, spec.Where[5].Args)
}

func TestBuildSubgraphQueryThresholdsAreNullTolerant(t *testing.T) {
	minConf := 0.7
	spec, err := BuildSubgraphQuery(SubgraphFilter{
		Exons:           []string{"ENSE00001"},
		MinConfidence:   &minConf,
		MaxInteractions: 100,
	})
	require.NoError(t, err)

	require.Len(t, spec.Where, 2)
	// A confidence floor must keep rows that carry no confidence at all.
	assert.Contains(t, spec.Where[1].Expr, "om.confidence IS NULL OR")
}

func TestBuildSubgraphQueryValuesNeverInExpr(t *testing.T) {
	spec, err := BuildSubgraphQuery(SubgraphFilter{
		Genes:           []string{"'; DROP TABLE eei_interactions; --"},
		Method:          "PISA' OR '1'='1",
		MaxInteractions: 10,
	})
	require.NoError(t, err)

	for _, p := range spec.Where {
		assert.NotContains(t, p.Expr, "DROP TABLE")
		assert.NotContains(t, p.Expr, "'1'='1")
	}
}
