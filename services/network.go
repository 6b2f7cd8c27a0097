package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eei-api/models"
)

// SubgraphFilter is the full filter state of one network query. Identifier
// lists match business keys exactly (case-sensitive); threshold fields are
// nil when the caller did not set them.
type SubgraphFilter struct {
	Genes    []string `json:"genes"`
	Proteins []string `json:"proteins"`
	Exons    []string `json:"exons"`

	Method        string   `json:"method,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	MinJaccard    *float64 `json:"min_jaccard,omitempty"`

	MaxInteractions int `json:"max_interactions"`
}

// Predicate is one WHERE clause with its bound arguments. Caller-supplied
// values only ever travel through Args, never through Expr.
type Predicate struct {
	Expr string
	Args []interface{}
}

// QuerySpec is the assembled query: ordered predicates plus sorting and
// row cap, applied to the interaction join view just before execution.
type QuerySpec struct {
	Where   []Predicate
	OrderBy string
	Limit   int
}

// Predicted rows sort by confidence, unscored rows fall back to jaccard.
const subgraphOrder = "om.confidence DESC NULLS LAST, i.jaccard_percent DESC NULLS LAST"

// BuildSubgraphQuery turns a filter state into a QuerySpec. Each non-empty
// identifier list matches either side of the pair (OR across the list, OR
// across sides); distinct filter categories combine with AND. At least one
// anchor list must be non-empty.
func BuildSubgraphQuery(f SubgraphFilter) (QuerySpec, error) {
	if len(f.Genes) == 0 && len(f.Proteins) == 0 && len(f.Exons) == 0 {
		return QuerySpec{}, NewValidationError(
			"at least one of genes, proteins or exons must be given",
			FieldError{Field: "genes", Message: "empty"},
			FieldError{Field: "proteins", Message: "empty"},
			FieldError{Field: "exons", Message: "empty"},
		)
	}

	spec := QuerySpec{OrderBy: subgraphOrder, Limit: f.MaxInteractions}

	if len(f.Genes) > 0 {
		spec.Where = append(spec.Where, Predicate{
			Expr: "(g1.gene_symbol IN ? OR g2.gene_symbol IN ?)",
			Args: []interface{}{f.Genes, f.Genes},
		})
	}
	if len(f.Proteins) > 0 {
		spec.Where = append(spec.Where, Predicate{
			Expr: "(p1.uniprot_id IN ? OR p2.uniprot_id IN ?)",
			Args: []interface{}{f.Proteins, f.Proteins},
		})
	}
	if len(f.Exons) > 0 {
		spec.Where = append(spec.Where, Predicate{
			Expr: "(e1.ensembl_exon_id IN ? OR e2.ensembl_exon_id IN ?)",
			Args: []interface{}{f.Exons, f.Exons},
		})
	}
	if f.Method != "" {
		spec.Where = append(spec.Where, Predicate{
			Expr: "m.name = ?",
			Args: []interface{}{f.Method},
		})
	}
	// Threshold floors must not drop rows whose attribute is simply absent
	// for their method type.
	if f.MinConfidence != nil {
		spec.Where = append(spec.Where, Predicate{
			Expr: "(om.confidence IS NULL OR om.confidence >= ?)",
			Args: []interface{}{*f.MinConfidence},
		})
	}
	if f.MinJaccard != nil {
		spec.Where = append(spec.Where, Predicate{
			Expr: "(i.jaccard_percent IS NULL OR i.jaccard_percent >= ?)",
			Args: []interface{}{*f.MinJaccard},
		})
	}

	return spec, nil
}

const interactionColumns = `i.eei_id AS eei_id,
e1.ensembl_exon_id AS exon1, e2.ensembl_exon_id AS exon2,
p1.uniprot_id AS protein1, p2.uniprot_id AS protein2,
g1.gene_symbol AS gene1, g2.gene_symbol AS gene2,
m.name AS method_name, m.type AS method_type,
i.pdb_id AS pdb_id, i.jaccard_percent AS jaccard_percent, i.aa1 AS aa1, i.aa2 AS aa2,
om.confidence AS confidence, om.identity1 AS identity1, om.identity2 AS identity2,
om.mouse_exon1_coordinates AS mouse_exon1_coordinates,
om.mouse_exon2_coordinates AS mouse_exon2_coordinates`

// interactionJoin attaches the gorm query to the interaction join view.
func interactionJoin(db *gorm.DB) *gorm.DB {
	return db.Table("eei_interactions AS i").
		Select(interactionColumns).
		Joins("JOIN exons e1 ON e1.exon_id = i.exon1_id").
		Joins("JOIN exons e2 ON e2.exon_id = i.exon2_id").
		Joins("JOIN proteins p1 ON p1.protein_id = i.protein1_id").
		Joins("JOIN proteins p2 ON p2.protein_id = i.protein2_id").
		Joins("LEFT JOIN genes g1 ON g1.gene_id = p1.gene_id").
		Joins("LEFT JOIN genes g2 ON g2.gene_id = p2.gene_id").
		Joins("JOIN eei_methods m ON m.method_id = i.method_id").
		Joins("LEFT JOIN eei_orthology_mapping om ON om.eei_id = i.eei_id")
}

// NetworkService runs subgraph queries against the row source.
type NetworkService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewNetworkService(db *gorm.DB, logger *zap.Logger) *NetworkService {
	return &NetworkService{DB: db, Logger: logger}
}

// FetchSubgraph executes a QuerySpec and returns the capped result batch.
func (s *NetworkService) FetchSubgraph(ctx context.Context, spec QuerySpec) ([]models.InteractionRow, error) {
	query := interactionJoin(s.DB.WithContext(ctx))
	for _, p := range spec.Where {
		query = query.Where(p.Expr, p.Args...)
	}
	if spec.OrderBy != "" {
		query = query.Order(spec.OrderBy)
	}
	if spec.Limit > 0 {
		query = query.Limit(spec.Limit)
	}

	var rows []models.InteractionRow
	if err := query.Scan(&rows).Error; err != nil {
		s.Logger.Error("Subgraph query failed", zap.Error(err))
		return nil, Classify(err)
	}
	return rows, nil
}

// FetchByFilter builds the query from a filter state and runs it.
func (s *NetworkService) FetchByFilter(ctx context.Context, f SubgraphFilter) ([]models.InteractionRow, error) {
	spec, err := BuildSubgraphQuery(f)
	if err != nil {
		return nil, err
	}
	return s.FetchSubgraph(ctx, spec)
}
