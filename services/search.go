package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eei-api/models"
)

// Search entity-type hints.
const (
	SearchTypeGene    = "gene"
	SearchTypeProtein = "protein"
	SearchTypeExon    = "exon"
	SearchTypeAny     = "any"
)

// NormalizeSearchType canonicalizes the declared hint; anything unknown or
// empty falls back to "any".
func NormalizeSearchType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SearchTypeGene:
		return SearchTypeGene
	case SearchTypeProtein:
		return SearchTypeProtein
	case SearchTypeExon:
		return SearchTypeExon
	default:
		return SearchTypeAny
	}
}

// SearchPagination is the search envelope's pagination block. hasMore here
// is the page-was-full heuristic (count == limit), NOT the exact total
// comparison the network endpoints use. Callers depend on each semantic,
// so the two are kept distinct.
type SearchPagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"hasMore"`
}

// newSearchPagination fills the heuristic block: a full page signals that
// more rows may exist, a short one that the result set is exhausted.
func newSearchPagination(limit, offset, count int) SearchPagination {
	return SearchPagination{
		Limit:   limit,
		Offset:  offset,
		Count:   count,
		HasMore: count == limit,
	}
}

// SearchResult is the uniform envelope of /search.
type SearchResult struct {
	SearchTerm string                  `json:"search_term"`
	SearchType string                  `json:"search_type"`
	Results    []models.InteractionRow `json:"results"`
	Pagination SearchPagination        `json:"pagination"`
}

// SearchService routes a free-text term to the matching entity search.
type SearchService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewSearchService(db *gorm.DB, logger *zap.Logger) *SearchService {
	return &SearchService{DB: db, Logger: logger}
}

// SearchPredicate builds the match clause for one normalized search type.
// The term is matched as a substring against business keys; "any" ORs all
// three entity fields together.
func SearchPredicate(searchType, term string) Predicate {
	pattern := "%" + term + "%"
	switch searchType {
	case SearchTypeGene:
		return Predicate{
			Expr: "(g1.gene_symbol ILIKE ? OR g2.gene_symbol ILIKE ?)",
			Args: []interface{}{pattern, pattern},
		}
	case SearchTypeProtein:
		return Predicate{
			Expr: "(p1.uniprot_id ILIKE ? OR p2.uniprot_id ILIKE ?)",
			Args: []interface{}{pattern, pattern},
		}
	case SearchTypeExon:
		return Predicate{
			Expr: "(e1.ensembl_exon_id ILIKE ? OR e2.ensembl_exon_id ILIKE ?)",
			Args: []interface{}{pattern, pattern},
		}
	default:
		return Predicate{
			Expr: `(g1.gene_symbol ILIKE ? OR g2.gene_symbol ILIKE ?
				OR p1.uniprot_id ILIKE ? OR p2.uniprot_id ILIKE ?
				OR e1.ensembl_exon_id ILIKE ? OR e2.ensembl_exon_id ILIKE ?)`,
			Args: []interface{}{pattern, pattern, pattern, pattern, pattern, pattern},
		}
	}
}

// Search runs one dispatched search and assembles the envelope.
func (s *SearchService) Search(ctx context.Context, term, searchType string, limit, offset int) (*SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, NewValidationError("search term must not be empty",
			FieldError{Field: "q", Message: "required"})
	}
	searchType = NormalizeSearchType(searchType)
	pred := SearchPredicate(searchType, term)

	var rows []models.InteractionRow
	err := interactionJoin(s.DB.WithContext(ctx)).
		Where(pred.Expr, pred.Args...).
		Order("i.eei_id").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		s.Logger.Error("Search query failed",
			zap.String("term", term),
			zap.String("type", searchType),
			zap.Error(err))
		return nil, Classify(err)
	}
	if rows == nil {
		rows = []models.InteractionRow{}
	}

	return &SearchResult{
		SearchTerm: term,
		SearchType: searchType,
		Results:    rows,
		Pagination: newSearchPagination(limit, offset, len(rows)),
	}, nil
}
