package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eei-api/models"
)

// ValueRange summarizes a numeric field over the rows that actually carry
// it. Min/Max stay nil when no row had the field ("no data"), never an
// Inf/NaN placeholder; Avg defaults to 0 in that case.
type ValueRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
	Avg float64  `json:"avg"`
}

// NetworkStats is the summary computed over one filtered result batch.
type NetworkStats struct {
	TotalInteractions int `json:"total_interactions"`

	UniqueGenes    int `json:"unique_genes"`
	UniqueProteins int `json:"unique_proteins"`
	UniqueExons    int `json:"unique_exons"`

	ExperimentalInteractions int `json:"experimental_interactions"`
	PredictedInteractions    int `json:"predicted_interactions"`

	Methods []string `json:"methods"`

	ConfidenceRange ValueRange `json:"confidence_range"`
	JaccardRange    ValueRange `json:"jaccard_range"`
}

// ComputeNetworkStats folds one in-memory batch into its summary. The batch
// is always the filtered set, not the returned page. An empty batch is a
// valid input and yields zero counts and empty ranges.
func ComputeNetworkStats(rows []models.InteractionRow) NetworkStats {
	stats := NetworkStats{
		TotalInteractions: len(rows),
		Methods:           []string{},
	}

	genes := map[string]struct{}{}
	proteins := map[string]struct{}{}
	exons := map[string]struct{}{}
	methods := map[string]struct{}{}

	var confidences, jaccards []float64

	for _, row := range rows {
		if row.Gene1 != nil && *row.Gene1 != "" {
			genes[*row.Gene1] = struct{}{}
		}
		if row.Gene2 != nil && *row.Gene2 != "" {
			genes[*row.Gene2] = struct{}{}
		}
		if row.Protein1 != "" {
			proteins[row.Protein1] = struct{}{}
		}
		if row.Protein2 != "" {
			proteins[row.Protein2] = struct{}{}
		}
		if row.Exon1 != "" {
			exons[row.Exon1] = struct{}{}
		}
		if row.Exon2 != "" {
			exons[row.Exon2] = struct{}{}
		}

		switch row.MethodType {
		case models.MethodTypeExperimental:
			stats.ExperimentalInteractions++
		case models.MethodTypePredicted:
			stats.PredictedInteractions++
		}
		if _, seen := methods[row.MethodName]; !seen && row.MethodName != "" {
			methods[row.MethodName] = struct{}{}
			stats.Methods = append(stats.Methods, row.MethodName)
		}

		if row.Confidence != nil {
			confidences = append(confidences, *row.Confidence)
		}
		if row.JaccardPercent != nil {
			jaccards = append(jaccards, *row.JaccardPercent)
		}
	}

	stats.UniqueGenes = len(genes)
	stats.UniqueProteins = len(proteins)
	stats.UniqueExons = len(exons)
	stats.ConfidenceRange = rangeOf(confidences)
	stats.JaccardRange = rangeOf(jaccards)
	return stats
}

// rangeOf is an explicit fold so the empty case comes out as nil min/max
// instead of the Inf/NaN a naive min/max over an empty set would produce.
func rangeOf(values []float64) ValueRange {
	if len(values) == 0 {
		return ValueRange{}
	}
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return ValueRange{Min: &min, Max: &max, Avg: sum / float64(len(values))}
}

// StatsService answers the global statistic snapshot endpoints straight
// from SQL aggregates.
type StatsService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewStatsService(db *gorm.DB, logger *zap.Logger) *StatsService {
	return &StatsService{DB: db, Logger: logger}
}

// MethodCount is one row of the per-method distribution.
type MethodCount struct {
	Name  string `json:"name" gorm:"column:name"`
	Type  string `json:"type" gorm:"column:type"`
	Count int64  `json:"count" gorm:"column:count"`
}

// GlobalCounts are the table-level row counts.
type GlobalCounts struct {
	Interactions int64 `json:"interactions"`
	Exons        int64 `json:"exons"`
	Proteins     int64 `json:"proteins"`
	Genes        int64 `json:"genes"`
	Organisms    int64 `json:"organisms"`
	Methods      int64 `json:"methods"`
}

// Summary counts every entity table.
func (s *StatsService) Summary(ctx context.Context) (*GlobalCounts, error) {
	var counts GlobalCounts
	db := s.DB.WithContext(ctx)
	for _, c := range []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Interaction{}, &counts.Interactions},
		{&models.Exon{}, &counts.Exons},
		{&models.Protein{}, &counts.Proteins},
		{&models.Gene{}, &counts.Genes},
		{&models.Organism{}, &counts.Organisms},
		{&models.Method{}, &counts.Methods},
	} {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return nil, Classify(err)
		}
	}
	return &counts, nil
}

// MethodDistribution counts interactions per method.
func (s *StatsService) MethodDistribution(ctx context.Context) ([]MethodCount, error) {
	var dist []MethodCount
	err := s.DB.WithContext(ctx).
		Table("eei_interactions AS i").
		Select("m.name AS name, m.type AS type, COUNT(*) AS count").
		Joins("JOIN eei_methods m ON m.method_id = i.method_id").
		Group("m.name, m.type").
		Order("count DESC").
		Scan(&dist).Error
	if err != nil {
		return nil, Classify(err)
	}
	return dist, nil
}

// ChromosomeCount is one row of the per-chromosome exon distribution.
type ChromosomeCount struct {
	Chromosome string `json:"chromosome" gorm:"column:chromosome"`
	Count      int64  `json:"count" gorm:"column:count"`
}

// ChromosomeDistribution counts exons per chromosome.
func (s *StatsService) ChromosomeDistribution(ctx context.Context) ([]ChromosomeCount, error) {
	var dist []ChromosomeCount
	err := s.DB.WithContext(ctx).
		Model(&models.Exon{}).
		Select("chromosome, COUNT(*) AS count").
		Group("chromosome").
		Order("count DESC").
		Scan(&dist).Error
	if err != nil {
		return nil, Classify(err)
	}
	return dist, nil
}

// scoreAggregate scans MIN/MAX/AVG straight from SQL; all three stay nil on
// an empty input because SQL aggregates over zero rows are NULL.
type scoreAggregate struct {
	Min *float64 `gorm:"column:min"`
	Max *float64 `gorm:"column:max"`
	Avg *float64 `gorm:"column:avg"`
}

func (a scoreAggregate) toRange() ValueRange {
	r := ValueRange{Min: a.Min, Max: a.Max}
	if a.Avg != nil {
		r.Avg = *a.Avg
	}
	return r
}

// ScoreRanges returns the global confidence and jaccard min/max/avg over
// the rows that carry those fields.
func (s *StatsService) ScoreRanges(ctx context.Context) (confidence, jaccard ValueRange, err error) {
	var conf scoreAggregate
	err = s.DB.WithContext(ctx).
		Model(&models.OrthologyMapping{}).
		Select("MIN(confidence) AS min, MAX(confidence) AS max, AVG(confidence) AS avg").
		Where("confidence IS NOT NULL").
		Scan(&conf).Error
	if err != nil {
		return ValueRange{}, ValueRange{}, Classify(err)
	}

	var jac scoreAggregate
	err = s.DB.WithContext(ctx).
		Model(&models.Interaction{}).
		Select("MIN(jaccard_percent) AS min, MAX(jaccard_percent) AS max, AVG(jaccard_percent) AS avg").
		Where("jaccard_percent IS NOT NULL").
		Scan(&jac).Error
	if err != nil {
		return ValueRange{}, ValueRange{}, Classify(err)
	}
	return conf.toRange(), jac.toRange(), nil
}

// NetworkOverview answers /network/stats: global interaction count, the
// per-method distribution and the distinct entity counts over both sides
// of the pair.
type NetworkOverview struct {
	TotalInteractions int64         `json:"total_interactions"`
	UniqueGenes       int64         `json:"unique_genes"`
	UniqueProteins    int64         `json:"unique_proteins"`
	UniqueExons       int64         `json:"unique_exons"`
	Methods           []MethodCount `json:"methods"`
}

func (s *StatsService) NetworkOverview(ctx context.Context) (*NetworkOverview, error) {
	var overview NetworkOverview
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Interaction{}).Count(&overview.TotalInteractions).Error; err != nil {
		return nil, Classify(err)
	}

	// Distinct entities touching any interaction, on either side.
	unionCounts := []struct {
		sql string
		dst *int64
	}{
		{`SELECT COUNT(*) FROM (
			SELECT exon1_id AS id FROM eei_interactions
			UNION SELECT exon2_id FROM eei_interactions) t`, &overview.UniqueExons},
		{`SELECT COUNT(*) FROM (
			SELECT protein1_id AS id FROM eei_interactions
			UNION SELECT protein2_id FROM eei_interactions) t`, &overview.UniqueProteins},
		{`SELECT COUNT(DISTINCT p.gene_id) FROM proteins p
			WHERE p.gene_id IS NOT NULL AND p.protein_id IN (
				SELECT protein1_id FROM eei_interactions
				UNION SELECT protein2_id FROM eei_interactions)`, &overview.UniqueGenes},
	}
	for _, q := range unionCounts {
		if err := db.Raw(q.sql).Scan(q.dst).Error; err != nil {
			return nil, Classify(err)
		}
	}

	methods, err := s.MethodDistribution(ctx)
	if err != nil {
		return nil, err
	}
	overview.Methods = methods
	return &overview, nil
}
