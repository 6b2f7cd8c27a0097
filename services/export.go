package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eei-api/models"
)

// Export result-set types.
const (
	ExportTypeExperimental = "experimental"
	ExportTypePredicted    = "predicted"
	ExportTypeAll          = "All"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// predictedMethodAlias maps a base method name onto the name its predicted
// variant is stored under. A generic "PISA" filter means PISA rows for the
// experimental fetch and predicted_PISA rows for the predicted fetch.
var predictedMethodAlias = map[string]string{
	"PISA":  "predicted_PISA",
	"EPPIC": "predicted_EPPIC",
	"CONT":  "predicted_CONT",
}

// PredictedMethodName resolves the method filter for a predicted fetch.
// Names already carrying the predicted_ prefix pass through; unknown base
// names get the prefix attached.
func PredictedMethodName(base string) string {
	if base == "" {
		return ""
	}
	if strings.HasPrefix(base, "predicted_") {
		return base
	}
	if alias, ok := predictedMethodAlias[base]; ok {
		return alias
	}
	return "predicted_" + base
}

// ExperimentalMethodName resolves the method filter for an experimental
// fetch: the base name with any predicted_ prefix stripped.
func ExperimentalMethodName(base string) string {
	return strings.TrimPrefix(base, "predicted_")
}

// ExportLimitAll disables the row cap when passed as limit.
const ExportLimitAll = "all"

// ParseExportLimit turns the limit parameter into a row cap; 0 means
// uncapped. "all" (case-insensitive) disables the cap, a non-numeric or
// non-positive value is rejected.
func ParseExportLimit(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	if strings.EqualFold(raw, ExportLimitAll) {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, NewValidationError("limit must be a positive integer or 'all'",
			FieldError{Field: "limit", Message: "invalid"})
	}
	return n, nil
}

// ExportRequest is the parsed parameter set of /export/interactions.
type ExportRequest struct {
	Type          string
	Format        string
	Limit         int // 0 = uncapped
	Offset        int
	Method        string
	MinConfidence *float64
	MinJaccard    *float64
}

// baseColumns make up every delimited export; predictedColumns are
// appended whenever the export type includes predicted rows.
var (
	baseColumns = []string{
		"eei_id", "exon1", "exon2", "protein1", "protein2",
		"method_name", "pdb_id", "jaccard_percent", "aa1", "aa2",
	}
	predictedColumns = []string{
		"confidence", "identity1", "identity2",
		"mouse_exon1_coordinates", "mouse_exon2_coordinates",
	}
)

// ExportColumns returns the delimited column set for one export type.
func ExportColumns(exportType string) []string {
	cols := append([]string(nil), baseColumns...)
	if exportType == ExportTypePredicted || exportType == ExportTypeAll {
		cols = append(cols, predictedColumns...)
	}
	return cols
}

// ExportService fetches and renders interaction exports.
type ExportService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewExportService(db *gorm.DB, logger *zap.Logger) *ExportService {
	return &ExportService{DB: db, Logger: logger}
}

// fetchByMethodType runs one export fetch for a single method type with
// the already-remapped method name.
func (s *ExportService) fetchByMethodType(ctx context.Context, req ExportRequest, methodType, methodName string) ([]models.InteractionRow, error) {
	query := interactionJoin(s.DB.WithContext(ctx)).
		Where("m.type = ?", methodType)
	if methodName != "" {
		query = query.Where("m.name = ?", methodName)
	}
	if req.MinConfidence != nil {
		query = query.Where("(om.confidence IS NULL OR om.confidence >= ?)", *req.MinConfidence)
	}
	if req.MinJaccard != nil {
		query = query.Where("(i.jaccard_percent IS NULL OR i.jaccard_percent >= ?)", *req.MinJaccard)
	}
	query = query.Order("i.eei_id")
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}
	if req.Offset > 0 {
		query = query.Offset(req.Offset)
	}

	var rows []models.InteractionRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, Classify(err)
	}
	return rows, nil
}

// ExportBatch is one fetched export with its per-subtype counts.
type ExportBatch struct {
	Rows              []models.InteractionRow
	ExperimentalCount int
	PredictedCount    int
}

// Fetch collects the rows for one export request. For type All the
// experimental and predicted sets are fetched independently (they are
// mutually independent, so the two queries run concurrently) and
// concatenated, experimental first.
func (s *ExportService) Fetch(ctx context.Context, req ExportRequest) (*ExportBatch, error) {
	switch req.Type {
	case ExportTypeExperimental:
		rows, err := s.fetchByMethodType(ctx, req, models.MethodTypeExperimental, ExperimentalMethodName(req.Method))
		if err != nil {
			return nil, err
		}
		return &ExportBatch{Rows: rows, ExperimentalCount: len(rows)}, nil

	case ExportTypePredicted:
		rows, err := s.fetchByMethodType(ctx, req, models.MethodTypePredicted, PredictedMethodName(req.Method))
		if err != nil {
			return nil, err
		}
		return &ExportBatch{Rows: rows, PredictedCount: len(rows)}, nil

	case ExportTypeAll:
		var (
			wg                sync.WaitGroup
			expRows, predRows []models.InteractionRow
			expErr, predErr   error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			expRows, expErr = s.fetchByMethodType(ctx, req, models.MethodTypeExperimental, ExperimentalMethodName(req.Method))
		}()
		go func() {
			defer wg.Done()
			predRows, predErr = s.fetchByMethodType(ctx, req, models.MethodTypePredicted, PredictedMethodName(req.Method))
		}()
		wg.Wait()
		if expErr != nil {
			return nil, expErr
		}
		if predErr != nil {
			return nil, predErr
		}
		batch := &ExportBatch{
			Rows:              append(expRows, predRows...),
			ExperimentalCount: len(expRows),
			PredictedCount:    len(predRows),
		}
		return batch, nil

	default:
		return nil, NewValidationError("type must be experimental, predicted or All",
			FieldError{Field: "type", Message: "invalid"})
	}
}

// columnValue renders one named column of a row; nil fields come out as
// the empty string.
func columnValue(row models.InteractionRow, column string) string {
	switch column {
	case "eei_id":
		return strconv.FormatUint(uint64(row.EEIID), 10)
	case "exon1":
		return row.Exon1
	case "exon2":
		return row.Exon2
	case "protein1":
		return row.Protein1
	case "protein2":
		return row.Protein2
	case "method_name":
		return row.MethodName
	case "pdb_id":
		return strPtr(row.PDBID)
	case "jaccard_percent":
		return floatPtr(row.JaccardPercent)
	case "aa1":
		return strPtr(row.AA1)
	case "aa2":
		return strPtr(row.AA2)
	case "confidence":
		return floatPtr(row.Confidence)
	case "identity1":
		return floatPtr(row.Identity1)
	case "identity2":
		return floatPtr(row.Identity2)
	case "mouse_exon1_coordinates":
		return strPtr(row.MouseExon1Coordinates)
	case "mouse_exon2_coordinates":
		return strPtr(row.MouseExon2Coordinates)
	default:
		return ""
	}
}

func strPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteDelimited renders the batch as CSV or TSV with the type-conditional
// column set.
func WriteDelimited(w io.Writer, rows []models.InteractionRow, exportType, format string) error {
	writer := csv.NewWriter(w)
	if format == FormatTSV {
		writer.Comma = '\t'
	}
	columns := ExportColumns(exportType)
	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = columnValue(row, col)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// AppliedFilters echoes the filter parameters of a JSON export.
type AppliedFilters struct {
	Method        string   `json:"method,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	MinJaccard    *float64 `json:"min_jaccard,omitempty"`
	Limit         int      `json:"limit"`
	Offset        int      `json:"offset"`
}

// ExportMetadata accompanies JSON exports.
type ExportMetadata struct {
	Type              string         `json:"type"`
	TotalRows         int            `json:"total_rows"`
	ExperimentalCount int            `json:"experimental_count"`
	PredictedCount    int            `json:"predicted_count"`
	Filters           AppliedFilters `json:"filters"`
	GeneratedAt       time.Time      `json:"generated_at"`
}

// ExportFilename builds the attachment filename.
func ExportFilename(exportType, format string, now time.Time) string {
	return fmt.Sprintf("eei_interactions_%s_%s.%s",
		exportType, now.UTC().Format("2006-01-02T15-04-05Z"), format)
}
