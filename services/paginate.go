package services

import "eei-api/models"

// Pagination is the exact-total pagination block used by the network
// endpoints: hasMore compares against the full filtered count. The search
// endpoint deliberately uses a different, page-was-full heuristic (see
// search.go); the two contracts are distinct on purpose.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// FilterRows applies the per-field filters that are not pushed into SQL on
// the anchored network endpoints: method equality plus null-tolerant
// confidence/jaccard floors. Row order is preserved; a row whose field is
// absent is never dropped by a threshold.
func FilterRows(rows []models.InteractionRow, method string, minConfidence, minJaccard *float64) []models.InteractionRow {
	if method == "" && minConfidence == nil && minJaccard == nil {
		return rows
	}
	filtered := make([]models.InteractionRow, 0, len(rows))
	for _, row := range rows {
		if method != "" && row.MethodName != method {
			continue
		}
		if minConfidence != nil && row.Confidence != nil && *row.Confidence < *minConfidence {
			continue
		}
		if minJaccard != nil && row.JaccardPercent != nil && *row.JaccardPercent < *minJaccard {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// Paginate slices the filtered list into one offset/limit page.
func Paginate(rows []models.InteractionRow, limit, offset int) ([]models.InteractionRow, Pagination) {
	p := Pagination{Limit: limit, Offset: offset, Total: len(rows)}
	if offset >= len(rows) {
		return []models.InteractionRow{}, p
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	p.HasMore = offset+limit < len(rows)
	return rows[offset:end], p
}
